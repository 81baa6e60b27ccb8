package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"labelops-mcp/internal/config"
	"labelops-mcp/internal/metrics"
	"labelops-mcp/internal/snapshot"
	"labelops-mcp/internal/workforce"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) FetchDailyRecords(ctx context.Context, kind workforce.EntityKind, projectID int, start, end *time.Time) ([]workforce.DailyRecord, error) {
	args := m.Called(ctx, kind, projectID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]workforce.DailyRecord), args.Error(1)
}

func (m *mockClient) FetchHierarchy(ctx context.Context) (*workforce.Hierarchy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workforce.Hierarchy), args.Error(1)
}

func (m *mockClient) FetchLoggedHours(ctx context.Context, entityID string, start, end *time.Time) (*float64, error) {
	args := m.Called(ctx, entityID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *mockClient) FetchAHTConfig(ctx context.Context, projectID int) (workforce.AHTConfig, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(workforce.AHTConfig), args.Error(1)
}

func newTestServer(client workforce.Client, charts bool) *Server {
	cfg := &config.AppConfig{EnableMermaidCharts: charts}
	return &Server{
		cfg:      cfg,
		client:   client,
		provider: snapshot.NewProvider(client, snapshot.NewRecordStore(), ""),
	}
}

func testHierarchy() *workforce.Hierarchy {
	return &workforce.Hierarchy{
		TrainerPod:  map[string]string{"t-1": "lead-1", "t-2": "lead-1"},
		ReviewerPod: map[string]string{"r-1": "lead-1"},
		PodProject:  map[string]int{"lead-1": 7},
		Names:       map[string]string{"t-1": "Ada", "t-2": "Grace", "r-1": "Edsger", "lead-1": "Barbara"},
		Projects:    map[int]string{7: "Dialogue QA"},
	}
}

func trainerRecords(daysBack int) []workforce.DailyRecord {
	date := metrics.DateOnly(time.Now()).AddDate(0, 0, -daysBack)
	return []workforce.DailyRecord{
		{EntityID: "t-1", Date: date, UniqueTasks: 12, NewTasks: 10, ReworkTasks: 5, TotalReviews: 8, SumTurns: 12, RatingWeight: 8, RatingSumWeighted: 36},
		{EntityID: "t-2", Date: date, UniqueTasks: 6, NewTasks: 4, ReworkTasks: 1, TotalReviews: 3, SumTurns: 5, RatingWeight: 3, RatingSumWeighted: 15},
	}
}

func dashboardArgs() map[string]interface{} {
	today := metrics.DateOnly(time.Now())
	return map[string]interface{}{
		"project_id": float64(7),
		"timeframe":  "custom",
		"start_date": workforce.FormatDate(today.AddDate(0, 0, -7)),
		"end_date":   workforce.FormatDate(today.AddDate(0, 0, -1)),
	}
}

func TestHandleGetProjectDashboard(t *testing.T) {
	client := new(mockClient)
	s := newTestServer(client, false)

	client.On("FetchHierarchy", mock.Anything).Return(testHierarchy(), nil)
	client.On("FetchDailyRecords", mock.Anything, workforce.KindTrainer, 7, mock.Anything, mock.Anything).Return(trainerRecords(3), nil)
	client.On("FetchAHTConfig", mock.Anything, 7).Return(workforce.DefaultAHT, nil)
	logged := 2.0
	client.On("FetchLoggedHours", mock.Anything, "t-1", mock.Anything, mock.Anything).Return(&logged, nil)
	client.On("FetchLoggedHours", mock.Anything, "t-2", mock.Anything, mock.Anything).Return(nil, nil)

	data, err := s.handleGetProjectDashboard(context.Background(), dashboardArgs())
	assert.NoError(t, err)

	result := data.(map[string]interface{})
	report := result["report"].(*ReportNode)

	assert.Equal(t, metrics.NodeProject, report.Kind)
	assert.Equal(t, 18, report.Stats.UniqueTasks)
	assert.Equal(t, 14, report.Stats.NewTasks)

	// Project rating is the weighted mean across all leaf days, 51/11.
	if assert.NotNil(t, report.Stats.AvgRating) {
		assert.Equal(t, 4.64, *report.Stats.AvgRating)
	}

	if assert.Len(t, report.Children, 1) {
		pod := report.Children[0]
		assert.Equal(t, metrics.NodePodLead, pod.Kind)
		assert.Equal(t, "Barbara", pod.Name)
		assert.Len(t, pod.Children, 2)
	}

	// t-1: 10*10 + 5*4 = 120 accounted minutes = 2h against 2h logged.
	trainer := report.Children[0].Children[0]
	assert.Equal(t, "Ada", trainer.Name)
	if assert.NotNil(t, trainer.Efficiency.Efficiency) {
		assert.Equal(t, 100.0, *trainer.Efficiency.Efficiency)
		assert.Equal(t, metrics.TimeStatusOK, trainer.Efficiency.Status)
	}

	// t-2 has no logged hours anywhere.
	other := report.Children[0].Children[1]
	assert.Nil(t, other.Efficiency.Efficiency)
	assert.Equal(t, metrics.TimeStatusUnknown, other.Efficiency.Status)

	assert.Contains(t, report.Tiers, metrics.MetricEfficiency)
	client.AssertExpectations(t)
}

func TestHandleGetProjectDashboard_InvalidCustomRange(t *testing.T) {
	client := new(mockClient)
	s := newTestServer(client, false)

	args := dashboardArgs()
	args["start_date"], args["end_date"] = args["end_date"], args["start_date"]

	_, err := s.handleGetProjectDashboard(context.Background(), args)
	assert.ErrorContains(t, err, "invalid custom date range")
	client.AssertNotCalled(t, "FetchDailyRecords", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleGetProjectDashboard_MissingProject(t *testing.T) {
	client := new(mockClient)
	s := newTestServer(client, false)

	_, err := s.handleGetProjectDashboard(context.Background(), map[string]interface{}{})
	assert.ErrorContains(t, err, "project_id is required")
}

func TestHandleGetTrainerReport(t *testing.T) {
	client := new(mockClient)
	s := newTestServer(client, false)

	client.On("FetchHierarchy", mock.Anything).Return(testHierarchy(), nil)
	client.On("FetchDailyRecords", mock.Anything, workforce.KindTrainer, 7, mock.Anything, mock.Anything).Return(trainerRecords(3), nil)
	client.On("FetchAHTConfig", mock.Anything, 7).Return(workforce.DefaultAHT, nil)
	client.On("FetchLoggedHours", mock.Anything, "t-2", mock.Anything, mock.Anything).Return(nil, nil)

	args := dashboardArgs()
	args["trainer_id"] = "t-2"

	data, err := s.handleGetTrainerReport(context.Background(), args)
	assert.NoError(t, err)

	result := data.(map[string]interface{})
	assert.Equal(t, "lead-1", result["pod_lead"])

	report := result["report"].(*ReportNode)
	assert.Equal(t, "t-2", report.ID)
	assert.Equal(t, metrics.NodeTrainer, report.Kind)
	assert.Equal(t, 6, report.Stats.UniqueTasks)
	if assert.NotNil(t, report.Stats.AvgRating) {
		assert.Equal(t, 5.0, *report.Stats.AvgRating)
	}
	client.AssertExpectations(t)
}

func TestHandleGetReviewerRollup(t *testing.T) {
	client := new(mockClient)
	s := newTestServer(client, false)

	date := metrics.DateOnly(time.Now()).AddDate(0, 0, -2)
	reviewerRecords := []workforce.DailyRecord{
		{EntityID: "r-1", Date: date, UniqueTasks: 20, TotalReviews: 18},
	}

	client.On("FetchHierarchy", mock.Anything).Return(testHierarchy(), nil)
	client.On("FetchDailyRecords", mock.Anything, workforce.KindReviewer, 7, mock.Anything, mock.Anything).Return(reviewerRecords, nil)

	data, err := s.handleGetReviewerRollup(context.Background(), dashboardArgs())
	assert.NoError(t, err)

	result := data.(map[string]interface{})
	pods := result["pods"].([]*ReportNode)
	if assert.Len(t, pods, 1) {
		assert.Equal(t, "lead-1", pods[0].ID)
		assert.Nil(t, pods[0].Efficiency)
		if assert.NotNil(t, pods[0].Stats.ReviewCoverage) {
			assert.Equal(t, 90.0, *pods[0].Stats.ReviewCoverage)
		}
	}
	client.AssertExpectations(t)
}

func TestHandleGetTaskTrend_WithCharts(t *testing.T) {
	client := new(mockClient)
	s := newTestServer(client, true)

	client.On("FetchDailyRecords", mock.Anything, workforce.KindTrainer, 7, mock.Anything, mock.Anything).Return(trainerRecords(3), nil)

	args := dashboardArgs()
	args["bucket"] = "day"

	data, err := s.handleGetTaskTrend(context.Background(), args)
	assert.NoError(t, err)

	result := data.(map[string]interface{})
	trend := result["trend"].(metrics.TaskTrend)
	assert.Equal(t, "day", trend.Bucket)
	assert.NotEmpty(t, trend.Buckets)

	charts := result["charts"].(map[string]interface{})
	assert.Contains(t, charts["task_volume"], "xychart-beta")
	assert.Contains(t, charts["rework_rate"], "Rework Rate")
	client.AssertExpectations(t)
}

func TestHandleCheckTimeframe(t *testing.T) {
	client := new(mockClient)
	s := newTestServer(client, false)

	data, err := s.handleCheckTimeframe(map[string]interface{}{
		"timeframe": "weekly",
		"offset":    float64(-1),
	})
	assert.NoError(t, err)

	result := data.(map[string]interface{})
	assert.Equal(t, true, result["valid"])
	assert.Equal(t, true, result["can_go_to_next_week"])
	window := result["window"].(map[string]interface{})
	assert.NotNil(t, window["start"])
	assert.NotNil(t, window["end"])
}

func TestHandleCheckTimeframe_PositiveOffset(t *testing.T) {
	client := new(mockClient)
	s := newTestServer(client, false)

	data, err := s.handleCheckTimeframe(map[string]interface{}{
		"timeframe": "weekly",
		"offset":    float64(1),
	})
	assert.NoError(t, err)

	// The resolver does not reject future windows; navigation flags gate them.
	result := data.(map[string]interface{})
	assert.Equal(t, true, result["valid"])
	assert.Equal(t, false, result["can_go_to_next_week"])
	assert.Equal(t, false, result["can_go_to_next_month"])

	window := result["window"].(map[string]interface{})
	end, perr := workforce.ParseDate(window["end"].(string))
	assert.NoError(t, perr)
	assert.True(t, end.After(time.Now()), "offset +1 should resolve to a future window")
}

func TestHandleCheckTimeframe_InvalidCustom(t *testing.T) {
	client := new(mockClient)
	s := newTestServer(client, false)

	today := metrics.DateOnly(time.Now())
	data, err := s.handleCheckTimeframe(map[string]interface{}{
		"timeframe":  "custom",
		"start_date": workforce.FormatDate(today.AddDate(0, 0, 1)),
		"end_date":   workforce.FormatDate(today.AddDate(0, 0, 5)),
	})
	assert.NoError(t, err)

	result := data.(map[string]interface{})
	assert.Equal(t, false, result["valid"])
	assert.Contains(t, result["reason"], "invalid custom date range")
}

func TestHandleListHierarchy(t *testing.T) {
	client := new(mockClient)
	s := newTestServer(client, false)

	client.On("FetchHierarchy", mock.Anything).Return(testHierarchy(), nil)

	data, err := s.handleListHierarchy(context.Background())
	assert.NoError(t, err)

	result := data.(map[string]interface{})
	projects := result["projects"].([]interface{})
	if assert.Len(t, projects, 1) {
		project := projects[0].(map[string]interface{})
		assert.Equal(t, 7, project["id"])
		assert.Equal(t, "Dialogue QA", project["name"])
		pods := project["pod_leads"].([]interface{})
		assert.Len(t, pods, 1)
	}
	client.AssertExpectations(t)
}

func TestCallTool_UnknownTool(t *testing.T) {
	client := new(mockClient)
	s := newTestServer(client, false)

	params, _ := json.Marshal(map[string]interface{}{"name": "no_such_tool"})
	result, errRes := s.callTool(context.Background(), params)

	assert.Nil(t, result)
	errMap := errRes.(map[string]interface{})
	assert.Equal(t, -32601, errMap["code"])
}

func TestCallTool_WrapsContent(t *testing.T) {
	client := new(mockClient)
	s := newTestServer(client, false)

	client.On("FetchHierarchy", mock.Anything).Return(testHierarchy(), nil)

	params, _ := json.Marshal(map[string]interface{}{"name": "list_hierarchy"})
	result, errRes := s.callTool(context.Background(), params)

	assert.Nil(t, errRes)
	content := result.(map[string]interface{})["content"].([]interface{})
	if assert.Len(t, content, 1) {
		block := content[0].(map[string]interface{})
		assert.Equal(t, "text", block["type"])
		assert.Contains(t, block["text"], "Dialogue QA")
	}
}
