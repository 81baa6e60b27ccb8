package mcp

import (
	"context"
	"fmt"
	"sort"

	"labelops-mcp/internal/metrics"
	"labelops-mcp/internal/visuals"
	"labelops-mcp/internal/workforce"

	"github.com/rs/zerolog/log"
)

// ReportNode is one hierarchy level of a dashboard response: the node's
// aggregated stats plus their display classification and, on the trainer
// side, the time-tracking efficiency.
type ReportNode struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name,omitempty"`
	Kind       metrics.NodeKind        `json:"kind"`
	Stats      metrics.AggregatedStats `json:"stats"`
	Tiers      map[string]metrics.Tier `json:"tiers"`
	Efficiency *metrics.Efficiency     `json:"efficiency,omitempty"`
	Children   []*ReportNode           `json:"children,omitempty"`
}

func (s *Server) handleListHierarchy(ctx context.Context) (interface{}, error) {
	h, err := s.client.FetchHierarchy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hierarchy: %w", err)
	}

	podTrainers := make(map[string][]string)
	for trainer, pod := range h.TrainerPod {
		podTrainers[pod] = append(podTrainers[pod], trainer)
	}
	podReviewers := make(map[string][]string)
	for reviewer, pod := range h.ReviewerPod {
		podReviewers[pod] = append(podReviewers[pod], reviewer)
	}

	projectPods := make(map[int][]string)
	for pod, projectID := range h.PodProject {
		projectPods[projectID] = append(projectPods[projectID], pod)
	}

	projectIDs := make([]int, 0, len(projectPods))
	for id := range projectPods {
		projectIDs = append(projectIDs, id)
	}
	sort.Ints(projectIDs)

	member := func(id string) map[string]interface{} {
		m := map[string]interface{}{"id": id}
		if name, ok := h.Names[id]; ok {
			m["name"] = name
		}
		return m
	}

	var projects []interface{}
	for _, projectID := range projectIDs {
		pods := projectPods[projectID]
		sort.Strings(pods)

		var podEntries []interface{}
		for _, pod := range pods {
			trainers := podTrainers[pod]
			reviewers := podReviewers[pod]
			sort.Strings(trainers)
			sort.Strings(reviewers)

			var trainerEntries []interface{}
			for _, t := range trainers {
				trainerEntries = append(trainerEntries, member(t))
			}
			var reviewerEntries []interface{}
			for _, r := range reviewers {
				reviewerEntries = append(reviewerEntries, member(r))
			}

			entry := member(pod)
			entry["trainers"] = trainerEntries
			entry["reviewers"] = reviewerEntries
			podEntries = append(podEntries, entry)
		}

		project := map[string]interface{}{
			"id":        projectID,
			"pod_leads": podEntries,
		}
		if name, ok := h.Projects[projectID]; ok {
			project["name"] = name
		}
		projects = append(projects, project)
	}

	return map[string]interface{}{"projects": projects}, nil
}

func (s *Server) handleGetProjectDashboard(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	projectID := asInt(args["project_id"])
	if projectID == 0 {
		return nil, fmt.Errorf("project_id is required")
	}

	win, tf, offset, err := resolveWindowArgs(args)
	if err != nil {
		return nil, err
	}
	sortField, sortDesc, err := sortArgs(args)
	if err != nil {
		return nil, err
	}

	h, err := s.client.FetchHierarchy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hierarchy: %w", err)
	}

	if err := s.provider.Hydrate(ctx, workforce.KindTrainer, projectID, win.Start, win.End); err != nil {
		return nil, fmt.Errorf("failed to load daily stats: %w", err)
	}
	records := s.provider.Records(workforce.KindTrainer, projectID, win.Start, win.End)

	tree := metrics.BuildTrainerTree(projectID, h, records)
	sortTree(tree, sortField, sortDesc)

	aht, err := s.client.FetchAHTConfig(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch AHT config: %w", err)
	}
	hours := s.fetchLoggedHours(ctx, tree.LeafEntities, win)

	thresholds := metrics.DefaultThresholds()
	report := buildReportNode(tree, hours, aht, thresholds, true)

	return map[string]interface{}{
		"project_id":           projectID,
		"timeframe":            tf,
		"window":               windowJSON(win),
		"can_go_to_next_week":  metrics.CanGoToNextWeek(offset),
		"can_go_to_next_month": metrics.CanGoToNextMonth(offset),
		"report":               report,
	}, nil
}

func (s *Server) handleGetTrainerReport(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	projectID := asInt(args["project_id"])
	trainerID := asString(args["trainer_id"])
	if projectID == 0 || trainerID == "" {
		return nil, fmt.Errorf("project_id and trainer_id are required")
	}

	win, tf, _, err := resolveWindowArgs(args)
	if err != nil {
		return nil, err
	}

	h, err := s.client.FetchHierarchy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hierarchy: %w", err)
	}

	if err := s.provider.Hydrate(ctx, workforce.KindTrainer, projectID, win.Start, win.End); err != nil {
		return nil, fmt.Errorf("failed to load daily stats: %w", err)
	}

	var own []workforce.DailyRecord
	for _, r := range s.provider.Records(workforce.KindTrainer, projectID, win.Start, win.End) {
		if r.EntityID == trainerID {
			own = append(own, r)
		}
	}

	aht, err := s.client.FetchAHTConfig(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch AHT config: %w", err)
	}
	hours := s.fetchLoggedHours(ctx, []string{trainerID}, win)

	node := &metrics.Node{
		ID:           trainerID,
		Name:         h.Names[trainerID],
		Kind:         metrics.NodeTrainer,
		Stats:        metrics.Aggregate(own),
		LeafEntities: []string{trainerID},
	}
	report := buildReportNode(node, hours, aht, metrics.DefaultThresholds(), true)

	result := map[string]interface{}{
		"project_id": projectID,
		"timeframe":  tf,
		"window":     windowJSON(win),
		"report":     report,
	}
	if pod, ok := h.TrainerPod[trainerID]; ok {
		result["pod_lead"] = pod
	}
	return result, nil
}

func (s *Server) handleGetReviewerRollup(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	projectID := asInt(args["project_id"])
	if projectID == 0 {
		return nil, fmt.Errorf("project_id is required")
	}

	win, tf, _, err := resolveWindowArgs(args)
	if err != nil {
		return nil, err
	}

	h, err := s.client.FetchHierarchy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hierarchy: %w", err)
	}

	if err := s.provider.Hydrate(ctx, workforce.KindReviewer, projectID, win.Start, win.End); err != nil {
		return nil, fmt.Errorf("failed to load daily stats: %w", err)
	}
	records := s.provider.Records(workforce.KindReviewer, projectID, win.Start, win.End)

	thresholds := metrics.DefaultThresholds()
	var pods []*ReportNode
	for _, node := range metrics.BuildReviewerRollup(h, records) {
		pods = append(pods, buildReportNode(node, nil, workforce.AHTConfig{}, thresholds, false))
	}

	return map[string]interface{}{
		"project_id": projectID,
		"timeframe":  tf,
		"window":     windowJSON(win),
		"pods":       pods,
	}, nil
}

func (s *Server) handleGetTaskTrend(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	projectID := asInt(args["project_id"])
	if projectID == 0 {
		return nil, fmt.Errorf("project_id is required")
	}

	win, tf, _, err := resolveWindowArgs(args)
	if err != nil {
		return nil, err
	}

	kind := workforce.KindTrainer
	if asString(args["entity_kind"]) == string(workforce.KindReviewer) {
		kind = workforce.KindReviewer
	}

	if err := s.provider.Hydrate(ctx, kind, projectID, win.Start, win.End); err != nil {
		return nil, fmt.Errorf("failed to load daily stats: %w", err)
	}
	records := s.provider.Records(kind, projectID, win.Start, win.End)

	trend := metrics.CalculateTaskTrend(records, win, asString(args["bucket"]))

	result := map[string]interface{}{
		"project_id":  projectID,
		"entity_kind": kind,
		"timeframe":   tf,
		"window":      windowJSON(win),
		"trend":       trend,
	}
	if s.cfg.EnableMermaidCharts {
		result["charts"] = map[string]interface{}{
			"task_volume": visuals.GenerateTrendChart(trend),
			"rework_rate": visuals.GenerateReworkRateChart(trend),
		}
	}
	return result, nil
}

func (s *Server) handleCheckTimeframe(args map[string]interface{}) (interface{}, error) {
	tf := metrics.Timeframe(asString(args["timeframe"]))
	if tf == "" {
		tf = metrics.TimeframeOverall
	}
	offset := asInt(args["offset"])

	win, _, _, err := resolveWindowArgs(args)
	if err != nil {
		return map[string]interface{}{
			"timeframe": tf,
			"offset":    offset,
			"valid":     false,
			"reason":    err.Error(),
		}, nil
	}

	return map[string]interface{}{
		"timeframe":            tf,
		"offset":               offset,
		"valid":                true,
		"window":               windowJSON(win),
		"unbounded":            win.Unbounded(),
		"can_go_to_next_week":  metrics.CanGoToNextWeek(offset),
		"can_go_to_next_month": metrics.CanGoToNextMonth(offset),
	}, nil
}

// buildReportNode classifies a stats node and, when withEfficiency is set,
// attaches the efficiency derived from the node's leaf entities.
func buildReportNode(n *metrics.Node, hours map[string]*float64, aht workforce.AHTConfig, thresholds map[string]metrics.ThresholdConfig, withEfficiency bool) *ReportNode {
	out := &ReportNode{
		ID:    n.ID,
		Name:  n.Name,
		Kind:  n.Kind,
		Stats: n.Stats,
		Tiers: metrics.ClassifyStats(n.Stats, thresholds),
	}

	if withEfficiency {
		logged := metrics.SumLoggedHours(n.LeafEntities, hours)
		eff := metrics.ComputeEfficiency(n.Stats.NewTasks, n.Stats.ReworkTasks, logged, aht)
		out.Efficiency = &eff
		out.Tiers[metrics.MetricEfficiency] = metrics.Classify(metrics.MetricEfficiency, eff.Efficiency, thresholds[metrics.MetricEfficiency])
	}

	for _, child := range n.Children {
		out.Children = append(out.Children, buildReportNode(child, hours, aht, thresholds, withEfficiency))
	}
	return out
}

func sortTree(n *metrics.Node, field metrics.SortField, desc bool) {
	metrics.SortNodes(n.Children, field, desc)
	for _, child := range n.Children {
		sortTree(child, field, desc)
	}
}

func (s *Server) fetchLoggedHours(ctx context.Context, entityIDs []string, win metrics.Window) map[string]*float64 {
	hours := make(map[string]*float64, len(entityIDs))
	for _, id := range entityIDs {
		h, err := s.client.FetchLoggedHours(ctx, id, win.Start, win.End)
		if err != nil {
			log.Warn().Err(err).Str("entity", id).Msg("Failed to fetch logged hours")
			continue
		}
		hours[id] = h
	}
	return hours
}
