package workforce

import (
	"testing"
)

func fptr(v float64) *float64 { return &v }

func TestMapDailyRecord(t *testing.T) {
	dto := DailyRecordDTO{
		EntityID:     "t-100",
		Date:         "2026-03-02",
		UniqueTasks:  12,
		NewTasks:     10,
		ReworkTasks:  2,
		TotalReviews: 8,
		SumTurns:     25,
		Rating:       fptr(4.5),
		LoggedHours:  fptr(7.5),
	}

	rec, err := MapDailyRecord(dto)
	if err != nil {
		t.Fatalf("MapDailyRecord failed: %v", err)
	}

	if rec.Date.Year() != 2026 || rec.Date.Month() != 3 || rec.Date.Day() != 2 {
		t.Errorf("Date parsed wrong: %v", rec.Date)
	}
	// Weight defaults to the review count when the platform omits it.
	if rec.RatingWeight != 8 {
		t.Errorf("Expected rating weight 8, got %v", rec.RatingWeight)
	}
	if rec.RatingSumWeighted != 36 {
		t.Errorf("Expected weighted rating sum 36, got %v", rec.RatingSumWeighted)
	}
	if rec.LoggedHours == nil || *rec.LoggedHours != 7.5 {
		t.Errorf("LoggedHours not carried through: %v", rec.LoggedHours)
	}
}

func TestMapDailyRecord_NoRating(t *testing.T) {
	tests := []struct {
		name string
		dto  DailyRecordDTO
	}{
		{"NilRating", DailyRecordDTO{EntityID: "t-1", Date: "2026-01-05", TotalReviews: 4}},
		{"ZeroWeight", DailyRecordDTO{EntityID: "t-1", Date: "2026-01-05", Rating: fptr(5.0), RatingWeight: fptr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := MapDailyRecord(tt.dto)
			if err != nil {
				t.Fatalf("MapDailyRecord failed: %v", err)
			}
			// Unrated days must contribute nothing to either accumulator,
			// never count as rating 0.
			if rec.RatingWeight != 0 || rec.RatingSumWeighted != 0 {
				t.Errorf("Expected zero rating contribution, got weight=%v sum=%v", rec.RatingWeight, rec.RatingSumWeighted)
			}
		})
	}
}

func TestMapDailyRecord_BadDate(t *testing.T) {
	_, err := MapDailyRecord(DailyRecordDTO{EntityID: "t-1", Date: "02/03/2026"})
	if err == nil {
		t.Fatal("Expected error for malformed date")
	}
}

func TestMapHierarchy(t *testing.T) {
	resp := HierarchyResponse{
		Projects: []ProjectDTO{
			{
				ID:   3,
				Name: "Dialogue QA",
				PodLeads: []PodLeadDTO{
					{
						ID:        "pl-1",
						Name:      "Pod One",
						Trainers:  []MemberDTO{{ID: "t-1", Name: "Trainer One"}, {ID: "t-2", Name: "Trainer Two"}},
						Reviewers: []MemberDTO{{ID: "r-1", Name: "Reviewer One"}},
					},
				},
			},
		},
	}

	h := MapHierarchy(resp)

	if h.TrainerPod["t-1"] != "pl-1" || h.TrainerPod["t-2"] != "pl-1" {
		t.Errorf("Trainer mapping wrong: %v", h.TrainerPod)
	}
	if h.ReviewerPod["r-1"] != "pl-1" {
		t.Errorf("Reviewer mapping wrong: %v", h.ReviewerPod)
	}
	if h.PodProject["pl-1"] != 3 {
		t.Errorf("Pod mapping wrong: %v", h.PodProject)
	}
	if h.Projects[3] != "Dialogue QA" || h.Names["t-2"] != "Trainer Two" {
		t.Errorf("Names not captured: %v / %v", h.Projects, h.Names)
	}
}

func TestMapAHTConfig_Defaults(t *testing.T) {
	cfg := MapAHTConfig(AHTConfigResponse{ProjectID: 3})
	if cfg.New != 10.0 || cfg.Rework != 4.0 {
		t.Errorf("Expected defaults 10/4, got %v/%v", cfg.New, cfg.Rework)
	}

	cfg = MapAHTConfig(AHTConfigResponse{ProjectID: 3, New: fptr(12.0), Rework: fptr(0)})
	if cfg.New != 12.0 || cfg.Rework != 4.0 {
		t.Errorf("Expected 12/4, got %v/%v", cfg.New, cfg.Rework)
	}
}
