package engine

import (
	"fmt"
	"math/rand"
	"time"

	"labelops-mcp/internal/snapshot"
	"labelops-mcp/internal/workforce"
)

type GeneratorConfig struct {
	Scenario string // "steady", "ramp" or "churn"
	Trainers int
	Days     int
	Now      time.Time
}

// Generate produces synthetic per-trainer daily records plus a matching
// reviewer stream, covering Days calendar days ending at Now.
//
//   - steady: flat volume, low rework, ratings around 4.5.
//   - ramp:   volume grows over the window while ratings slip.
//   - churn:  heavy rework tail and occasional unrated days.
func Generate(cfg GeneratorConfig) (trainers, reviewers []workforce.DailyRecord, hierarchy *workforce.Hierarchy) {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	today := time.Date(cfg.Now.Year(), cfg.Now.Month(), cfg.Now.Day(), 0, 0, 0, 0, time.UTC)

	hierarchy = &workforce.Hierarchy{
		TrainerPod:  map[string]string{},
		ReviewerPod: map[string]string{},
		PodProject:  map[string]int{},
		Names:       map[string]string{},
		Projects:    map[int]string{1: "LABOPS Test Project"},
	}

	podCount := cfg.Trainers/4 + 1
	for p := 0; p < podCount; p++ {
		pod := fmt.Sprintf("LABOPS-LEAD-%d", p+1)
		hierarchy.PodProject[pod] = 1
		hierarchy.Names[pod] = fmt.Sprintf("Lead %d", p+1)

		reviewer := fmt.Sprintf("LABOPS-REV-%d", p+1)
		hierarchy.ReviewerPod[reviewer] = pod
		hierarchy.Names[reviewer] = fmt.Sprintf("Reviewer %d", p+1)
	}

	for t := 0; t < cfg.Trainers; t++ {
		trainer := fmt.Sprintf("LABOPS-TR-%d", t+1)
		pod := fmt.Sprintf("LABOPS-LEAD-%d", t%podCount+1)
		hierarchy.TrainerPod[trainer] = pod
		hierarchy.Names[trainer] = fmt.Sprintf("Trainer %d", t+1)

		for d := cfg.Days - 1; d >= 0; d-- {
			date := today.AddDate(0, 0, -d)
			progress := 1.0 - float64(d)/float64(cfg.Days)

			baseNew := 8 + rand.Intn(5)
			reworkRate := 0.10
			rating := 4.3 + rand.Float64()*0.5
			switch cfg.Scenario {
			case "ramp":
				baseNew = int(float64(baseNew) * (0.5 + progress))
				rating -= progress * 0.8
			case "churn":
				reworkRate = 0.25 + rand.Float64()*0.25
			}

			newTasks := baseNew
			reworkTasks := int(float64(newTasks) * reworkRate)
			unique := newTasks + rand.Intn(3)
			reviews := newTasks - rand.Intn(3)
			if reviews < 0 {
				reviews = 0
			}

			rec := workforce.DailyRecord{
				EntityID:     trainer,
				Date:         date,
				UniqueTasks:  unique,
				NewTasks:     newTasks,
				ReworkTasks:  reworkTasks,
				TotalReviews: reviews,
				SumTurns:     newTasks + reworkTasks + rand.Intn(newTasks+1),
			}
			if !(cfg.Scenario == "churn" && rand.Float64() < 0.2) && reviews > 0 {
				rec.RatingWeight = float64(reviews)
				rec.RatingSumWeighted = rating * float64(reviews)
			}
			logged := float64(newTasks)*10/60 + rand.Float64()*2
			rec.LoggedHours = &logged

			trainers = append(trainers, rec)
		}
	}

	// Review-side stream: each reviewer covers most of its pod's output.
	for p := 0; p < podCount; p++ {
		reviewer := fmt.Sprintf("LABOPS-REV-%d", p+1)
		for d := cfg.Days - 1; d >= 0; d-- {
			date := today.AddDate(0, 0, -d)
			unique := 15 + rand.Intn(10)
			reviewers = append(reviewers, workforce.DailyRecord{
				EntityID:     reviewer,
				Date:         date,
				UniqueTasks:  unique,
				TotalReviews: unique - rand.Intn(5),
			})
		}
	}

	return trainers, reviewers, hierarchy
}

// Save writes the generated streams into the on-disk record cache using the
// same layout the MCP server hydrates from.
func Save(outDir string, projectID int, trainers, reviewers []workforce.DailyRecord) error {
	store := snapshot.NewRecordStore()
	store.Append(snapshot.SourceKey(workforce.KindTrainer, projectID), trainers)
	store.Append(snapshot.SourceKey(workforce.KindReviewer, projectID), reviewers)

	if err := store.Save(outDir, snapshot.SourceKey(workforce.KindTrainer, projectID)); err != nil {
		return err
	}
	return store.Save(outDir, snapshot.SourceKey(workforce.KindReviewer, projectID))
}
