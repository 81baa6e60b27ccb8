package workforce

// MapDailyRecord transforms a platform DTO into a domain DailyRecord.
//
// The rating arrives as an already-averaged value plus the review count it
// was averaged over. We store it back as a weighted sum so that any later
// aggregation can re-weight correctly instead of averaging averages. A row
// with no rating, or a rating carried by zero reviews, contributes nothing
// to either rating accumulator.
func MapDailyRecord(dto DailyRecordDTO) (DailyRecord, error) {
	date, err := ParseDate(dto.Date)
	if err != nil {
		return DailyRecord{}, err
	}

	rec := DailyRecord{
		EntityID:     dto.EntityID,
		Date:         date,
		UniqueTasks:  dto.UniqueTasks,
		NewTasks:     dto.NewTasks,
		ReworkTasks:  dto.ReworkTasks,
		TotalReviews: dto.TotalReviews,
		SumTurns:     dto.SumTurns,
		LoggedHours:  dto.LoggedHours,
	}

	if dto.Rating != nil {
		weight := float64(dto.TotalReviews)
		if dto.RatingWeight != nil {
			weight = *dto.RatingWeight
		}
		if weight > 0 {
			rec.RatingWeight = weight
			rec.RatingSumWeighted = *dto.Rating * weight
		}
	}

	return rec, nil
}

// MapHierarchy flattens the nested org response into the ownership maps the
// rollup engine consumes.
func MapHierarchy(resp HierarchyResponse) *Hierarchy {
	h := &Hierarchy{
		TrainerPod:  make(map[string]string),
		ReviewerPod: make(map[string]string),
		PodProject:  make(map[string]int),
		Names:       make(map[string]string),
		Projects:    make(map[int]string),
	}

	for _, p := range resp.Projects {
		h.Projects[p.ID] = p.Name
		for _, pod := range p.PodLeads {
			h.PodProject[pod.ID] = p.ID
			h.Names[pod.ID] = pod.Name
			for _, t := range pod.Trainers {
				h.TrainerPod[t.ID] = pod.ID
				h.Names[t.ID] = t.Name
			}
			for _, r := range pod.Reviewers {
				h.ReviewerPod[r.ID] = pod.ID
				h.Names[r.ID] = r.Name
			}
		}
	}

	return h
}

// MapAHTConfig applies the platform response over the built-in defaults.
func MapAHTConfig(resp AHTConfigResponse) AHTConfig {
	cfg := DefaultAHT
	if resp.New != nil && *resp.New > 0 {
		cfg.New = *resp.New
	}
	if resp.Rework != nil && *resp.Rework > 0 {
		cfg.Rework = *resp.Rework
	}
	return cfg
}
