package metrics

import (
	"math"

	"labelops-mcp/internal/workforce"
)

// AggregatedStats is the derived statistics record for one entity (or one
// hierarchy subtree) over one window. Ratio fields are pointers: nil means
// "undefined" (empty window, zero denominator) and serializes as JSON null
// so the presentation side can render an em-dash instead of a fake zero.
type AggregatedStats struct {
	UniqueTasks  int `json:"unique_tasks"`
	NewTasks     int `json:"new_tasks"`
	ReworkTasks  int `json:"rework_tasks"`
	TotalReviews int `json:"total_reviews"`
	SumTurns     int `json:"sum_number_of_turns"`

	// AvgRework is the average rework depth: turns per new task minus one.
	// Negative values are possible with malformed upstream turn counts and
	// are passed through untouched rather than clamped.
	AvgRework *float64 `json:"avg_rework"`
	// ReworkPercent is rework / (rework + new), as a whole percentage.
	ReworkPercent *float64 `json:"rework_percent"`
	// AvgRating is the review-count-weighted mean rating.
	AvgRating *float64 `json:"avg_rating"`
	// ReviewCoverage is reviews per unique task, as a whole percentage.
	ReviewCoverage *float64 `json:"review_coverage"`
}

// accumulator carries full-precision running sums during aggregation.
// Nothing is rounded until finalize.
type accumulator struct {
	uniqueTasks  int
	newTasks     int
	reworkTasks  int
	totalReviews int
	sumTurns     int

	ratingWeight float64
	ratingSum    float64
}

func (a *accumulator) add(r workforce.DailyRecord) {
	a.uniqueTasks += r.UniqueTasks
	a.newTasks += r.NewTasks
	a.reworkTasks += r.ReworkTasks
	a.totalReviews += r.TotalReviews
	a.sumTurns += r.SumTurns

	// Unrated days carry zero weight and contribute nothing here.
	if r.RatingWeight > 0 {
		a.ratingWeight += r.RatingWeight
		a.ratingSum += r.RatingSumWeighted
	}
}

func (a *accumulator) merge(b accumulator) {
	a.uniqueTasks += b.uniqueTasks
	a.newTasks += b.newTasks
	a.reworkTasks += b.reworkTasks
	a.totalReviews += b.totalReviews
	a.sumTurns += b.sumTurns
	a.ratingWeight += b.ratingWeight
	a.ratingSum += b.ratingSum
}

// finalize performs each division exactly once, over the fully accumulated
// sums, and only then rounds. Deriving ratios per day and averaging them
// afterwards would weight unequal days equally and drift under rollups.
func (a accumulator) finalize() AggregatedStats {
	s := AggregatedStats{
		UniqueTasks:  a.uniqueTasks,
		NewTasks:     a.newTasks,
		ReworkTasks:  a.reworkTasks,
		TotalReviews: a.totalReviews,
		SumTurns:     a.sumTurns,
	}

	if a.newTasks > 0 {
		s.AvgRework = ptr(Round2(float64(a.sumTurns)/float64(a.newTasks) - 1))
	}
	if a.reworkTasks+a.newTasks > 0 {
		s.ReworkPercent = ptr(roundPercent(float64(a.reworkTasks) / float64(a.reworkTasks+a.newTasks) * 100))
	}
	if a.ratingWeight > 0 {
		s.AvgRating = ptr(Round2(a.ratingSum / a.ratingWeight))
	}
	if a.uniqueTasks > 0 {
		s.ReviewCoverage = ptr(roundPercent(float64(a.totalReviews) / float64(a.uniqueTasks) * 100))
	}

	return s
}

// Aggregate reduces a sequence of daily records belonging to one entity into
// a single statistics record. Empty input yields zero sums and nil ratios.
func Aggregate(records []workforce.DailyRecord) AggregatedStats {
	var acc accumulator
	for _, r := range records {
		acc.add(r)
	}
	return acc.finalize()
}

// Round2 rounds to two decimal places (ratings, rework depth, hours).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// roundPercent rounds a percentage to a whole number.
func roundPercent(v float64) float64 {
	return math.Round(v)
}

func ptr(v float64) *float64 {
	return &v
}
