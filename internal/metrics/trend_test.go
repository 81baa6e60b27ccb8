package metrics

import (
	"testing"
	"time"

	"labelops-mcp/internal/workforce"
)

func TestCalculateTaskTrend_DayBuckets(t *testing.T) {
	records := []workforce.DailyRecord{
		rec("t-1", 10, 5, 4, 1, 3, 9),
		rec("t-2", 10, 3, 3, 0, 2, 6),
		rec("t-1", 12, 4, 2, 2, 1, 5),
	}

	start := day(10)
	end := day(12)
	trend := CalculateTaskTrend(records, Window{Start: &start, End: &end}, "day")

	if len(trend.Buckets) != 3 {
		t.Fatalf("Expected 3 day buckets, got %d", len(trend.Buckets))
	}

	// Day 10 pools both trainers.
	if trend.Buckets[0].UniqueTasks != 8 || trend.Buckets[0].NewTasks != 7 {
		t.Errorf("Day 10 bucket wrong: %+v", trend.Buckets[0])
	}
	// Day 11 is an axis gap with zero volume and no rework percent.
	if trend.Buckets[1].UniqueTasks != 0 || trend.Buckets[1].ReworkPercent != nil {
		t.Errorf("Gap day should be zero/nil: %+v", trend.Buckets[1])
	}
	// Day 12: rework% = 2/(2+2)*100 = 50.
	if trend.Buckets[2].ReworkPercent == nil || *trend.Buckets[2].ReworkPercent != 50 {
		t.Errorf("Day 12 rework percent wrong: %+v", trend.Buckets[2])
	}

	// Median of [8, 0, 4] = 4.
	if trend.MedianUniqueTasks != 4 {
		t.Errorf("Expected median 4, got %v", trend.MedianUniqueTasks)
	}

	if trend.Buckets[0].Label != "2026-08-10" {
		t.Errorf("Day label wrong: %s", trend.Buckets[0].Label)
	}
}

func TestCalculateTaskTrend_WeekBuckets(t *testing.T) {
	records := []workforce.DailyRecord{
		rec("t-1", 10, 5, 4, 1, 3, 9), // Monday Aug 10
		rec("t-1", 13, 2, 2, 0, 1, 4), // Thursday Aug 13, same ISO week
		rec("t-1", 17, 6, 5, 1, 2, 11), // Monday Aug 17, next week
	}

	start := day(10)
	end := day(17)
	trend := CalculateTaskTrend(records, Window{Start: &start, End: &end}, "week")

	if len(trend.Buckets) != 2 {
		t.Fatalf("Expected 2 week buckets, got %d", len(trend.Buckets))
	}
	if trend.Buckets[0].UniqueTasks != 7 || trend.Buckets[1].UniqueTasks != 6 {
		t.Errorf("Week pooling wrong: %+v", trend.Buckets)
	}
	if trend.Buckets[0].Label != "2026-W33" {
		t.Errorf("Week label wrong: %s", trend.Buckets[0].Label)
	}
}

func TestCalculateTaskTrend_UnboundedWindow(t *testing.T) {
	records := []workforce.DailyRecord{
		rec("t-1", 3, 1, 1, 0, 0, 2),
		rec("t-1", 5, 2, 2, 0, 0, 4),
	}

	// All-time trends snap to the record extremes instead of an infinite axis.
	trend := CalculateTaskTrend(records, Window{}, "day")

	if len(trend.Buckets) != 3 {
		t.Fatalf("Expected 3 buckets spanning the records, got %d", len(trend.Buckets))
	}
	if !trend.Buckets[0].Start.Equal(time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Axis should start at the earliest record: %v", trend.Buckets[0].Start)
	}
}

func TestCalculateTaskTrend_Empty(t *testing.T) {
	trend := CalculateTaskTrend(nil, Window{}, "day")
	if len(trend.Buckets) != 0 || trend.MedianUniqueTasks != 0 {
		t.Errorf("Empty input should yield an empty trend: %+v", trend)
	}
}

func TestMedianInt(t *testing.T) {
	tests := []struct {
		name     string
		values   []int
		expected float64
	}{
		{"Empty", []int{}, 0},
		{"Single", []int{5}, 5},
		{"Odd", []int{1, 3, 2}, 2},
		{"Even", []int{1, 2, 3, 4}, 2.5},
		{"Unsorted", []int{10, 2, 8}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MedianInt(tt.values); got != tt.expected {
				t.Errorf("MedianInt() = %v, want %v", got, tt.expected)
			}
		})
	}
}
