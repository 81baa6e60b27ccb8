package metrics

import (
	"fmt"
	"time"

	"labelops-mcp/internal/workforce"
)

// TrendBucket is one time bucket of task volume within a window.
type TrendBucket struct {
	Label        string    `json:"label"`
	Start        time.Time `json:"start"`
	UniqueTasks  int       `json:"unique_tasks"`
	NewTasks     int       `json:"new_tasks"`
	ReworkTasks  int       `json:"rework_tasks"`
	TotalReviews int       `json:"total_reviews"`
	// ReworkPercent is derived from this bucket's own counts; nil when the
	// bucket saw no tasks.
	ReworkPercent *float64 `json:"rework_percent"`
}

// TaskTrend is the bucketed volume series for a window.
type TaskTrend struct {
	Bucket  string        `json:"bucket"`
	Buckets []TrendBucket `json:"buckets"`
	// MedianUniqueTasks is the median per-bucket unique task volume.
	MedianUniqueTasks float64 `json:"median_unique_tasks"`
}

// CalculateTaskTrend buckets daily records by day, week, or month across the
// window. An unbounded window side snaps to the earliest or latest record
// date, so all-time trends stay finite.
func CalculateTaskTrend(records []workforce.DailyRecord, window Window, bucket string) TaskTrend {
	if bucket != "week" && bucket != "month" {
		bucket = "day"
	}
	trend := TaskTrend{Bucket: bucket}

	if len(records) == 0 {
		return trend
	}

	start, end := trendBounds(records, window)
	start = snapToBucketStart(start, bucket)

	// Lay out the bucket axis first so gaps show as zero bars.
	var starts []time.Time
	for cur := start; !cur.After(end); cur = nextBucket(cur, bucket) {
		starts = append(starts, cur)
	}

	buckets := make([]TrendBucket, len(starts))
	for i, s := range starts {
		buckets[i] = TrendBucket{Label: bucketLabel(s, bucket), Start: s}
	}

	for _, r := range records {
		if !window.Contains(r.Date) {
			continue
		}
		idx := bucketIndex(start, r.Date, bucket)
		if idx < 0 || idx >= len(buckets) {
			continue
		}
		buckets[idx].UniqueTasks += r.UniqueTasks
		buckets[idx].NewTasks += r.NewTasks
		buckets[idx].ReworkTasks += r.ReworkTasks
		buckets[idx].TotalReviews += r.TotalReviews
	}

	volumes := make([]int, len(buckets))
	for i := range buckets {
		if total := buckets[i].ReworkTasks + buckets[i].NewTasks; total > 0 {
			buckets[i].ReworkPercent = ptr(roundPercent(float64(buckets[i].ReworkTasks) / float64(total) * 100))
		}
		volumes[i] = buckets[i].UniqueTasks
	}

	trend.Buckets = buckets
	trend.MedianUniqueTasks = MedianInt(volumes)
	return trend
}

// trendBounds resolves the effective date span, falling back to the record
// extremes for unbounded sides.
func trendBounds(records []workforce.DailyRecord, window Window) (time.Time, time.Time) {
	minDate := DateOnly(records[0].Date)
	maxDate := minDate
	for _, r := range records[1:] {
		d := DateOnly(r.Date)
		if d.Before(minDate) {
			minDate = d
		}
		if d.After(maxDate) {
			maxDate = d
		}
	}

	start, end := minDate, maxDate
	if window.Start != nil {
		start = DateOnly(*window.Start)
	}
	if window.End != nil {
		end = DateOnly(*window.End)
	}
	return start, end
}

// snapToBucketStart normalizes a date to the beginning of its bucket
// (Monday for weeks, the 1st for months).
func snapToBucketStart(t time.Time, bucket string) time.Time {
	switch bucket {
	case "month":
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case "week":
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday
		}
		return time.Date(t.Year(), t.Month(), t.Day()-(weekday-1), 0, 0, 0, 0, t.Location())
	default:
		return DateOnly(t)
	}
}

func nextBucket(t time.Time, bucket string) time.Time {
	switch bucket {
	case "month":
		return t.AddDate(0, 1, 0)
	case "week":
		return t.AddDate(0, 0, 7)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func bucketIndex(axisStart, t time.Time, bucket string) int {
	d := snapToBucketStart(DateOnly(t), bucket)
	switch bucket {
	case "month":
		return (d.Year()-axisStart.Year())*12 + int(d.Month()-axisStart.Month())
	case "week":
		// Integer hours avoid float drift across DST boundaries.
		return int(d.Sub(axisStart).Hours() / (24 * 7))
	default:
		return int(d.Sub(axisStart).Hours() / 24)
	}
}

func bucketLabel(t time.Time, bucket string) string {
	switch bucket {
	case "month":
		return t.Format("Jan 2006")
	case "week":
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	default:
		return t.Format("2006-01-02")
	}
}
