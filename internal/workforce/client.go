package workforce

import (
	"context"
	"time"
)

// EntityKind distinguishes the two leaf dimensions of the workforce hierarchy.
type EntityKind string

const (
	KindTrainer  EntityKind = "trainer"
	KindReviewer EntityKind = "reviewer"
)

// DailyRecord is one entity's raw counters for one calendar date.
// Records are produced by the workforce platform and are read-only input;
// nothing downstream mutates them.
type DailyRecord struct {
	EntityID     string    `json:"entity_id"`
	Date         time.Time `json:"date"`
	UniqueTasks  int       `json:"unique_tasks"`
	NewTasks     int       `json:"new_tasks"`
	ReworkTasks  int       `json:"rework_tasks"`
	TotalReviews int       `json:"total_reviews"`
	// SumTurns is the total conversation turns across the day's unique tasks,
	// used downstream to derive rework depth.
	SumTurns int `json:"sum_number_of_turns"`

	// RatingWeight is the review count carrying the day's rating and
	// RatingSumWeighted is rating x weight. Keeping the weighted sum instead
	// of the raw rating lets aggregation re-weight correctly across days.
	// A day without a rating carries zero in both fields.
	RatingWeight      float64 `json:"rating_weight"`
	RatingSumWeighted float64 `json:"rating_sum_weighted"`

	// LoggedHours comes from the external time-tracking feed and may be absent.
	LoggedHours *float64 `json:"logged_hours,omitempty"`
}

// Hierarchy is the flat ownership mapping of the four-level organization:
// Project owns POD Leads, POD Leads own Trainers; Reviewers attach to POD
// Leads on the orthogonal review dimension.
type Hierarchy struct {
	TrainerPod  map[string]string `json:"trainer_pod"`
	ReviewerPod map[string]string `json:"reviewer_pod"`
	PodProject  map[string]int    `json:"pod_project"`
	Names       map[string]string `json:"names,omitempty"`
	Projects    map[int]string    `json:"projects,omitempty"`
}

// AHTConfig holds the per-project Average Handling Time in minutes per task.
type AHTConfig struct {
	New    float64 `json:"new"`
	Rework float64 `json:"rework"`
}

// DefaultAHT is used when the platform has no per-project configuration.
var DefaultAHT = AHTConfig{New: 10.0, Rework: 4.0}

// Client is the interface to the workforce platform's reporting API.
// Date bounds are inclusive; a nil bound means unbounded on that side.
type Client interface {
	FetchDailyRecords(ctx context.Context, kind EntityKind, projectID int, start, end *time.Time) ([]DailyRecord, error)
	FetchHierarchy(ctx context.Context) (*Hierarchy, error)
	FetchLoggedHours(ctx context.Context, entityID string, start, end *time.Time) (*float64, error)
	FetchAHTConfig(ctx context.Context, projectID int) (AHTConfig, error)
}

// Config holds the connection settings for the workforce platform.
type Config struct {
	BaseURL  string
	APIToken string

	// RequestDelay paces consecutive requests against shared API quotas.
	RequestDelay time.Duration
}

// NewClient creates a workforce client for the provided configuration.
func NewClient(cfg Config) Client {
	return newRESTClient(cfg)
}
