package workforce

import "time"

// DailyStatsResponse is the top-level container for the daily-stats endpoint.
type DailyStatsResponse struct {
	Total   int              `json:"total"`
	Records []DailyRecordDTO `json:"records"`
}

// DailyRecordDTO is one row of the daily-stats endpoint. Rating and logged
// hours are pointers because the platform omits them for days without
// reviews or without a time-tracking match.
type DailyRecordDTO struct {
	EntityID     string   `json:"entityId"`
	Date         string   `json:"date"`
	UniqueTasks  int      `json:"uniqueTasks"`
	NewTasks     int      `json:"newTasks"`
	ReworkTasks  int      `json:"reworkTasks"`
	TotalReviews int      `json:"totalReviews"`
	SumTurns     int      `json:"sumNumberOfTurns"`
	Rating       *float64 `json:"rating,omitempty"`
	RatingWeight *float64 `json:"ratingWeight,omitempty"`
	LoggedHours  *float64 `json:"loggedHours,omitempty"`
}

// HierarchyResponse mirrors the platform's org-mapping endpoint.
type HierarchyResponse struct {
	Projects []ProjectDTO `json:"projects"`
}

// ProjectDTO is a project with its owned POD Leads.
type ProjectDTO struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	PodLeads []PodLeadDTO `json:"podLeads"`
}

// PodLeadDTO is a supervisor with the trainers and reviewers attached to them.
type PodLeadDTO struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Trainers  []MemberDTO `json:"trainers"`
	Reviewers []MemberDTO `json:"reviewers"`
}

// MemberDTO is a single trainer or reviewer.
type MemberDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LoggedHoursResponse is the time-tracking feed's total for one entity.
type LoggedHoursResponse struct {
	EntityID string   `json:"entityId"`
	Hours    *float64 `json:"hours"`
}

// AHTConfigResponse is the per-project handling-time configuration.
// Values are minutes per task.
type AHTConfigResponse struct {
	ProjectID int      `json:"projectId"`
	New       *float64 `json:"new"`
	Rework    *float64 `json:"rework"`
}

// ParseDate is a helper for the platform's calendar-date format.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// FormatDate renders a time as the platform's calendar-date format.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
