package metrics

import "labelops-mcp/internal/workforce"

// TimeStatus is the fixed flagging of an efficiency value. The 50/70
// boundaries are compatibility constants, not configuration.
type TimeStatus string

const (
	TimeStatusOK      TimeStatus = "ok"
	TimeStatusWarning TimeStatus = "warning"
	TimeStatusFlagged TimeStatus = "flagged"
	// TimeStatusUnknown means no efficiency could be computed (no logged hours).
	TimeStatusUnknown TimeStatus = "unknown"
)

const (
	efficiencyFlaggedBelow = 50.0
	efficiencyWarningBelow = 70.0
)

// Efficiency relates task-derived accounted time to externally logged time.
type Efficiency struct {
	// AccountedHours is the time the task output implies, in hours.
	AccountedHours float64 `json:"accounted_hours"`
	// LoggedHours is the externally tracked clock time, in hours; nil when
	// the time-tracking feed has no data for the entity and window.
	LoggedHours *float64 `json:"logged_hours"`
	// Efficiency is accounted/logged as a whole percentage; nil when logged
	// hours are absent or zero.
	Efficiency *float64   `json:"efficiency"`
	Status     TimeStatus `json:"status"`
}

// ComputeEfficiency derives accounted hours from task counts and the
// per-project AHT configuration, then relates them to logged hours.
//
// AHT values are minutes per task; accounted time is held in hours. The
// minutes-to-hours conversion happens here and only here, at the single
// point where task-derived time meets the hour-denominated tracking feed.
func ComputeEfficiency(newTasks, reworkTasks int, loggedHours *float64, aht workforce.AHTConfig) Efficiency {
	accountedMinutes := float64(newTasks)*aht.New + float64(reworkTasks)*aht.Rework

	eff := Efficiency{
		AccountedHours: Round2(accountedMinutes / 60.0),
		LoggedHours:    loggedHours,
		Status:         TimeStatusUnknown,
	}

	if loggedHours == nil || *loggedHours == 0 {
		return eff
	}

	// Flagging uses the raw ratio; rounding is display-only, so a true
	// 49.6% stays flagged even though it renders as 50.
	ratio := accountedMinutes / 60.0 / *loggedHours * 100
	eff.Efficiency = ptr(roundPercent(ratio))

	switch {
	case ratio < efficiencyFlaggedBelow:
		eff.Status = TimeStatusFlagged
	case ratio < efficiencyWarningBelow:
		eff.Status = TimeStatusWarning
	default:
		eff.Status = TimeStatusOK
	}

	return eff
}

// SumLoggedHours combines per-entity logged hours for a parent node. The
// result is nil only when no child has any data; children without data
// contribute zero to a defined sum.
func SumLoggedHours(entityIDs []string, hours map[string]*float64) *float64 {
	var total float64
	found := false
	for _, id := range entityIDs {
		if h, ok := hours[id]; ok && h != nil {
			total += *h
			found = true
		}
	}
	if !found {
		return nil
	}
	return ptr(Round2(total))
}
