package mcp

import (
	"encoding/json"
	"fmt"
	"time"

	"labelops-mcp/internal/metrics"
	"labelops-mcp/internal/workforce"
)

func asString(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func asInt(v interface{}) int {
	if v == nil {
		return 0
	}
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		var res int
		fmt.Sscanf(val, "%d", &res)
		return res
	default:
		return 0
	}
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

// resolveWindowArgs turns the shared timeframe arguments into a concrete
// window. A custom range with both bounds present must be ordered and must
// not reach into the future; malformed dates are rejected outright.
func resolveWindowArgs(args map[string]interface{}) (metrics.Window, metrics.Timeframe, int, error) {
	tf := metrics.Timeframe(asString(args["timeframe"]))
	if tf == "" {
		tf = metrics.TimeframeOverall
	}
	offset := asInt(args["offset"])

	var custom metrics.CustomRange
	if raw := asString(args["start_date"]); raw != "" {
		t, err := workforce.ParseDate(raw)
		if err != nil {
			return metrics.Window{}, tf, offset, fmt.Errorf("invalid start_date %q: expected YYYY-MM-DD", raw)
		}
		custom.Start = &t
	}
	if raw := asString(args["end_date"]); raw != "" {
		t, err := workforce.ParseDate(raw)
		if err != nil {
			return metrics.Window{}, tf, offset, fmt.Errorf("invalid end_date %q: expected YYYY-MM-DD", raw)
		}
		custom.End = &t
	}

	today := metrics.DateOnly(time.Now())
	if tf == metrics.TimeframeCustom && custom.Start != nil && custom.End != nil {
		if !metrics.IsValidDateRange(*custom.Start, *custom.End, today) {
			return metrics.Window{}, tf, offset, fmt.Errorf("invalid custom date range: %s to %s (start must not be after end, end must not be in the future)",
				workforce.FormatDate(*custom.Start), workforce.FormatDate(*custom.End))
		}
	}

	return metrics.ResolveWindow(tf, offset, custom, today), tf, offset, nil
}

func sortArgs(args map[string]interface{}) (metrics.SortField, bool, error) {
	raw := asString(args["sort_by"])
	if raw == "" {
		return metrics.SortByName, asBool(args["sort_desc"]), nil
	}
	field, ok := metrics.ParseSortField(raw)
	if !ok {
		return "", false, fmt.Errorf("unknown sort field: %s", raw)
	}
	return field, asBool(args["sort_desc"]), nil
}

// windowJSON renders a window as plain date strings; open sides stay null.
func windowJSON(w metrics.Window) map[string]interface{} {
	out := map[string]interface{}{"start": nil, "end": nil}
	if w.Start != nil {
		out["start"] = workforce.FormatDate(*w.Start)
	}
	if w.End != nil {
		out["end"] = workforce.FormatDate(*w.End)
	}
	return out
}

func (s *Server) formatResult(data interface{}) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}
