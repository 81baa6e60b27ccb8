package mcp

var timeframeProperties = map[string]interface{}{
	"timeframe": map[string]interface{}{
		"type":        "string",
		"enum":        []string{"daily", "d-1", "d-2", "d-3", "weekly", "monthly", "custom", "overall"},
		"description": "Reporting window selector. Default: overall (all cached history).",
	},
	"offset": map[string]interface{}{
		"type":        "integer",
		"description": "Whole-period shift for weekly/monthly windows. 0 = current period, -1 = previous. Positive offsets resolve to a future window with no data; forward navigation is gated by the can_go_to_next_week/month flags.",
	},
	"start_date": map[string]interface{}{
		"type":        "string",
		"description": "Custom window start (YYYY-MM-DD). Only used with timeframe=custom; omit to leave the side open.",
	},
	"end_date": map[string]interface{}{
		"type":        "string",
		"description": "Custom window end (YYYY-MM-DD). Only used with timeframe=custom; omit to leave the side open.",
	},
}

func withTimeframe(props map[string]interface{}) map[string]interface{} {
	merged := map[string]interface{}{}
	for k, v := range props {
		merged[k] = v
	}
	for k, v := range timeframeProperties {
		merged[k] = v
	}
	return merged
}

func (s *Server) listTools() interface{} {
	return map[string]interface{}{
		"tools": []interface{}{
			map[string]interface{}{
				"name":        "list_hierarchy",
				"description": "List the workforce organization: projects, POD leads with their trainers, and reviewer assignments. Call this first to discover project IDs and entity IDs for the reporting tools.",
				"inputSchema": map[string]interface{}{
					"type":       "object",
					"properties": map[string]interface{}{},
				},
			},
			map[string]interface{}{
				"name":        "get_project_dashboard",
				"description": "Full project report for a timeframe: the Project > POD Lead > Trainer tree with aggregated task stats, threshold tiers (green/yellow/red), and time-tracking efficiency at every level. Undefined metrics are null, never zero.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": withTimeframe(map[string]interface{}{
						"project_id": map[string]interface{}{"type": "integer", "description": "Project ID (see list_hierarchy)"},
						"sort_by": map[string]interface{}{
							"type":        "string",
							"enum":        []string{"name", "unique_tasks", "new_tasks", "rework_tasks", "total_reviews", "avg_rating", "rework_percent", "avg_rework"},
							"description": "Field to order sibling rows by. Default: name.",
						},
						"sort_desc": map[string]interface{}{"type": "boolean", "description": "Sort descending. Rows without data always sink to the bottom."},
					}),
					"required": []string{"project_id"},
				},
			},
			map[string]interface{}{
				"name":        "get_trainer_report",
				"description": "Single-trainer report for a timeframe: aggregated stats, tiers, and efficiency for one trainer within a project.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": withTimeframe(map[string]interface{}{
						"project_id": map[string]interface{}{"type": "integer", "description": "Project ID"},
						"trainer_id": map[string]interface{}{"type": "string", "description": "Trainer entity ID"},
					}),
					"required": []string{"project_id", "trainer_id"},
				},
			},
			map[string]interface{}{
				"name":        "get_reviewer_rollup",
				"description": "Review-side report for a timeframe: reviewer stats rolled up per POD lead, with threshold tiers. Reviewers map to POD leads independently of the trainer tree.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": withTimeframe(map[string]interface{}{
						"project_id": map[string]interface{}{"type": "integer", "description": "Project ID"},
					}),
					"required": []string{"project_id"},
				},
			},
			map[string]interface{}{
				"name":        "get_task_trend",
				"description": "Bucketed task volume over a timeframe (per day, week, or month): unique/new/rework task counts, per-bucket rework rate, and the median bucket volume. Includes Mermaid charts when chart rendering is enabled.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": withTimeframe(map[string]interface{}{
						"project_id": map[string]interface{}{"type": "integer", "description": "Project ID"},
						"bucket": map[string]interface{}{
							"type":        "string",
							"enum":        []string{"day", "week", "month"},
							"description": "Bucket granularity. Default: day.",
						},
						"entity_kind": map[string]interface{}{
							"type":        "string",
							"enum":        []string{"trainer", "reviewer"},
							"description": "Which side of the workforce to trend. Default: trainer.",
						},
					}),
					"required": []string{"project_id"},
				},
			},
			map[string]interface{}{
				"name":        "check_timeframe",
				"description": "Resolve a timeframe selector without fetching data: reports the concrete date window, whether forward navigation (next week/month) is possible, and validates custom date ranges.",
				"inputSchema": map[string]interface{}{
					"type":       "object",
					"properties": withTimeframe(map[string]interface{}{}),
				},
			},
		},
	}
}
