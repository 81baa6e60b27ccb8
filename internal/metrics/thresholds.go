package metrics

// Tier is the categorical display classification of a metric value.
type Tier string

const (
	TierGreen   Tier = "green"
	TierYellow  Tier = "yellow"
	TierRed     Tier = "red"
	TierNeutral Tier = "neutral"
)

// ThresholdConfig is the generic classification config for one metric.
// Inverse marks lower-is-better metrics.
type ThresholdConfig struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Inverse bool    `json:"inverse"`
	Enabled bool    `json:"enabled"`
}

// Metric names recognized by the classifier. These match the JSON field
// names of AggregatedStats and Efficiency.
const (
	MetricAvgRating      = "avg_rating"
	MetricReworkPercent  = "rework_percent"
	MetricAvgRework      = "avg_rework"
	MetricReviewCoverage = "review_coverage"
	MetricEfficiency     = "efficiency"
)

// DefaultThresholds returns the enabled baseline configuration. The four
// fixed-table metrics ignore the min/max values but still honor Enabled.
func DefaultThresholds() map[string]ThresholdConfig {
	return map[string]ThresholdConfig{
		MetricAvgRating:      {Min: 1, Max: 5, Enabled: true},
		MetricReworkPercent:  {Min: 0, Max: 100, Inverse: true, Enabled: true},
		MetricAvgRework:      {Min: 0, Max: 5, Inverse: true, Enabled: true},
		MetricReviewCoverage: {Min: 0, Max: 100, Enabled: true},
		MetricEfficiency:     {Min: 40, Max: 100, Enabled: true},
	}
}

// Classify maps a metric value to a display tier.
//
// A nil value or a disabled config is neutral. Metrics with a fixed business
// table (rating, rework percent, rework depth, review coverage) use that
// table in preference to the generic min/max/inverse normalization; any
// other metric name takes the generic path. Total for all inputs.
func Classify(metric string, value *float64, cfg ThresholdConfig) Tier {
	if value == nil || !cfg.Enabled {
		return TierNeutral
	}
	v := *value

	switch metric {
	case MetricAvgRating:
		switch {
		case v >= 4.8:
			return TierGreen
		case v >= 4.0:
			return TierYellow
		default:
			return TierRed
		}
	case MetricReworkPercent:
		// Lower is better.
		switch {
		case v <= 10:
			return TierGreen
		case v <= 30:
			return TierYellow
		default:
			return TierRed
		}
	case MetricAvgRework:
		switch {
		case v <= 1:
			return TierGreen
		case v <= 2.5:
			return TierYellow
		default:
			return TierRed
		}
	case MetricReviewCoverage:
		switch {
		case v >= 90:
			return TierGreen
		case v >= 70:
			return TierYellow
		default:
			return TierRed
		}
	}

	return classifyNormalized(v, cfg)
}

func classifyNormalized(v float64, cfg ThresholdConfig) Tier {
	if cfg.Max <= cfg.Min {
		return TierNeutral
	}

	n := (v - cfg.Min) / (cfg.Max - cfg.Min)
	if n < 0 {
		n = 0
	} else if n > 1 {
		n = 1
	}
	if cfg.Inverse {
		n = 1 - n
	}

	switch {
	case n < 1.0/3.0:
		return TierRed
	case n < 2.0/3.0:
		return TierYellow
	default:
		return TierGreen
	}
}

// ClassifyStats assigns a tier to every classifiable field of a stats record.
func ClassifyStats(s AggregatedStats, cfgs map[string]ThresholdConfig) map[string]Tier {
	return map[string]Tier{
		MetricAvgRating:      Classify(MetricAvgRating, s.AvgRating, cfgs[MetricAvgRating]),
		MetricReworkPercent:  Classify(MetricReworkPercent, s.ReworkPercent, cfgs[MetricReworkPercent]),
		MetricAvgRework:      Classify(MetricAvgRework, s.AvgRework, cfgs[MetricAvgRework]),
		MetricReviewCoverage: Classify(MetricReviewCoverage, s.ReviewCoverage, cfgs[MetricReviewCoverage]),
	}
}
