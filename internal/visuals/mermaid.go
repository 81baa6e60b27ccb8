package visuals

import (
	"fmt"
	"math"
	"strings"

	"labelops-mcp/internal/metrics"
)

// GenerateTrendChart creates a Mermaid xychart-beta for task volume per
// bucket: bars for new tasks with a rework-task line on top.
func GenerateTrendChart(trend metrics.TaskTrend) string {
	if len(trend.Buckets) == 0 {
		return ""
	}

	var labels []string
	var newTasks []string
	var reworkTasks []string

	maxVal := 0
	for _, b := range trend.Buckets {
		labels = append(labels, fmt.Sprintf("%q", b.Label))
		newTasks = append(newTasks, fmt.Sprintf("%d", b.NewTasks))
		reworkTasks = append(reworkTasks, fmt.Sprintf("%d", b.ReworkTasks))
		if b.NewTasks > maxVal {
			maxVal = b.NewTasks
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Task Volume\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Tasks\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(newTasks, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(reworkTasks, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateReworkRateChart creates a Mermaid line chart of the per-bucket
// rework percentage with the 10% and 30% tier boundaries drawn as flat lines.
func GenerateReworkRateChart(trend metrics.TaskTrend) string {
	if len(trend.Buckets) == 0 {
		return ""
	}

	var labels []string
	var rates []string
	var greens []string
	var yellows []string

	maxY := 40.0
	for _, b := range trend.Buckets {
		labels = append(labels, fmt.Sprintf("%q", b.Label))
		rate := 0.0
		if b.ReworkPercent != nil {
			rate = *b.ReworkPercent
		}
		if rate > maxY {
			maxY = rate * 1.1
		}
		rates = append(rates, fmt.Sprintf("%.0f", rate))
		greens = append(greens, "10")
		yellows = append(yellows, "30")
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Rework Rate\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Rework %%\" 0 --> %d\n", int(math.Ceil(maxY))))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(rates, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(greens, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(yellows, ", ")))
	sb.WriteString("```")
	return sb.String()
}
