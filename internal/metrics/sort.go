package metrics

import (
	"slices"
	"strings"
)

// SortField enumerates the orderings a report caller may request. Typed
// accessors replace the string-keyed field lookups of ad-hoc table sorting:
// an invalid field cannot reach the comparison loop.
type SortField string

const (
	SortByName          SortField = "name"
	SortByUniqueTasks   SortField = "unique_tasks"
	SortByNewTasks      SortField = "new_tasks"
	SortByReworkTasks   SortField = "rework_tasks"
	SortByTotalReviews  SortField = "total_reviews"
	SortByAvgRating     SortField = "avg_rating"
	SortByReworkPercent SortField = "rework_percent"
	SortByAvgRework     SortField = "avg_rework"
)

var sortAccessors = map[SortField]func(*Node) *float64{
	SortByUniqueTasks:   func(n *Node) *float64 { return ptr(float64(n.Stats.UniqueTasks)) },
	SortByNewTasks:      func(n *Node) *float64 { return ptr(float64(n.Stats.NewTasks)) },
	SortByReworkTasks:   func(n *Node) *float64 { return ptr(float64(n.Stats.ReworkTasks)) },
	SortByTotalReviews:  func(n *Node) *float64 { return ptr(float64(n.Stats.TotalReviews)) },
	SortByAvgRating:     func(n *Node) *float64 { return n.Stats.AvgRating },
	SortByReworkPercent: func(n *Node) *float64 { return n.Stats.ReworkPercent },
	SortByAvgRework:     func(n *Node) *float64 { return n.Stats.AvgRework },
}

// ParseSortField validates a caller-provided sort key.
func ParseSortField(s string) (SortField, bool) {
	f := SortField(s)
	if f == SortByName {
		return f, true
	}
	_, ok := sortAccessors[f]
	return f, ok
}

// SortNodes orders sibling nodes by the given field. Undefined values sort
// after defined ones regardless of direction, so rows without data sink to
// the bottom of the table either way.
func SortNodes(nodes []*Node, field SortField, desc bool) {
	access, ok := sortAccessors[field]
	if !ok {
		slices.SortStableFunc(nodes, func(a, b *Node) int {
			c := strings.Compare(a.Name, b.Name)
			if desc {
				c = -c
			}
			return c
		})
		return
	}

	slices.SortStableFunc(nodes, func(a, b *Node) int {
		av, bv := access(a), access(b)
		switch {
		case av == nil && bv == nil:
			return strings.Compare(a.Name, b.Name)
		case av == nil:
			return 1
		case bv == nil:
			return -1
		case *av == *bv:
			return strings.Compare(a.Name, b.Name)
		case *av < *bv:
			if desc {
				return 1
			}
			return -1
		default:
			if desc {
				return -1
			}
			return 1
		}
	})
}
