package metrics

import (
	"slices"
	"strconv"
	"strings"

	"labelops-mcp/internal/workforce"
)

// NodeKind identifies a level of the organizational hierarchy.
type NodeKind string

const (
	NodeProject  NodeKind = "project"
	NodePodLead  NodeKind = "pod_lead"
	NodeTrainer  NodeKind = "trainer"
	NodeReviewer NodeKind = "reviewer"
)

// UnassignedPod groups trainers that appear in the daily stats but are
// missing from the ownership mapping, so their output stays visible.
const UnassignedPod = "unassigned"

// Node is one hierarchy level with its independently computed stats.
// A node's stats always come from the full set of leaf daily records under
// it (via merged full-precision accumulators), never from re-aggregating the
// children's already-rounded stats.
type Node struct {
	ID       string          `json:"id"`
	Name     string          `json:"name,omitempty"`
	Kind     NodeKind        `json:"kind"`
	Stats    AggregatedStats `json:"stats"`
	Children []*Node         `json:"children,omitempty"`

	// LeafEntities are the leaf entity IDs under this node. External
	// per-entity feeds (logged hours) attach through these at any level.
	LeafEntities []string `json:"-"`
}

// Rollup computes parent-level stats from groups of leaf daily records, one
// group per child. The groups' accumulators are merged before the final
// division, which is mathematically identical to flattening every record
// into one Aggregate call. Averaging the children's own ratio values would
// be wrong whenever children carry unequal weight, which is the common case.
func Rollup(groups ...[]workforce.DailyRecord) AggregatedStats {
	var total accumulator
	for _, g := range groups {
		var child accumulator
		for _, r := range g {
			child.add(r)
		}
		total.merge(child)
	}
	return total.finalize()
}

// BuildTrainerTree assembles the Project -> POD Lead -> Trainer tree for one
// project from per-trainer daily records. Trainers without an ownership
// mapping land under a synthetic "unassigned" pod.
func BuildTrainerTree(projectID int, h *workforce.Hierarchy, records []workforce.DailyRecord) *Node {
	grouped := groupByEntity(records)

	pods := make(map[string]*nodeBuilder)
	var podIDs []string

	for entityID, recs := range grouped {
		podID, ok := h.TrainerPod[entityID]
		if !ok {
			podID = UnassignedPod
		} else if pid, mapped := h.PodProject[podID]; mapped && pid != projectID {
			// Record belongs to another project's pod; not ours to report.
			continue
		}

		pod, exists := pods[podID]
		if !exists {
			pod = newNodeBuilder(podID, h.Names[podID], NodePodLead)
			if podID == UnassignedPod {
				pod.node.Name = "Unassigned"
			}
			pods[podID] = pod
			podIDs = append(podIDs, podID)
		}

		var acc accumulator
		for _, r := range recs {
			acc.add(r)
		}
		pod.addChild(entityID, h.Names[entityID], NodeTrainer, acc)
	}

	project := newNodeBuilder(strconv.Itoa(projectID), h.Projects[projectID], NodeProject)
	slices.Sort(podIDs)
	for _, podID := range podIDs {
		project.attach(pods[podID])
	}

	return project.finish()
}

// BuildReviewerRollup assembles the review-side POD Lead -> Reviewer rollup.
// It returns one pod-level node per POD Lead that has reviewer activity.
func BuildReviewerRollup(h *workforce.Hierarchy, records []workforce.DailyRecord) []*Node {
	grouped := groupByEntity(records)

	pods := make(map[string]*nodeBuilder)
	var podIDs []string

	for entityID, recs := range grouped {
		podID, ok := h.ReviewerPod[entityID]
		if !ok {
			podID = UnassignedPod
		}

		pod, exists := pods[podID]
		if !exists {
			pod = newNodeBuilder(podID, h.Names[podID], NodePodLead)
			if podID == UnassignedPod {
				pod.node.Name = "Unassigned"
			}
			pods[podID] = pod
			podIDs = append(podIDs, podID)
		}

		var acc accumulator
		for _, r := range recs {
			acc.add(r)
		}
		pod.addChild(entityID, h.Names[entityID], NodeReviewer, acc)
	}

	slices.Sort(podIDs)
	nodes := make([]*Node, 0, len(podIDs))
	for _, podID := range podIDs {
		nodes = append(nodes, pods[podID].finish())
	}
	return nodes
}

func groupByEntity(records []workforce.DailyRecord) map[string][]workforce.DailyRecord {
	grouped := make(map[string][]workforce.DailyRecord)
	for _, r := range records {
		grouped[r.EntityID] = append(grouped[r.EntityID], r)
	}
	return grouped
}

// nodeBuilder pairs an in-progress node with its full-precision accumulator
// so that every parent finalizes from merged sums, not from child stats.
type nodeBuilder struct {
	node *Node
	acc  accumulator
}

func newNodeBuilder(id, name string, kind NodeKind) *nodeBuilder {
	return &nodeBuilder{node: &Node{ID: id, Name: name, Kind: kind}}
}

func (b *nodeBuilder) addChild(id, name string, kind NodeKind, acc accumulator) {
	child := &Node{
		ID:           id,
		Name:         name,
		Kind:         kind,
		Stats:        acc.finalize(),
		LeafEntities: []string{id},
	}
	b.node.Children = append(b.node.Children, child)
	b.node.LeafEntities = append(b.node.LeafEntities, id)
	b.acc.merge(acc)
}

func (b *nodeBuilder) attach(child *nodeBuilder) {
	b.node.Children = append(b.node.Children, child.finish())
	b.node.LeafEntities = append(b.node.LeafEntities, child.node.LeafEntities...)
	b.acc.merge(child.acc)
}

func (b *nodeBuilder) finish() *Node {
	b.node.Stats = b.acc.finalize()
	sortByName(b.node.Children)
	return b.node
}

func sortByName(nodes []*Node) {
	slices.SortFunc(nodes, func(a, b *Node) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
