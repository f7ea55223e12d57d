package baseline

import (
	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/rollup"
)

type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeUpdated ChangeKind = "changed"
)

// Figures are the headline rollup numbers compared between two sources.
type Figures struct {
	Name       string  `json:"name"`
	Completion int     `json:"completion"`
	Plan       float64 `json:"plan"`
	Actual     float64 `json:"actual"`
	EndDate    string  `json:"endDate,omitempty"`
}

type NodeDelta struct {
	Kind   ChangeKind   `json:"kind"`
	Level  domain.Level `json:"level"`
	ID     string       `json:"id"`
	Before *Figures     `json:"before,omitempty"`
	After  *Figures     `json:"after,omitempty"`
}

// Comparison lists every node that differs between two sources, in the
// depth-first order of the target, followed by removed nodes in source order.
type Comparison struct {
	ProjectID string      `json:"projectId"`
	Deltas    []NodeDelta `json:"deltas"`
}

// Count returns the number of deltas of the given kind.
func (c *Comparison) Count(kind ChangeKind) int {
	n := 0
	for _, d := range c.Deltas {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

type nodeKey struct {
	level domain.Level
	id    string
}

// Diff compares the project hierarchy as seen by from and to. The project must
// resolve in at least one of them.
func Diff(from, to Source, projectID string) (*Comparison, error) {
	before, okBefore := figuresOf(from, projectID)
	after, okAfter := figuresOf(to, projectID)
	if !okBefore && !okAfter {
		return nil, &domain.NotFoundError{Entity: "project", ID: projectID}
	}

	out := &Comparison{ProjectID: projectID}
	for _, k := range after.order {
		a := after.figures[k]
		b, existed := before.figures[k]
		switch {
		case !existed:
			out.Deltas = append(out.Deltas, NodeDelta{Kind: ChangeAdded, Level: k.level, ID: k.id, After: &a})
		case b != a:
			out.Deltas = append(out.Deltas, NodeDelta{Kind: ChangeUpdated, Level: k.level, ID: k.id, Before: &b, After: &a})
		}
	}
	for _, k := range before.order {
		if _, still := after.figures[k]; still {
			continue
		}
		b := before.figures[k]
		out.Deltas = append(out.Deltas, NodeDelta{Kind: ChangeRemoved, Level: k.level, ID: k.id, Before: &b})
	}
	return out, nil
}

type figureIndex struct {
	order   []nodeKey
	figures map[nodeKey]Figures
}

func figuresOf(src Source, projectID string) (figureIndex, bool) {
	idx := figureIndex{figures: make(map[nodeKey]Figures)}
	if src == nil {
		return idx, false
	}
	sub, ok := src.Subtree(projectID)
	if !ok {
		return idx, false
	}
	for _, n := range rollup.NewTree(sub).Walk(projectID) {
		k := nodeKey{level: n.Level, id: n.ID}
		if _, seen := idx.figures[k]; seen {
			continue
		}
		idx.order = append(idx.order, k)
		idx.figures[k] = Figures{
			Name:       n.Name,
			Completion: n.Completion,
			Plan:       n.Budget.Plan,
			Actual:     n.Budget.Actual,
			EndDate:    n.Timeline.EndDate,
		}
	}
	return idx, true
}
