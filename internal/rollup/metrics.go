package rollup

import (
	"github.com/alexanderramin/wbsline/internal/domain"
)

type Timeline struct {
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	ActualStartDate string `json:"actualStartDate"`
	ActualEndDate   string `json:"actualEndDate"`
}

type BudgetVariance struct {
	Plan            float64 `json:"plan"`
	Actual          float64 `json:"actual"`
	Additional      float64 `json:"additional"`
	TotalBudget     float64 `json:"totalBudget"`
	Variance        float64 `json:"variance"`
	VariancePercent int     `json:"variancePercent"`
	IsOverBudget    bool    `json:"isOverBudget"`
}

type ResourceUtilization struct {
	PlanManDays     float64 `json:"planManDays"`
	ActualManDays   float64 `json:"actualManDays"`
	DaysUtilization int     `json:"daysUtilization"`
}

// OwnOrRollup is the fallback policy shared by budget and resource figures:
// a node's own figures win whenever any of them is non-zero; only a node
// with no own figures is given the aggregate of its children.
func OwnOrRollup[T interface{ IsZero() bool }](own T, rollup func() T) T {
	if !own.IsZero() {
		return own
	}
	return rollup()
}

// Completion returns the 0-100 progress of a node. Childless work packages and
// deliverables report their own status; every other node with children
// reports the rounded mean of its children's completion, and 0 without.
// Unknown ids yield 0.
func (t *Tree) Completion(level domain.Level, id string) int {
	v, ok := t.view(level, id)
	if !ok {
		return 0
	}
	return t.completion(level, v)
}

func (t *Tree) completion(level domain.Level, v nodeView) int {
	d := descriptors[level]
	kids := t.childViews(level, v.id)
	if len(kids) == 0 {
		if d.ownStatus {
			return domain.ClampStatus(v.status)
		}
		return 0
	}
	sum := 0
	for _, k := range kids {
		sum += t.completion(d.child, k)
	}
	return domain.ClampStatus(domain.RoundHalfUp(float64(sum) / float64(len(kids))))
}

// Timeline returns the date span of a node. A childless node reports its own
// dates; otherwise starts are the earliest and ends the latest among the
// children. The actual end is reported only once every child is complete.
func (t *Tree) Timeline(level domain.Level, id string) Timeline {
	v, ok := t.view(level, id)
	if !ok {
		return Timeline{}
	}
	return t.timeline(level, v)
}

func (t *Tree) timeline(level domain.Level, v nodeView) Timeline {
	d := descriptors[level]
	kids := t.childViews(level, v.id)
	if len(kids) == 0 {
		return Timeline{
			StartDate:       v.dates.StartDate,
			EndDate:         v.dates.EndDate,
			ActualStartDate: v.dates.ActualStartDate,
			ActualEndDate:   v.dates.ActualEndDate,
		}
	}

	var out Timeline
	allComplete := true
	for _, k := range kids {
		ct := t.timeline(d.child, k)
		out.StartDate = earliest(out.StartDate, ct.StartDate)
		out.ActualStartDate = earliest(out.ActualStartDate, ct.ActualStartDate)
		out.EndDate = latest(out.EndDate, ct.EndDate)
		out.ActualEndDate = latest(out.ActualEndDate, ct.ActualEndDate)
		if t.completion(d.child, k) < 100 {
			allComplete = false
		}
	}
	if !allComplete {
		out.ActualEndDate = ""
	}
	return out
}

// BudgetVariance returns plan, actual and variance figures for a node using
// the OwnOrRollup policy. Unknown ids yield the zero value.
func (t *Tree) BudgetVariance(level domain.Level, id string) BudgetVariance {
	v, ok := t.view(level, id)
	if !ok {
		return BudgetVariance{}
	}
	return newBudgetVariance(t.budget(level, v))
}

func (t *Tree) budget(level domain.Level, v nodeView) domain.Budget {
	return OwnOrRollup(v.budget, func() domain.Budget {
		var sum domain.Budget
		for _, k := range t.childViews(level, v.id) {
			sum = sum.Add(t.budget(descriptors[level].child, k))
		}
		return sum
	})
}

func newBudgetVariance(b domain.Budget) BudgetVariance {
	total := b.Plan + b.Additional
	variance := b.Actual - total
	out := BudgetVariance{
		Plan:         b.Plan,
		Actual:       b.Actual,
		Additional:   b.Additional,
		TotalBudget:  total,
		Variance:     variance,
		IsOverBudget: variance > 0,
	}
	if total != 0 {
		out.VariancePercent = domain.RoundHalfUp(variance / total * 100)
	}
	return out
}

// ResourceUtilization returns man-day figures for a node using the
// OwnOrRollup policy. Unknown ids yield the zero value.
func (t *Tree) ResourceUtilization(level domain.Level, id string) ResourceUtilization {
	v, ok := t.view(level, id)
	if !ok {
		return ResourceUtilization{}
	}
	return newResourceUtilization(t.resources(level, v))
}

func newResourceUtilization(r domain.Resources) ResourceUtilization {
	out := ResourceUtilization{PlanManDays: r.PlanManDays, ActualManDays: r.ActualManDays}
	if r.PlanManDays != 0 {
		out.DaysUtilization = domain.RoundHalfUp(r.ActualManDays / r.PlanManDays * 100)
	}
	return out
}

func (t *Tree) resources(level domain.Level, v nodeView) domain.Resources {
	return OwnOrRollup(v.resources, func() domain.Resources {
		var sum domain.Resources
		for _, k := range t.childViews(level, v.id) {
			sum = sum.Add(t.resources(descriptors[level].child, k))
		}
		return sum
	})
}

func (t *Tree) childViews(level domain.Level, id string) []nodeView {
	d := descriptors[level]
	if !d.hasChild {
		return nil
	}
	childLookup := descriptors[d.child].lookup
	var out []nodeView
	for _, cid := range t.children[level][id] {
		if cv, ok := childLookup(t, cid); ok {
			out = append(out, cv)
		}
	}
	return out
}
