package domain

import (
	"time"
)

type Project struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Owner          string          `json:"owner"`
	BusinessUnit   string          `json:"businessUnit"`
	Status         ProjectStatus   `json:"status"`
	Budget         Budget          `json:"budget"`
	Vendor         Vendor          `json:"vendor"`
	Resources      Resources       `json:"resources"`
	Baseline       int             `json:"baseline"`
	PendingChanges *ChangeProposal `json:"pendingChanges,omitempty"`
	KPIs           []KPI           `json:"kpis,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ChangeProposal is a pending request to move a project to a new baseline.
// Patch holds the draft edits applied to the project when the proposal is approved.
type ChangeProposal struct {
	Summary     string       `json:"summary"`
	RequestedBy string       `json:"requestedBy,omitempty"`
	RequestedAt time.Time    `json:"requestedAt"`
	Patch       ProjectPatch `json:"patch"`
}

// ProjectPatch lists optional field overrides; nil fields are left untouched.
type ProjectPatch struct {
	Name         *string        `json:"name,omitempty"`
	Owner        *string        `json:"owner,omitempty"`
	BusinessUnit *string        `json:"businessUnit,omitempty"`
	Status       *ProjectStatus `json:"status,omitempty"`
	Budget       *Budget        `json:"budget,omitempty"`
	Resources    *Resources     `json:"resources,omitempty"`
	Vendor       *Vendor        `json:"vendor,omitempty"`
}

func (pp ProjectPatch) IsEmpty() bool {
	return pp.Name == nil && pp.Owner == nil && pp.BusinessUnit == nil && pp.Status == nil &&
		pp.Budget == nil && pp.Resources == nil && pp.Vendor == nil
}

// ApplyTo copies every set field onto p.
func (pp ProjectPatch) ApplyTo(p *Project) {
	p.Name = CoalesceStrPtr(p.Name, pp.Name)
	p.Owner = CoalesceStrPtr(p.Owner, pp.Owner)
	p.BusinessUnit = CoalesceStrPtr(p.BusinessUnit, pp.BusinessUnit)
	if pp.Status != nil {
		p.Status = *pp.Status
	}
	if pp.Budget != nil {
		p.Budget = *pp.Budget
	}
	if pp.Resources != nil {
		p.Resources = *pp.Resources
	}
	if pp.Vendor != nil {
		p.Vendor = *pp.Vendor
	}
}

// ApprovalState derives the baseline approval state from the pending proposal.
func (p *Project) ApprovalState() ApprovalState {
	if p.PendingChanges != nil {
		return StatePendingApproval
	}
	return StateClean
}

// SubmitChange attaches a proposal. Only one proposal may be pending at a time.
func (p *Project) SubmitChange(proposal ChangeProposal, now time.Time) error {
	if p.PendingChanges != nil {
		return &InvalidStateError{ProjectID: p.ID, State: p.ApprovalState(), Op: "submit change request"}
	}
	if proposal.RequestedAt.IsZero() {
		proposal.RequestedAt = now
	}
	p.PendingChanges = &proposal
	p.UpdatedAt = now
	return nil
}

// ApproveChange applies the pending patch, advances the baseline by one and
// clears the proposal. It returns the new baseline version.
func (p *Project) ApproveChange(now time.Time) (int, error) {
	if p.PendingChanges == nil {
		return p.Baseline, &InvalidStateError{ProjectID: p.ID, State: p.ApprovalState(), Op: "approve baseline change"}
	}
	p.PendingChanges.Patch.ApplyTo(p)
	p.Baseline++
	p.PendingChanges = nil
	p.UpdatedAt = now
	return p.Baseline, nil
}

// RejectChange discards the pending proposal without touching the baseline.
func (p *Project) RejectChange(now time.Time) error {
	if p.PendingChanges == nil {
		return &InvalidStateError{ProjectID: p.ID, State: p.ApprovalState(), Op: "reject baseline change"}
	}
	p.PendingChanges = nil
	p.UpdatedAt = now
	return nil
}

// OverrideBaseline sets the baseline version directly. Version 0 means no
// baseline, so an override starts at 1. Any pending proposal is left in place.
func (p *Project) OverrideBaseline(version int, now time.Time) error {
	if version < 1 {
		return &InvalidStateError{ProjectID: p.ID, State: p.ApprovalState(), Op: "set baseline to a version below 1"}
	}
	p.Baseline = version
	p.UpdatedAt = now
	return nil
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	cp := *p
	cp.KPIs = cloneKPIs(p.KPIs)
	if p.PendingChanges != nil {
		pc := *p.PendingChanges
		pc.Patch = p.PendingChanges.Patch.clone()
		cp.PendingChanges = &pc
	}
	return &cp
}

func (pp ProjectPatch) clone() ProjectPatch {
	out := ProjectPatch{}
	if pp.Name != nil {
		v := *pp.Name
		out.Name = &v
	}
	if pp.Owner != nil {
		v := *pp.Owner
		out.Owner = &v
	}
	if pp.BusinessUnit != nil {
		v := *pp.BusinessUnit
		out.BusinessUnit = &v
	}
	if pp.Status != nil {
		v := *pp.Status
		out.Status = &v
	}
	if pp.Budget != nil {
		v := *pp.Budget
		out.Budget = &v
	}
	if pp.Resources != nil {
		v := *pp.Resources
		out.Resources = &v
	}
	if pp.Vendor != nil {
		v := *pp.Vendor
		out.Vendor = &v
	}
	return out
}

func cloneKPIs(k []KPI) []KPI {
	if k == nil {
		return nil
	}
	out := make([]KPI, len(k))
	copy(out, k)
	return out
}
