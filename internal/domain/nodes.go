package domain

import "time"

type FinalProduct struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Owner       string    `json:"owner,omitempty"`
	Budget      Budget    `json:"budget"`
	Resources   Resources `json:"resources"`
	KPIs        []KPI     `json:"kpis,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Phase struct {
	ID             string    `json:"id"`
	FinalProductID string    `json:"finalProductId"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Owner          string    `json:"owner,omitempty"`
	Budget         Budget    `json:"budget"`
	Resources      Resources `json:"resources"`
	TimelineHint   string    `json:"timeline,omitempty"`
	KPIs           []KPI     `json:"kpis,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Deliverable struct {
	ID      string `json:"id"`
	PhaseID string `json:"phaseId,omitempty"`
	// ScopeIDs is the legacy many-to-many parent form, consulted only when PhaseID is empty.
	ScopeIDs    []string  `json:"scopeIds,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Assignee    string    `json:"assignee,omitempty"`
	Owner       string    `json:"owner,omitempty"`
	Budget      Budget    `json:"budget"`
	Resources   Resources `json:"resources"`
	Status      int       `json:"status"`
	Dates
	KPIs      []KPI     `json:"kpis,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ParentPhaseIDs returns every phase the deliverable rolls up into.
func (d *Deliverable) ParentPhaseIDs() []string {
	if d.PhaseID != "" {
		return []string{d.PhaseID}
	}
	return d.ScopeIDs
}

type WorkPackage struct {
	ID            string    `json:"id"`
	DeliverableID string    `json:"deliverableId"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Assignee      string    `json:"assignee,omitempty"`
	Status        int       `json:"status"`
	Budget        Budget    `json:"budget"`
	Resources     Resources `json:"resources"`
	Dates
	KPIs      []KPI     `json:"kpis,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
