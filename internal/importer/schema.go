package importer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alexanderramin/wbsline/internal/domain"
)

// ImportSchema is the top-level JSON structure for an entity-set import.
// Entities reference their parents by the file-local ref of the parent, never
// by a stored id; ids are assigned during conversion.
type ImportSchema struct {
	Projects      []ProjectImport      `json:"projects"`
	FinalProducts []FinalProductImport `json:"finalProducts"`
	Phases        []PhaseImport        `json:"phases"`
	Deliverables  []DeliverableImport  `json:"deliverables"`
	WorkPackages  []WorkPackageImport  `json:"workPackages"`
}

// ProjectImport defines a project in the import file.
type ProjectImport struct {
	Ref          string            `json:"ref"`
	Name         string            `json:"name"`
	Owner        string            `json:"owner,omitempty"`
	BusinessUnit string            `json:"businessUnit,omitempty"`
	Status       string            `json:"status,omitempty"`
	Baseline     *int              `json:"baseline,omitempty"`
	Budget       *domain.Budget    `json:"budget,omitempty"`
	Resources    *domain.Resources `json:"resources,omitempty"`
	Vendor       *domain.Vendor    `json:"vendor,omitempty"`
	KPIs         []domain.KPI      `json:"kpis,omitempty"`
}

// FinalProductImport defines a final product under ProjectRef.
type FinalProductImport struct {
	Ref         string            `json:"ref"`
	ProjectRef  string            `json:"projectRef"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Owner       string            `json:"owner,omitempty"`
	Budget      *domain.Budget    `json:"budget,omitempty"`
	Resources   *domain.Resources `json:"resources,omitempty"`
	KPIs        []domain.KPI      `json:"kpis,omitempty"`
}

// PhaseImport defines a phase under FinalProductRef.
type PhaseImport struct {
	Ref             string            `json:"ref"`
	FinalProductRef string            `json:"finalProductRef"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	Owner           string            `json:"owner,omitempty"`
	Timeline        string            `json:"timeline,omitempty"`
	Budget          *domain.Budget    `json:"budget,omitempty"`
	Resources       *domain.Resources `json:"resources,omitempty"`
	KPIs            []domain.KPI      `json:"kpis,omitempty"`
}

// DeliverableImport defines a deliverable. It names either a single
// PhaseRef or, in the legacy form, a list of ScopeRefs.
type DeliverableImport struct {
	Ref         string            `json:"ref"`
	PhaseRef    string            `json:"phaseRef,omitempty"`
	ScopeRefs   []string          `json:"scopeRefs,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Assignee    string            `json:"assignee,omitempty"`
	Owner       string            `json:"owner,omitempty"`
	Status      any               `json:"status,omitempty"`
	Budget      *domain.Budget    `json:"budget,omitempty"`
	Resources   *domain.Resources `json:"resources,omitempty"`
	DatesImport
	KPIs []domain.KPI `json:"kpis,omitempty"`
}

// WorkPackageImport defines a work package under DeliverableRef.
type WorkPackageImport struct {
	Ref            string            `json:"ref"`
	DeliverableRef string            `json:"deliverableRef"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Assignee       string            `json:"assignee,omitempty"`
	Status         any               `json:"status,omitempty"`
	Budget         *domain.Budget    `json:"budget,omitempty"`
	Resources      *domain.Resources `json:"resources,omitempty"`
	DatesImport
	KPIs []domain.KPI `json:"kpis,omitempty"`
}

// DatesImport holds the optional YYYY-MM-DD dates of a leaf-capable entity.
type DatesImport struct {
	StartDate       string `json:"startDate,omitempty"`
	EndDate         string `json:"endDate,omitempty"`
	ActualStartDate string `json:"actualStartDate,omitempty"`
	ActualEndDate   string `json:"actualEndDate,omitempty"`
}

// LoadImportSchema reads and parses an entity-set import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data)
}

// ParseImportSchema decodes an import document already held in memory.
func ParseImportSchema(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
