package domain

import (
	"fmt"
	"strings"
)

// Level identifies one of the five tiers of the work-breakdown hierarchy.
type Level int

const (
	LevelProject Level = iota
	LevelFinalProduct
	LevelPhase
	LevelDeliverable
	LevelWorkPackage
)

var levelNames = map[Level]string{
	LevelProject:      "project",
	LevelFinalProduct: "final_product",
	LevelPhase:        "phase",
	LevelDeliverable:  "deliverable",
	LevelWorkPackage:  "work_package",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Valid reports whether l is one of the five known levels.
func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// ParseLevel accepts the canonical snake_case names as well as hyphenated
// and space-separated forms ("work-package", "Final Product").
func ParseLevel(s string) (Level, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for l, name := range levelNames {
		if name == norm {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown level %q (expected project, final_product, phase, deliverable or work_package)", s)
}

type ProjectStatus string

const (
	ProjectPlanned ProjectStatus = "planned"
	ProjectActive  ProjectStatus = "active"
	ProjectOnHold  ProjectStatus = "on_hold"
	ProjectClosed  ProjectStatus = "closed"
)

// ValidProjectStatuses is the canonical set of accepted project status strings.
var ValidProjectStatuses = map[string]bool{
	"planned": true, "active": true, "on_hold": true, "closed": true,
}

// ApprovalState is the baseline approval state of a project.
type ApprovalState string

const (
	StateClean           ApprovalState = "clean"
	StatePendingApproval ApprovalState = "pending_approval"
)
