package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/wbsline/internal/domain"
)

const dateLayout = "2006-01-02"

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
//
// The rollup engine tolerates orphans, but an import whose parent refs do
// not resolve is rejected here so that nothing orphaned is ever written.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if schema.Len() == 0 {
		return []error{fmt.Errorf("import file contains no entities")}
	}

	projectRefs := make(map[string]bool)
	errs = append(errs, validateProjects(schema.Projects, projectRefs)...)

	fpRefs := make(map[string]bool)
	errs = append(errs, validateFinalProducts(schema.FinalProducts, projectRefs, fpRefs)...)

	phaseRefs := make(map[string]bool)
	errs = append(errs, validatePhases(schema.Phases, fpRefs, phaseRefs)...)

	delivRefs := make(map[string]bool)
	errs = append(errs, validateDeliverables(schema.Deliverables, phaseRefs, delivRefs)...)

	errs = append(errs, validateWorkPackages(schema.WorkPackages, delivRefs)...)

	return errs
}

// Len returns the number of entities across all five lists.
func (s *ImportSchema) Len() int {
	return len(s.Projects) + len(s.FinalProducts) + len(s.Phases) + len(s.Deliverables) + len(s.WorkPackages)
}

func validateProjects(projects []ProjectImport, refs map[string]bool) []error {
	var errs []error

	for i, p := range projects {
		prefix := fmt.Sprintf("projects[%d]", i)

		errs = append(errs, validateRef(prefix, p.Ref, refs)...)
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if p.Status != "" && !domain.ValidProjectStatuses[p.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, p.Status))
		}
		if p.Baseline != nil && *p.Baseline < 0 {
			errs = append(errs, fmt.Errorf("%s.baseline must be >= 0, got %d", prefix, *p.Baseline))
		}
		errs = append(errs, validateFigures(prefix, p.Budget, p.Resources)...)
	}

	return errs
}

func validateFinalProducts(fps []FinalProductImport, projectRefs, refs map[string]bool) []error {
	var errs []error

	for i, fp := range fps {
		prefix := fmt.Sprintf("finalProducts[%d]", i)

		errs = append(errs, validateRef(prefix, fp.Ref, refs)...)
		errs = append(errs, validateParentRef(prefix+".projectRef", fp.ProjectRef, projectRefs, "projects")...)
		if fp.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		errs = append(errs, validateFigures(prefix, fp.Budget, fp.Resources)...)
	}

	return errs
}

func validatePhases(phases []PhaseImport, fpRefs, refs map[string]bool) []error {
	var errs []error

	for i, ph := range phases {
		prefix := fmt.Sprintf("phases[%d]", i)

		errs = append(errs, validateRef(prefix, ph.Ref, refs)...)
		errs = append(errs, validateParentRef(prefix+".finalProductRef", ph.FinalProductRef, fpRefs, "finalProducts")...)
		if ph.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		errs = append(errs, validateFigures(prefix, ph.Budget, ph.Resources)...)
	}

	return errs
}

func validateDeliverables(ds []DeliverableImport, phaseRefs, refs map[string]bool) []error {
	var errs []error

	for i, d := range ds {
		prefix := fmt.Sprintf("deliverables[%d]", i)

		errs = append(errs, validateRef(prefix, d.Ref, refs)...)
		switch {
		case d.PhaseRef != "" && len(d.ScopeRefs) > 0:
			errs = append(errs, fmt.Errorf("%s: phaseRef and scopeRefs are mutually exclusive", prefix))
		case d.PhaseRef != "":
			errs = append(errs, validateParentRef(prefix+".phaseRef", d.PhaseRef, phaseRefs, "phases")...)
		case len(d.ScopeRefs) > 0:
			for j, ref := range d.ScopeRefs {
				errs = append(errs, validateParentRef(fmt.Sprintf("%s.scopeRefs[%d]", prefix, j), ref, phaseRefs, "phases")...)
			}
		default:
			errs = append(errs, fmt.Errorf("%s: one of phaseRef or scopeRefs is required", prefix))
		}
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		errs = append(errs, validateStatus(prefix+".status", d.Status)...)
		errs = append(errs, validateFigures(prefix, d.Budget, d.Resources)...)
		errs = append(errs, validateDates(prefix, d.DatesImport)...)
	}

	return errs
}

func validateWorkPackages(wps []WorkPackageImport, delivRefs map[string]bool) []error {
	var errs []error
	refs := make(map[string]bool)

	for i, wp := range wps {
		prefix := fmt.Sprintf("workPackages[%d]", i)

		errs = append(errs, validateRef(prefix, wp.Ref, refs)...)
		errs = append(errs, validateParentRef(prefix+".deliverableRef", wp.DeliverableRef, delivRefs, "deliverables")...)
		if wp.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		errs = append(errs, validateStatus(prefix+".status", wp.Status)...)
		errs = append(errs, validateFigures(prefix, wp.Budget, wp.Resources)...)
		errs = append(errs, validateDates(prefix, wp.DatesImport)...)
	}

	return errs
}

// validateRef records ref in seen and reports a missing or duplicate ref.
func validateRef(prefix, ref string, seen map[string]bool) []error {
	if ref == "" {
		return []error{fmt.Errorf("%s.ref is required", prefix)}
	}
	if seen[ref] {
		return []error{fmt.Errorf("%s.ref: duplicate ref %q", prefix, ref)}
	}
	seen[ref] = true
	return nil
}

func validateParentRef(field, ref string, parents map[string]bool, list string) []error {
	if ref == "" {
		return []error{fmt.Errorf("%s is required", field)}
	}
	if !parents[ref] {
		return []error{fmt.Errorf("%s: ref %q not found in %s", field, ref, list)}
	}
	return nil
}

// validateStatus accepts a missing status, a number or a numeric string in
// [0,100]. Anything else is rejected rather than silently read as 0.
func validateStatus(field string, v any) []error {
	var f float64
	switch s := v.(type) {
	case nil:
		return nil
	case float64:
		f = s
	case int:
		f = float64(s)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return []error{fmt.Errorf("%s: %q is not a number", field, s)}
		}
		f = parsed
	default:
		return []error{fmt.Errorf("%s: unsupported type %T", field, v)}
	}
	if f < 0 || f > 100 {
		return []error{fmt.Errorf("%s must be between 0 and 100, got %v", field, f)}
	}
	return nil
}

func validateFigures(prefix string, b *domain.Budget, r *domain.Resources) []error {
	var errs []error
	if b != nil {
		if b.Plan < 0 {
			errs = append(errs, fmt.Errorf("%s.budget.plan must be >= 0", prefix))
		}
		if b.Actual < 0 {
			errs = append(errs, fmt.Errorf("%s.budget.actual must be >= 0", prefix))
		}
	}
	if r != nil {
		if r.PlanManDays < 0 {
			errs = append(errs, fmt.Errorf("%s.resources.planManDays must be >= 0", prefix))
		}
		if r.ActualManDays < 0 {
			errs = append(errs, fmt.Errorf("%s.resources.actualManDays must be >= 0", prefix))
		}
	}
	return errs
}

func validateDates(prefix string, d DatesImport) []error {
	var errs []error

	start, err := validateOptionalDate(prefix+".startDate", d.StartDate)
	if err != nil {
		errs = append(errs, err)
	}
	end, err := validateOptionalDate(prefix+".endDate", d.EndDate)
	if err != nil {
		errs = append(errs, err)
	}
	actualStart, err := validateOptionalDate(prefix+".actualStartDate", d.ActualStartDate)
	if err != nil {
		errs = append(errs, err)
	}
	actualEnd, err := validateOptionalDate(prefix+".actualEndDate", d.ActualEndDate)
	if err != nil {
		errs = append(errs, err)
	}

	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs = append(errs, fmt.Errorf("%s.endDate %q is before startDate %q", prefix, d.EndDate, d.StartDate))
	}
	if !actualStart.IsZero() && !actualEnd.IsZero() && actualEnd.Before(actualStart) {
		errs = append(errs, fmt.Errorf("%s.actualEndDate %q is before actualStartDate %q", prefix, d.ActualEndDate, d.ActualStartDate))
	}

	return errs
}

func validateOptionalDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, value)
	}
	return t, nil
}
