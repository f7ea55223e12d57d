package cli

import (
	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/spf13/pflag"
)

// figureFlags binds the budget and effort flags shared by every level.
type figureFlags struct {
	plan, actual, additional float64
	planDays, actualDays     float64
}

func (f *figureFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.plan, "budget-plan", 0, "Planned budget")
	fs.Float64Var(&f.actual, "budget-actual", 0, "Actual spend")
	fs.Float64Var(&f.additional, "budget-additional", 0, "Additional approved budget")
	fs.Float64Var(&f.planDays, "plan-days", 0, "Planned effort in man-days")
	fs.Float64Var(&f.actualDays, "actual-days", 0, "Actual effort in man-days")
}

func (f *figureFlags) budget() domain.Budget {
	return domain.Budget{Plan: f.plan, Actual: f.actual, Additional: f.additional}
}

func (f *figureFlags) resources() domain.Resources {
	return domain.Resources{PlanManDays: f.planDays, ActualManDays: f.actualDays}
}

// applyChanged overwrites only the figures whose flags were set.
func (f *figureFlags) applyChanged(fs *pflag.FlagSet, b *domain.Budget, r *domain.Resources) {
	if fs.Changed("budget-plan") {
		b.Plan = f.plan
	}
	if fs.Changed("budget-actual") {
		b.Actual = f.actual
	}
	if fs.Changed("budget-additional") {
		b.Additional = f.additional
	}
	if fs.Changed("plan-days") {
		r.PlanManDays = f.planDays
	}
	if fs.Changed("actual-days") {
		r.ActualManDays = f.actualDays
	}
}

// dateFlags binds the planned and actual date flags of leaf levels.
type dateFlags struct {
	start, end, actualStart, actualEnd string
}

func (d *dateFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&d.start, "start", "", "Planned start date (YYYY-MM-DD)")
	fs.StringVar(&d.end, "end", "", "Planned end date (YYYY-MM-DD)")
	fs.StringVar(&d.actualStart, "actual-start", "", "Actual start date (YYYY-MM-DD)")
	fs.StringVar(&d.actualEnd, "actual-end", "", "Actual end date (YYYY-MM-DD)")
}

func (d *dateFlags) dates() domain.Dates {
	return domain.Dates{
		StartDate:       d.start,
		EndDate:         d.end,
		ActualStartDate: d.actualStart,
		ActualEndDate:   d.actualEnd,
	}
}

// applyChanged overwrites only the dates whose flags were set; an empty
// value clears the date.
func (d *dateFlags) applyChanged(fs *pflag.FlagSet, dates *domain.Dates) {
	if fs.Changed("start") {
		dates.StartDate = d.start
	}
	if fs.Changed("end") {
		dates.EndDate = d.end
	}
	if fs.Changed("actual-start") {
		dates.ActualStartDate = d.actualStart
	}
	if fs.Changed("actual-end") {
		dates.ActualEndDate = d.actualEnd
	}
}
