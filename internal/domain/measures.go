package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Budget holds monetary figures for a node. All zero means "no own budget".
type Budget struct {
	Plan       float64 `json:"plan"`
	Actual     float64 `json:"actual"`
	Additional float64 `json:"additional"`
}

func (b Budget) IsZero() bool {
	return b.Plan == 0 && b.Actual == 0 && b.Additional == 0
}

func (b Budget) Add(o Budget) Budget {
	return Budget{
		Plan:       b.Plan + o.Plan,
		Actual:     b.Actual + o.Actual,
		Additional: b.Additional + o.Additional,
	}
}

// Resources holds effort figures in man-days.
type Resources struct {
	PlanManDays   float64 `json:"planManDays"`
	ActualManDays float64 `json:"actualManDays"`
}

func (r Resources) IsZero() bool {
	return r.PlanManDays == 0 && r.ActualManDays == 0
}

func (r Resources) Add(o Resources) Resources {
	return Resources{
		PlanManDays:   r.PlanManDays + o.PlanManDays,
		ActualManDays: r.ActualManDays + o.ActualManDays,
	}
}

type Vendor struct {
	Name          string  `json:"name"`
	Contact       string  `json:"contact"`
	ContractValue float64 `json:"contractValue"`
}

type KPI struct {
	Name   string `json:"name"`
	Target string `json:"target"`
	Actual string `json:"actual"`
}

// Dates are ISO calendar dates (YYYY-MM-DD); an empty string means absent.
type Dates struct {
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	ActualStartDate string `json:"actualStartDate"`
	ActualEndDate   string `json:"actualEndDate"`
}

// ClampStatus bounds a completion value to [0,100].
func ClampStatus(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ParseStatus converts a loosely typed status value into a clamped integer.
// Missing or non-numeric input yields 0.
func ParseStatus(v any) int {
	switch s := v.(type) {
	case nil:
		return 0
	case int:
		return ClampStatus(s)
	case int64:
		return ClampStatus(int(s))
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return 0
		}
		return ClampStatus(RoundHalfUp(s))
	case json.Number:
		f, err := s.Float64()
		if err != nil {
			return 0
		}
		return ParseStatus(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		return ParseStatus(f)
	default:
		return 0
	}
}

// RoundHalfUp rounds to the nearest integer with halves rounding towards
// positive infinity (2.5 -> 3, -2.5 -> -2).
func RoundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}
