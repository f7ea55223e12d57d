package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/rollup"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// StatusPill returns a colored status indicator for project status.
func StatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectPlanned:
		return StyleBlue.Render("○ Planned")
	case domain.ProjectOnHold:
		return StyleYellow.Render("◌ On hold")
	case domain.ProjectClosed:
		return StyleDim.Render("✔ Closed")
	default:
		return StyleDim.Render(string(status))
	}
}

// LevelBadge returns a short purple label for a hierarchy level.
func LevelBadge(level domain.Level) string {
	labels := map[domain.Level]string{
		domain.LevelProject:      "PRJ",
		domain.LevelFinalProduct: "FP",
		domain.LevelPhase:        "PH",
		domain.LevelDeliverable:  "DEL",
		domain.LevelWorkPackage:  "WP",
	}
	label, ok := labels[level]
	if !ok {
		label = level.String()
	}
	return StylePurple.Render(label)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatAmount renders a monetary figure with thousands separators and no
// currency; the hierarchy does not record one.
func FormatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := fmt.Sprintf("%.0f", v)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatManDays renders an effort figure such as "12.5d".
func FormatManDays(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	s = strings.TrimSuffix(s, ".0")
	return s + "d"
}

// FormatVariance renders a budget variance, red when over budget.
func FormatVariance(bv rollup.BudgetVariance) string {
	if bv.TotalBudget == 0 && bv.Actual == 0 {
		return Dim("--")
	}
	text := fmt.Sprintf("%s (%+d%%)", FormatAmount(bv.Variance), bv.VariancePercent)
	if bv.IsOverBudget {
		return StyleRed.Render("▲ " + text)
	}
	return StyleGreen.Render(text)
}

// FormatSpan renders a start..end pair, substituting "--" for empty dates.
func FormatSpan(start, end string) string {
	if start == "" && end == "" {
		return Dim("--")
	}
	return fmt.Sprintf("%s → %s", orDash(start), orDash(end))
}

func orDash(s string) string {
	if s == "" {
		return "--"
	}
	return s
}

// HumanTimestamp renders t as a UTC minute-precision timestamp.
func HumanTimestamp(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}
