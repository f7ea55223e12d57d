package formatter

import (
	"strings"

	"github.com/alexanderramin/wbsline/internal/domain"
	"github.com/alexanderramin/wbsline/internal/rollup"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	Title  string
	Kind   domain.Level
	Depth  int
	IsLast bool
	Badge  string // pre-styled, right-aligned
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// TreeItemsFromReport converts a depth-first rollup report into tree rows.
// Each row is badged with its completion bar.
func TreeItemsFromReport(report []rollup.NodeSummary) []TreeItem {
	items := make([]TreeItem, len(report))
	for i, s := range report {
		items[i] = TreeItem{
			Title:  s.Name,
			Kind:   s.Level,
			Depth:  s.Depth,
			IsLast: isLastSibling(report, i),
			Badge:  RenderProgress(s.Completion, 10),
		}
	}
	return items
}

// isLastSibling reports whether no later row shares the parent of row i
// before the walk climbs back above it.
func isLastSibling(report []rollup.NodeSummary, i int) bool {
	depth := report[i].Depth
	for j := i + 1; j < len(report); j++ {
		switch {
		case report[j].Depth < depth:
			return true
		case report[j].Depth == depth:
			return false
		}
	}
	return true
}

// RenderTree renders a list of TreeItems as an indented tree using
// box-drawing characters for connectors. Badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	// open[d] is true while an ancestor at depth d still has siblings below.
	open := map[int]bool{}

	for idx, item := range items {
		var prefix string
		if item.Depth > 0 {
			for d := 1; d < item.Depth; d++ {
				if open[d] {
					prefix += treePipe
				} else {
					prefix += treeBlank
				}
			}
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}
		open[item.Depth] = !item.IsLast

		content := prefix + LevelBadge(item.Kind) + " " + item.Title
		lines[idx] = lineInfo{content: content, badge: item.Badge}

		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		if li.badge == "" {
			b.WriteString(li.content + "\n")
			continue
		}
		pad := maxContentWidth - lipgloss.Width(li.content)
		if pad < 0 {
			pad = 0
		}
		b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
	}

	return b.String()
}
