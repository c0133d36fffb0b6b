package output

import (
	"fmt"
	"strings"
)

// ModifiedItem is a changed document with its rendered field-level diff.
type ModifiedItem struct {
	Name string
	Diff string
}

// DiffReport is the result of comparing generated documents against the
// existing output directory.
type DiffReport struct {
	Added    []string
	Removed  []string
	Modified []ModifiedItem
}

// Empty reports whether nothing changed.
func (r DiffReport) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Modified) == 0
}

// RenderDiff renders a report section by section, followed by a summary.
func RenderDiff(report DiffReport, styles *Styles) string {
	if report.Empty() {
		return "No changes detected."
	}

	var sb strings.Builder

	if len(report.Added) > 0 {
		sb.WriteString(styles.Success.Render("Added:") + "\n")
		for _, name := range report.Added {
			sb.WriteString("  + " + styles.Success.Render(name) + "\n")
		}
		sb.WriteString("\n")
	}

	if len(report.Removed) > 0 {
		sb.WriteString(styles.Error.Render("Removed:") + "\n")
		for _, name := range report.Removed {
			sb.WriteString("  - " + styles.Error.Render(name) + "\n")
		}
		sb.WriteString("\n")
	}

	if len(report.Modified) > 0 {
		sb.WriteString(styles.Warning.Render("Modified:") + "\n")
		for _, mod := range report.Modified {
			sb.WriteString("  ~ " + styles.Warning.Render(mod.Name) + "\n")
			sb.WriteString(IndentDiff(mod.Diff, "    "))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("Summary: ")
	sb.WriteString(diffSummary(len(report.Added), len(report.Removed), len(report.Modified)))
	sb.WriteString("\n")

	return sb.String()
}

func diffSummary(added, removed, modified int) string {
	if added == 0 && removed == 0 && modified == 0 {
		return "No changes"
	}

	parts := make([]string, 0, 3)
	if added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", added))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", removed))
	}
	if modified > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", modified))
	}
	return strings.Join(parts, ", ")
}

// IndentDiff indents every non-empty line of diff.
func IndentDiff(diff string, indent string) string {
	if diff == "" {
		return ""
	}

	var sb strings.Builder
	for _, line := range strings.Split(diff, "\n") {
		if line != "" {
			sb.WriteString(indent + line + "\n")
		}
	}
	return sb.String()
}
