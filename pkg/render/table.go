// Package render formats project listings and plan walkthroughs for the
// terminal.
package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jacjconsulting/apexpilot/pkg/store"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

var projectHeaders = []string{"ID", "Project", "Container Name", "Container ID", "APEX URL", "APEX?"}

// ProjectTable renders the project registry as an aligned text table.
func ProjectTable(projects []store.Project) string {
	rows := make([][]string, 0, len(projects))
	for _, project := range projects {
		installed := "No"
		if project.APEXInstalled {
			installed = "Yes"
		}
		rows = append(rows, []string{
			strconv.FormatInt(project.ID, 10),
			project.Name,
			orDash(project.ContainerName),
			orDash(project.ContainerID),
			orDash(project.APEXURL),
			installed,
		})
	}

	widths := make([]int, len(projectHeaders))
	for i, header := range projectHeaders {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(formatRow(projectHeaders, widths)))
	sb.WriteString("\n")
	total := 3 * (len(projectHeaders) - 1)
	for _, w := range widths {
		total += w
	}
	sb.WriteString(strings.Repeat("-", total))
	sb.WriteString("\n")
	for _, row := range rows {
		sb.WriteString(formatRow(row, widths))
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = runewidth.FillRight(cell, widths[i])
	}
	return strings.TrimRight(strings.Join(padded, " | "), " ")
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
