package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jacjconsulting/apexpilot/pkg/plan"
)

// Walkthrough produces a Markdown document describing the full installation
// plan for a project: one section per stage, one heading per step, commands
// in fenced blocks. Suitable for review or for keeping next to the project.
func Walkthrough(projectName string, p plan.Plan, artifactSummary []string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Installation Walkthrough: %s\n\n", projectName))
	sb.WriteString(fmt.Sprintf("**Generated**: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	stepTotal := 0
	commandTotal := 0
	for _, stage := range p.Stages {
		stepTotal += len(stage.Steps)
		for _, step := range stage.Steps {
			commandTotal += len(step.Commands)
		}
	}

	sb.WriteString("| Metric | Count |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Stages | %d |\n", len(p.Stages)))
	sb.WriteString(fmt.Sprintf("| Steps | %d |\n", stepTotal))
	sb.WriteString(fmt.Sprintf("| Commands | %d |\n\n", commandTotal))

	if len(artifactSummary) > 0 {
		sb.WriteString("## Local Artifacts\n\n")
		for _, line := range artifactSummary {
			sb.WriteString(fmt.Sprintf("- %s\n", line))
		}
		sb.WriteString("\n")
	}

	for _, stage := range p.Stages {
		sb.WriteString(fmt.Sprintf("## %s [`%s`]\n\n", stage.Title, stage.Key))
		sb.WriteString(stage.Description)
		sb.WriteString("\n\n")

		for index, step := range stage.Steps {
			sb.WriteString(fmt.Sprintf("### Step %d: %s\n\n", index+1, step.Title))
			sb.WriteString(fmt.Sprintf("**Context**: %s\n\n", step.Context))
			sb.WriteString(step.Description)
			sb.WriteString("\n\n")
			if len(step.Commands) > 0 {
				sb.WriteString("```\n")
				sb.WriteString(strings.Join(step.Commands, "\n"))
				sb.WriteString("\n```\n\n")
			}
		}
	}

	return sb.String()
}

// Markdown converts a markdown string to styled terminal output. Falls back
// to the raw input if glamour is unavailable or rendering fails.
func Markdown(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
