package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacjconsulting/apexpilot/pkg/artifacts"
	"github.com/jacjconsulting/apexpilot/pkg/plan"
	"github.com/jacjconsulting/apexpilot/pkg/render"
	"github.com/jacjconsulting/apexpilot/pkg/store"
)

var (
	walkthroughOut   string
	walkthroughPrint bool
)

var walkthroughCmd = &cobra.Command{
	Use:   "walkthrough",
	Short: "Export a project's installation plan as a Markdown document",
	Long: `Build the full installation plan for a project and write it out as a
structured Markdown walkthrough: one section per stage, commands in fenced
blocks, plus the current state of the local installer artifacts.

Useful for review, onboarding, or working through the installation outside
the interactive wizard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		projects, err := env.store.List(store.Filter{})
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("No projects recorded yet.")
			return nil
		}

		project, err := selectProject(env, projects, "Type the project id to document (or Enter to cancel): ")
		if err != nil || project == nil {
			return err
		}

		snapshot := plan.Snapshot{
			ContainerID:   project.ContainerID,
			ContainerName: project.ContainerName,
			APEXURL:       project.APEXURL,
		}
		matches := artifacts.Scan(env.artifactsDir)
		p := plan.Build(snapshot, matches, env.artifactsDir)
		if p.Empty() {
			fmt.Println("Cannot build a walkthrough: make sure the project has container information.")
			return nil
		}

		doc := render.Walkthrough(project.Name, p, artifacts.Summary(matches))

		if walkthroughPrint {
			fmt.Println(render.Markdown(doc))
			return nil
		}

		outPath := walkthroughOut
		if outPath == "" {
			base := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(project.Name), " ", "-"))
			if base == "" {
				base = fmt.Sprintf("project-%d", project.ID)
			}
			outPath = filepath.Join(env.workFolder, "walkthrough-"+base+".md")
		}
		if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("write walkthrough: %w", err)
		}
		fmt.Printf("Walkthrough generated: %s\n", outPath)
		return nil
	},
}

func init() {
	walkthroughCmd.Flags().StringVarP(&walkthroughOut, "out", "o", "", "output file path (default: working folder)")
	walkthroughCmd.Flags().BoolVarP(&walkthroughPrint, "print", "p", false, "render to the terminal instead of writing a file")
	rootCmd.AddCommand(walkthroughCmd)
}
