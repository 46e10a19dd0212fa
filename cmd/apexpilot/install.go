package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacjconsulting/apexpilot/pkg/artifacts"
	"github.com/jacjconsulting/apexpilot/pkg/clipboard"
	"github.com/jacjconsulting/apexpilot/pkg/plan"
	"github.com/jacjconsulting/apexpilot/pkg/store"
	"github.com/jacjconsulting/apexpilot/pkg/wizard"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Guide an APEX/ORDS installation for a project",
	Long: `Scan the local artifacts folder, review what is missing, and walk
through the guided installation wizard for a project's container.

The wizard only produces the commands to run; executing them is up to you.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()
		return installFlow(env)
	},
}

func installFlow(env *appEnv) error {
	pending, err := env.store.List(store.Filter{OnlyWithoutAPEX: true})
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("All projects are marked as APEX ready. Nice!")
		if !askYesNo(env, "Do you want to run the installer anyway? (Y/n): ", true) {
			return nil
		}
		pending, err = env.store.List(store.Filter{})
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Println("No projects recorded yet. Create one first.")
			return nil
		}
	}

	fmt.Println("\nProjects without APEX installed:")
	project, err := selectProject(env, pending, "Type the project id to work on (or Enter to cancel): ")
	if err != nil || project == nil {
		return err
	}

	if project.ContainerName == "" {
		fmt.Println("This project still lacks container details. Assign them first.")
		return nil
	}
	if project.ContainerID == "" {
		fmt.Println("Warning: container id has not been recorded yet.")
	}

	matches := artifacts.Scan(env.artifactsDir)
	fmt.Println("\nLocal artifacts status:")
	for _, line := range artifacts.Summary(matches) {
		fmt.Printf("  %s\n", line)
	}

	if missing := artifacts.MissingReport(matches); len(missing) > 0 {
		fmt.Println("\nDownloads needed:")
		for _, note := range missing {
			fmt.Printf("  %s\n", note)
		}
		fmt.Printf("Add the files to the %s folder and rerun this option when ready.\n", artifactsFolderName)
		if !askYesNo(env, "Continue with the checklist anyway? (y/n): ", false) {
			return nil
		}
	}

	snapshot := plan.Snapshot{
		ContainerID:   project.ContainerID,
		ContainerName: project.ContainerName,
		APEXURL:       project.APEXURL,
	}

	fmt.Println("\nSuggested installation steps:")
	for index, step := range plan.Checklist(snapshot) {
		fmt.Printf("  %02d. %s\n", index+1, step)
	}

	if askYesNo(env, "\nStart the interactive installation wizard now? (Y/n): ", true) {
		p := plan.Build(snapshot, matches, env.artifactsDir)
		wizard.New(p, env.reader, clipboard.System{}, os.Stdout).Run()
	}

	if askYesNo(env, "Were you able to access APEX successfully? (y/n): ", false) {
		if err := env.store.MarkInstalled(project.ID, true); err != nil {
			return err
		}
		newURL, err := env.reader.ReadLine("Paste the final APEX url if it changed (Enter to skip): ")
		if err == nil {
			if newURL = strings.TrimSpace(newURL); newURL != "" {
				if err := env.store.UpdateAPEXURL(project.ID, newURL); err != nil {
					return err
				}
			}
		}
		fmt.Println("Project marked as APEX ready.")
	} else {
		fmt.Println("Keep iterating with the checklist and run this option again once ready.")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(installCmd)
}
