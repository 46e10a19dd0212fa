package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacjconsulting/apexpilot/pkg/clipboard"
	"github.com/jacjconsulting/apexpilot/pkg/plan"
	"github.com/jacjconsulting/apexpilot/pkg/store"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Show the start-up reminder sheet for a project",
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

		project, err := selectProject(env, projects, "Type the project id to load (or press Enter to cancel): ")
		if err != nil || project == nil {
			return err
		}
		if project.ContainerName == "" {
			fmt.Println("This project does not have container details yet. Assign them first.")
			return nil
		}

		fmt.Println("\nContainer lifecycle:")
		fmt.Printf("  docker start %s\n", project.ContainerName)
		if project.ContainerID != "" {
			fmt.Printf("  # container id: %s\n", project.ContainerID)
		}

		fmt.Println("\nOpen a shell as the oracle user (preferred) or root as fallback:")
		fmt.Printf("  docker exec -it --user oracle %s bash\n", project.ContainerName)
		fmt.Printf("  docker exec -it %s bash\n", project.ContainerName)

		fmt.Println("\nInside the shell, prepare the environment and start ORDS:")
		fmt.Printf("  cd %s/ords\n", plan.ToolsDir)
		fmt.Println("  source ~/.bashrc  # loads JAVA_HOME if you persisted it")
		fmt.Println("  ords --config /opt/oracle/ords_config serve")
		fmt.Println("Keep this process running (use tmux/screen/nohup if you need it detached).")

		fmt.Println("If you expose APEX through a proxy container, start it as well (example):")
		fmt.Println("  docker start ords-proxy")

		fmt.Println("\nTo validate the database, you can still run:")
		fmt.Println("  sqlplus / as sysdba")

		fmt.Println("\nAPEX access reminders:")
		fmt.Println("  - APEX builder: http://localhost:8080/ords/ (login with workspace credentials)")
		fmt.Println("  - APEX administration: http://localhost:8080/ords/apex_admin (user ADMIN)")
		fmt.Println("  - SQL Developer Web: choose PDB XEPDB1 on the landing page and sign in with a REST-enabled schema (for example APEX_PUBLIC_USER).")

		apexURL := project.APEXURL
		if apexURL == "" {
			apexURL = store.DefaultAPEXURL
		}
		fmt.Printf("Access APEX at: %s\n", apexURL)
		if err := (clipboard.System{}).Copy(apexURL); err != nil {
			fmt.Println("Could not copy the url to the clipboard. Copy it manually if needed.")
		} else {
			fmt.Println("The APEX url is now in your clipboard.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
