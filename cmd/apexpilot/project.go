package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacjconsulting/apexpilot/pkg/store"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage tracked projects and their container details",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every tracked project",
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
		printProjects(projects)
		return nil
	},
}

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new project",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()
		return createProjectFlow(env)
	},
}

// createProjectFlow registers a new project. A read error means the
// operator cancelled, which is not an empty name.
func createProjectFlow(env *appEnv) error {
	fmt.Fprintln(env.out, "\n--- Create New Project ---")
	name, err := env.reader.ReadLine("Project name: ")
	if err != nil {
		return nil
	}
	if strings.TrimSpace(name) == "" {
		fmt.Fprintln(env.out, "Project name cannot be empty.")
		return nil
	}
	containerName, err := env.reader.ReadLine("Docker container name (leave blank to fill later): ")
	if err != nil {
		return nil
	}
	apexURL, err := env.reader.ReadLine(fmt.Sprintf("APEX url (default %s): ", store.DefaultAPEXURL))
	if err != nil {
		return nil
	}

	id, err := env.store.Add(name, containerName, "", apexURL)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "Project registered with id %d.\n", id)
	fmt.Fprintln(env.out, "Open Docker Desktop, pull or clone the Oracle image, and start the container.")
	fmt.Fprintln(env.out, "When running docker run include -p 8080:8080 so ORDS can expose APEX to your host.")
	fmt.Fprintln(env.out, "Once you finish preparing the Docker container, record the details via 'apexpilot project fix'.")
	return nil
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a project's name, container details or APEX status",
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
			fmt.Println("No projects to update yet.")
			return nil
		}

		project, err := selectProject(env, projects, "Type the project id to update (or Enter to cancel): ")
		if err != nil || project == nil {
			return err
		}

		newName, err := env.reader.ReadLine("New project name (leave blank to keep current): ")
		if err != nil {
			return nil
		}
		if newName != "" {
			if err := env.store.UpdateName(project.ID, newName); err != nil {
				return err
			}
		}

		var containerName, containerID *string
		value, err := env.reader.ReadLine("New container name (leave blank to keep current): ")
		if err != nil {
			return nil
		}
		if value != "" {
			containerName = &value
		}
		idValue, err := env.reader.ReadLine("New container id (leave blank to keep current): ")
		if err != nil {
			return nil
		}
		if idValue != "" {
			containerID = &idValue
		}
		if containerName != nil || containerID != nil {
			if err := env.store.UpdateContainer(project.ID, containerName, containerID); err != nil {
				return err
			}
		}

		newURL, err := env.reader.ReadLine("New APEX url (leave blank to keep current): ")
		if err != nil {
			return nil
		}
		if newURL != "" {
			if err := env.store.UpdateAPEXURL(project.ID, newURL); err != nil {
				return err
			}
		}

		mark, err := env.reader.ReadLine("Mark APEX as installed? (y/n, leave blank to skip): ")
		if err != nil {
			return nil
		}
		switch strings.ToLower(strings.TrimSpace(mark)) {
		case "y":
			err = env.store.MarkInstalled(project.ID, true)
		case "n":
			err = env.store.MarkInstalled(project.ID, false)
		}
		if err != nil {
			return err
		}
		fmt.Println("Project updated.")
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove a project from the registry",
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

		fmt.Println("Type the project id to delete. For safety, confirm by typing DELETE when prompted.")
		project, err := selectProject(env, projects, "Project id (or Enter to cancel): ")
		if err != nil || project == nil {
			return err
		}

		confirmation, err := env.reader.ReadLine("Type DELETE to remove this project record (this does not touch Docker containers): ")
		if err != nil || strings.TrimSpace(confirmation) != "DELETE" {
			fmt.Println("Deletion cancelled.")
			return nil
		}

		if err := env.store.Delete(project.ID); err != nil {
			return err
		}
		fmt.Printf("Project %d removed from the registry.\n", project.ID)

		if project.ContainerName != "" {
			fmt.Println("\nRemember to stop and remove the Docker container manually if needed:")
			fmt.Printf("  docker stop %s\n", project.ContainerName)
			fmt.Printf("  docker rm %s\n", project.ContainerName)
		}
		return nil
	},
}

var projectFixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Assign container details to projects that are missing them",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()
		return fixProjectsFlow(env, nil)
	},
}

// containerDefaults carries suggestions from a clone flow into the fix
// loop, so Enter accepts the values just produced.
type containerDefaults struct {
	Name string
	ID   string
}

// fixProjectsFlow loops over the projects without container details and
// lets the operator assign or delete them. The d<ID> shorthand deletes a
// record in place.
func fixProjectsFlow(env *appEnv, defaults *containerDefaults) error {
	projects, err := env.store.List(store.Filter{OnlyMissingContainer: true})
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("All projects have container details recorded. Great!")
		return nil
	}

	for {
		fmt.Println("\nProjects needing container details:")
		printProjects(projects)
		line, err := env.reader.ReadLine("Enter an id to assign a container, use d<ID> to delete, or Enter to exit: ")
		if err != nil {
			return nil
		}
		choice := strings.TrimSpace(line)
		if choice == "" {
			return nil
		}

		switch {
		case strings.HasPrefix(strings.ToLower(choice), "d"):
			target := choice[1:]
			id, convErr := strconv.ParseInt(target, 10, 64)
			if convErr != nil {
				fmt.Println("Use the format d<ID>, for example d3.")
				continue
			}
			if err := env.store.Delete(id); err != nil {
				return err
			}
			fmt.Printf("Project %d removed.\n", id)
		default:
			id, convErr := strconv.ParseInt(choice, 10, 64)
			if convErr != nil {
				fmt.Println("Unknown action. Try again.")
				continue
			}
			done, err := assignContainer(env, id, defaults)
			if err != nil {
				return err
			}
			if done {
				defaults = nil
			}
		}

		projects, err = env.store.List(store.Filter{OnlyMissingContainer: true})
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("All container details are up to date.")
			return nil
		}
	}
}

// assignContainer prompts for the container name and id of one project,
// honoring any clone defaults.
func assignContainer(env *appEnv, id int64, defaults *containerDefaults) (bool, error) {
	promptName := "Container name"
	if defaults != nil && defaults.Name != "" {
		promptName += fmt.Sprintf(" (Enter to use %s)", defaults.Name)
	}
	containerName, err := env.reader.ReadLine(promptName + ": ")
	if err != nil {
		return false, nil
	}
	if containerName == "" && defaults != nil {
		containerName = defaults.Name
	}

	promptID := "Container id"
	if defaults != nil && defaults.ID != "" {
		promptID += fmt.Sprintf(" (Enter to use %s)", defaults.ID)
	}
	containerID, err := env.reader.ReadLine(promptID + ": ")
	if err != nil {
		return false, nil
	}
	if containerID == "" && defaults != nil {
		containerID = defaults.ID
	}

	if containerName == "" {
		fmt.Println("Container name cannot be empty.")
		return false, nil
	}
	if containerID == "" {
		fmt.Println("Warning: container id is missing. Run the docker ps command and try again.")
	}

	var idPtr *string
	if containerID != "" {
		idPtr = &containerID
	}
	if err := env.store.UpdateContainer(id, &containerName, idPtr); err != nil {
		return false, err
	}
	fmt.Println("Container details updated.")
	return true, nil
}

func init() {
	projectCmd.AddCommand(projectListCmd, projectCreateCmd, projectUpdateCmd, projectDeleteCmd, projectFixCmd)
	rootCmd.AddCommand(projectCmd)
}
