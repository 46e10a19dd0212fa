package main

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacjconsulting/apexpilot/pkg/clipboard"
	"github.com/jacjconsulting/apexpilot/pkg/store"
)

// Fixed settings for the suggested Oracle XE container. The host ports are
// offset so a locally installed Oracle does not clash with the container.
const (
	oracleImage    = "gvenzl/oracle-xe:21-slim"
	oraclePassword = "JACJConsulting"
	listenerPort   = 1522
	consolePort    = 5501
	apexPort       = 8080
)

var cloneCmd = &cobra.Command{
	Use:   "clone",
	Short: "Prepare the docker run command for a project's Oracle XE container",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		defaults, err := cloneFlow(env)
		if err != nil {
			return err
		}
		if defaults == nil {
			return nil
		}
		if askYesNo(env, "Assign these details to a project missing them now? (y/n): ", false) {
			return fixProjectsFlow(env, defaults)
		}
		return nil
	},
}

// cloneFlow walks the operator through starting a fresh Oracle XE container
// for a chosen project and returns the container details for reuse.
func cloneFlow(env *appEnv) (*containerDefaults, error) {
	projects, err := env.store.List(store.Filter{})
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		fmt.Println("No projects recorded yet. Create one first.")
		return nil, nil
	}

	fmt.Println("\n--- Clone Oracle XE Container ---")
	project, err := selectProject(env, projects, "Select the project id to prepare the container (Enter to cancel): ")
	if err != nil || project == nil {
		return nil, err
	}

	containerName := project.ContainerName
	if containerName == "" {
		containerName = suggestContainerName(project.Name, projects)
	} else {
		fmt.Printf("This project currently uses container '%s'. You can reuse it or register a new one.\n", containerName)
	}

	fmt.Println("\nMake sure Docker Desktop is running.")
	fmt.Println("If the Oracle XE image is missing, pull it with:")
	fmt.Printf("  docker pull %s\n", oracleImage)

	dockerCommand := fmt.Sprintf(
		"docker run -d --platform linux/amd64 --name %s -e ORACLE_PASSWORD=%s -p %d:1521 -p %d:5500 -p %d:8080 -v oracle_data:/opt/oracle/oradata %s",
		containerName, oraclePassword, listenerPort, consolePort, apexPort, oracleImage,
	)

	fmt.Println("\nRun the container with:")
	fmt.Printf("  %s\n", dockerCommand)
	if err := (clipboard.System{}).Copy(dockerCommand); err == nil {
		fmt.Println("The docker command is in your clipboard.")
	}
	fmt.Printf("Password in use (SYS/SYSTEM): %s\n", oraclePassword)
	fmt.Printf("Listener port: %d  |  ORDS Console port: %d  |  APEX port: %d\n", listenerPort, consolePort, apexPort)

	fmt.Println("\nVerify the container with:")
	fmt.Printf("  docker ps --filter name=%s\n", containerName)
	fmt.Println("You can retrieve the container id with:")
	fmt.Printf("  docker ps -aq --filter name=%s\n", containerName)
	fmt.Println("Once it is up, you can connect using the host ports you selected.")

	var detectedID string
	if askYesNo(env, "Attempt to detect the container id automatically? (Y/n): ", true) {
		detectedID = lookupContainerID(containerName)
		if detectedID != "" {
			fmt.Printf("Detected container id: %s\n", detectedID)
		} else {
			fmt.Println("Could not detect the container id automatically.")
		}
	}
	if detectedID == "" {
		manual, err := env.reader.ReadLine("Paste the container id from docker (leave blank to skip): ")
		if err == nil {
			detectedID = strings.TrimSpace(manual)
		}
	}

	if askYesNo(env, "Save this container information to the project now? (y/n): ", false) {
		var idPtr *string
		if detectedID != "" {
			idPtr = &detectedID
		}
		if err := env.store.UpdateContainer(project.ID, &containerName, idPtr); err != nil {
			return nil, err
		}
		fmt.Println("Container details stored in the project record.")
	}

	return &containerDefaults{Name: containerName, ID: detectedID}, nil
}

var containerNameSanitizer = regexp.MustCompile(`[^a-z0-9]+`)

// suggestContainerName derives a docker-safe, registry-unique name from the
// project name.
func suggestContainerName(projectName string, projects []store.Project) string {
	sanitized := strings.Trim(containerNameSanitizer.ReplaceAllString(strings.ToLower(projectName), "_"), "_")
	if sanitized == "" {
		sanitized = "project"
	}
	base := sanitized + "_xe"

	existing := make(map[string]bool)
	for _, project := range projects {
		if name := strings.TrimSpace(project.ContainerName); name != "" {
			existing[name] = true
		}
	}

	candidate := base
	for suffix := 1; existing[candidate]; suffix++ {
		candidate = fmt.Sprintf("%s_%d", base, suffix)
	}
	return candidate
}

// lookupContainerID asks the local docker daemon for the id of the named
// container. Best-effort: any failure just means the operator pastes the id
// themselves.
func lookupContainerID(containerName string) string {
	if containerName == "" {
		return ""
	}
	out, err := exec.Command("docker", "ps", "-aq", "--filter", "name="+containerName).Output()
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			fmt.Println("Docker command failed:", err)
		} else {
			fmt.Println("Docker command not found on this system.")
		}
		return ""
	}

	ids := strings.Fields(strings.TrimSpace(string(out)))
	if len(ids) == 0 {
		return ""
	}
	if len(ids) > 1 {
		fmt.Println("Multiple containers matched that name. Using the most recent entry.")
	}
	return ids[0]
}

func init() {
	rootCmd.AddCommand(cloneCmd)
}
