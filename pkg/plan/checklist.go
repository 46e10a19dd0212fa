package plan

import "fmt"

// Checklist is the short, non-interactive summary of the installation
// procedure, shown before the operator decides to start the wizard.
// Unresolved values render as bracketed placeholders.
func Checklist(snap Snapshot) []string {
	reference := resolveReference(snap)
	if reference == "" {
		reference = "<container_id>"
	}
	apexURL := snap.APEXURL
	if apexURL == "" {
		apexURL = DefaultAPEXURL
	}

	return []string{
		"Make sure Docker Desktop is running and the Oracle database image is installed.",
		fmt.Sprintf("Start the container: docker start %s", reference),
		fmt.Sprintf("Attach to the container shell: docker exec -it %s bash", reference),
		fmt.Sprintf("Inside the container, create a tools directory: mkdir -p %s", ToolsDir),
		fmt.Sprintf("From the host: docker cp ./APEX_files/. %s:%s", reference, ToolsDir),
		fmt.Sprintf("Inside the container unzip APEX: cd %s && unzip apex*.zip", ToolsDir),
		"Install APEX following the official guide (run apexins.sql as SYS).",
		"Install ORDS by running ords.war setup pointing to the pluggable database.",
		"Expose ORDS using the suggested port mapping or confirm it already listens on 8080.",
		fmt.Sprintf("Access APEX: %s", apexURL),
	}
}
