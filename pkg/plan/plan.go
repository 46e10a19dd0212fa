// Package plan derives the guided installation plan for a project from its
// container metadata and the locally discovered installer archives.
//
// A plan is built once per wizard invocation and never mutated afterwards.
// Building is a pure function of its inputs: the same snapshot and matches
// always yield the same stages, steps and command text.
package plan

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jacjconsulting/apexpilot/pkg/artifacts"
)

// Defaults shared by every generated plan.
const (
	DefaultAPEXURL = "http://localhost:8080/ords"
	ToolsDir       = "/opt/oracle/tools"

	ordsConfigDir  = "/opt/oracle/ords_config"
	jdkPlaceholder = "<jdk_folder>"
)

// Snapshot is the read-only view of a project record the builder consumes.
type Snapshot struct {
	ContainerID   string
	ContainerName string
	APEXURL       string
}

// Step is one actionable unit inside a stage. Commands are ready to paste
// into the shell named by Context; a step without commands is purely
// advisory.
type Step struct {
	Title       string
	Description string
	Context     string
	Commands    []string
}

// Stage groups steps under a theme. Key is the lowercase token used for
// quick selection in the wizard.
type Stage struct {
	Key         string
	Title       string
	Description string
	Steps       []Step
}

// Plan is the ordered stage tree for one wizard invocation. An empty plan
// means no container reference could be resolved and the wizard must not
// start.
type Plan struct {
	Stages []Stage
}

// Empty reports whether the plan has no stages to run.
func (p Plan) Empty() bool { return len(p.Stages) == 0 }

// Stage returns the stage with the given key, if present.
func (p Plan) Stage(key string) (Stage, bool) {
	for _, stage := range p.Stages {
		if stage.Key == key {
			return stage, true
		}
	}
	return Stage{}, false
}

// Build assembles the four-stage installation plan. The container reference
// prefers the stored container id over the name; without either the result
// is empty. Unresolved values surface as bracketed placeholders in the
// command text, never silently dropped.
func Build(snap Snapshot, matches artifacts.Matches, artifactsDir string) Plan {
	reference := resolveReference(snap)
	if reference == "" {
		return Plan{}
	}

	label := snap.ContainerName
	if label == "" {
		label = reference
	}
	apexURL := snap.APEXURL
	if apexURL == "" {
		apexURL = DefaultAPEXURL
	}

	copySource := shellQuote(strings.TrimRight(artifactsDir, "/\\") + "/.")

	javaArchive := archiveName(matches["java"])
	apexArchive := archiveName(matches["apex"])
	ordsArchive := archiveName(matches["ords"])

	javaHome := JDKHomeHint(javaArchive)
	const ordsHome = "ords"
	const apexHome = "apex"

	return Plan{Stages: []Stage{
		{
			Key:         "prep",
			Title:       "Stage 0 – Files and Extraction",
			Description: "Move the installer archives into the container and unpack them.",
			Steps:       preparationSteps(reference, label, copySource, matches, javaArchive, apexArchive, ordsArchive),
		},
		{
			Key:         "java",
			Title:       "Stage 1 – Java Runtime",
			Description: "Configure JAVA_HOME inside the container and verify the runtime.",
			Steps:       javaSteps(javaHome),
		},
		{
			Key:         "ords",
			Title:       "Stage 2 – ORDS Setup",
			Description: "Install Oracle REST Data Services and bring the standalone server online.",
			Steps:       ordsSteps(ordsHome, apexURL),
		},
		{
			Key:         "apex",
			Title:       "Stage 3 – APEX Installation",
			Description: "Install Oracle APEX, set the ADMIN password, and expose the endpoint.",
			Steps:       apexSteps(apexHome, apexURL),
		},
	}}
}

func resolveReference(snap Snapshot) string {
	if snap.ContainerID != "" {
		return snap.ContainerID
	}
	return snap.ContainerName
}

// JDKHomeHint infers the directory a JDK archive expands to: strip the
// archive suffix, then everything from the platform marker onward. The
// convention is assumed, not verified; downstream steps reference the
// derived path, so the heuristic must stay stable.
func JDKHomeHint(archive string) string {
	if archive == "" {
		return jdkPlaceholder
	}
	name := archive
	for _, suffix := range []string{".tar.gz", ".tgz", ".tar"} {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}
	if idx := strings.Index(name, "_linux"); idx >= 0 {
		name = name[:idx]
	}
	if name == "" {
		return jdkPlaceholder
	}
	return name
}

func archiveName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

// artifactMessage summarizes which archives were found and which are still
// missing, for the copy step description.
func artifactMessage(matches artifacts.Matches, archives ...string) string {
	var available []string
	for _, name := range archives {
		if name != "" {
			available = append(available, name)
		}
	}
	var missing []string
	for _, req := range artifacts.Catalog {
		if _, ok := matches[req.ID]; !ok {
			missing = append(missing, req.Name)
		}
	}

	message := "No archives detected."
	if len(available) > 0 {
		message = "Found archives: " + strings.Join(available, ", ")
	}
	if len(missing) > 0 {
		message += " Missing: " + strings.Join(missing, ", ") + "."
	}
	return message
}

func preparationSteps(reference, label, copySource string, matches artifacts.Matches, javaArchive, apexArchive, ordsArchive string) []Step {
	steps := []Step{
		{
			Title:   "Verify Docker runtime",
			Context: "Host shell",
			Description: "Make sure Docker Desktop is running and can reach the local daemon. " +
				"Install the gvenzl/oracle-xe image beforehand.",
			Commands: []string{"docker info"},
		},
		{
			Title:   "Start Oracle container",
			Context: "Host shell",
			Description: fmt.Sprintf("Start the container assigned to this project (%s) and wait for the database to open. ", label) +
				"Follow the logs until you see Database ready messages, then exit with CTRL+C.",
			Commands: []string{
				fmt.Sprintf("docker start %s", reference),
				fmt.Sprintf("docker logs -f %s", reference),
			},
		},
		{
			Title:       "Create tools directory",
			Context:     "Host shell",
			Description: "Ensure the shared tools directory exists inside the container before copying the installers.",
			Commands:    []string{fmt.Sprintf("docker exec -it %s mkdir -p %s", reference, ToolsDir)},
		},
		{
			Title:       "Copy installation artifacts",
			Context:     "Host shell",
			Description: fmt.Sprintf("Transfer the installer archives into the container. %s", artifactMessage(matches, javaArchive, apexArchive, ordsArchive)),
			Commands: []string{
				fmt.Sprintf("docker cp %s %s:%s", copySource, reference, ToolsDir),
				fmt.Sprintf("docker exec -it %s ls -lh %s", reference, ToolsDir),
			},
		},
		{
			Title:       "Open oracle shell",
			Context:     "Host shell",
			Description: "Enter the container as the oracle user. Use the root shell as a fallback and export ORACLE_HOME manually.",
			Commands: []string{
				fmt.Sprintf("docker exec -it --user oracle %s bash", reference),
				fmt.Sprintf("docker exec -it %s bash", reference),
			},
		},
	}

	// Extraction commands are emitted only for archives that were actually
	// matched on disk.
	extract := []string{
		fmt.Sprintf("cd %s", ToolsDir),
		"ls -1",
	}
	if javaArchive != "" {
		extract = append(extract, fmt.Sprintf("tar -xzf %s", javaArchive))
	}
	if apexArchive != "" {
		extract = append(extract, fmt.Sprintf("unzip -o %s", apexArchive))
	}
	if ordsArchive != "" {
		extract = append(extract, "mkdir -p ords", fmt.Sprintf("unzip -o %s -d ords", ordsArchive))
	}
	extract = append(extract, fmt.Sprintf("ls -lh %s", ToolsDir))

	return append(steps, Step{
		Title:       "Extract installers",
		Context:     "Container shell",
		Description: "Unpack the archives inside the tools directory. If the files were already extracted, re-run the commands to refresh them.",
		Commands:    extract,
	})
}

func javaSteps(javaHome string) []Step {
	return []Step{
		{
			Title:   "Configure Java environment",
			Context: "Container shell",
			Description: "Point JAVA_HOME to the JDK you just extracted so ORDS can use it. " +
				"Adjust the folder name if it differs or if you are running as root instead of the oracle user.",
			Commands: []string{
				fmt.Sprintf("cd %s", ToolsDir),
				fmt.Sprintf("export JAVA_HOME=%s/%s", ToolsDir, javaHome),
				`export PATH="$JAVA_HOME/bin:$PATH"`,
				"$JAVA_HOME/bin/java -version",
			},
		},
		{
			Title:   "Persist Java environment (optional)",
			Context: "Container shell",
			Description: "Append the JAVA_HOME exports to the oracle user's shell profile so new sessions inherit the configuration. " +
				"Skip if you prefer to set it manually per session.",
			Commands: []string{
				fmt.Sprintf("echo 'export JAVA_HOME=%s/%s' >> ~/.bashrc", ToolsDir, javaHome),
				`echo 'export PATH="$JAVA_HOME/bin:$PATH"' >> ~/.bashrc`,
				"tail -n 5 ~/.bashrc",
			},
		},
	}
}

func ordsSteps(ordsHome, apexURL string) []Step {
	return []Step{
		{
			Title:   "Make ORDS CLI available",
			Context: "Container shell",
			Description: "Add the ords launcher to PATH for this session. " +
				"Append the export to ~/.bashrc if you want every shell to include it automatically.",
			Commands: []string{
				fmt.Sprintf("cd %s/%s", ToolsDir, ordsHome),
				fmt.Sprintf(`export PATH="$PATH:%s/%s/bin"`, ToolsDir, ordsHome),
				fmt.Sprintf(`echo 'export PATH="$PATH:%s/%s/bin"' >> ~/.bashrc  # optional`, ToolsDir, ordsHome),
				"ords --version",
			},
		},
		{
			Title:       "Review ORDS directory",
			Context:     "Container shell",
			Description: "Confirm the ORDS archive was extracted into its own folder.",
			Commands: []string{
				fmt.Sprintf("cd %s", ToolsDir),
				"ls -1",
				fmt.Sprintf("cd %s/%s", ToolsDir, ordsHome),
				"ls -1",
			},
		},
		{
			Title:   "Prepare ORDS configuration directory",
			Context: "Container shell",
			Description: "Create a configuration folder outside the ORDS product path to avoid warnings. " +
				"If you are retrying the install, move the previous config out of the way first.",
			Commands: []string{
				fmt.Sprintf("mv %s %s.bak.$(date +%%Y%%m%%d%%H%%M%%S) 2>/dev/null || true", ordsConfigDir, ordsConfigDir),
				fmt.Sprintf("mkdir -p %s", ordsConfigDir),
				fmt.Sprintf("ls -ld %s", ordsConfigDir),
			},
		},
		{
			Title:   "Install ORDS",
			Context: "Container shell",
			Description: "Run the interactive installer. Select connection type 1 (Basic), enter host localhost, port 1521, and service XEPDB1. " +
				"When prompted for administrator credentials use 'sys as sysdba' with the container password (JACJConsulting). " +
				"On the summary screen edit option 3 to set a known password for ORDS_PUBLIC_USER, then accept the configuration.",
			Commands: []string{
				fmt.Sprintf("cd %s/%s", ToolsDir, ordsHome),
				fmt.Sprintf("ords --config %s install", ordsConfigDir),
			},
		},
		{
			Title:   "Sync ORDS runtime credentials",
			Context: "Container shell",
			Description: "Reset the ORDS and APEX REST users to the password you chose in the installer, then store it securely in the ORDS config. " +
				"Replace <ords_password> with that value when running these commands.",
			Commands: []string{
				"sqlplus / as sysdba <<'EOF'",
				"ALTER SESSION SET CONTAINER = CDB$ROOT;",
				`ALTER USER ORDS_PUBLIC_USER IDENTIFIED BY "<ords_password>" ACCOUNT UNLOCK CONTAINER = ALL;`,
				"ALTER SESSION SET CONTAINER = XEPDB1;",
				`ALTER USER APEX_PUBLIC_USER IDENTIFIED BY "<ords_password>" ACCOUNT UNLOCK;`,
				`ALTER USER APEX_REST_PUBLIC_USER IDENTIFIED BY "<ords_password>" ACCOUNT UNLOCK;`,
				"EXIT;",
				"EOF",
				fmt.Sprintf("ords --config %s config secret db.password", ordsConfigDir),
				"# enter <ords_password> when prompted",
			},
		},
		{
			Title:       "Enable PL/SQL gateway",
			Context:     "Container shell",
			Description: "Turn on the PL/SQL gateway so /ords/apex and /ords/apex_admin respond.",
			Commands: []string{
				fmt.Sprintf("ords --config %s config set feature.plsql.gateway.enabled true", ordsConfigDir),
			},
		},
		{
			Title:   "Start ORDS service",
			Context: "Container shell",
			Description: "Launch ORDS so it listens on port 8080. " +
				"Consider using screen, tmux, or nohup to keep it running in the background.",
			Commands: []string{
				fmt.Sprintf("cd %s/%s", ToolsDir, ordsHome),
				fmt.Sprintf("ords --config %s serve", ordsConfigDir),
				fmt.Sprintf("curl -I %s/_/", strings.TrimRight(apexURL, "/")),
			},
		},
		{
			Title:   "Grant ORDS-enabled schema access",
			Context: "Container shell",
			Description: "Run the optional grant/enable tasks if you plan to use SQL Developer Web or REST endpoints " +
				"for additional schemas.",
			Commands: []string{
				fmt.Sprintf("cd %s/%s", ToolsDir, ordsHome),
				fmt.Sprintf("ords --config %s grant-schema", ordsConfigDir),
				fmt.Sprintf("ords --config %s enable-schema", ordsConfigDir),
			},
		},
	}
}

func apexSteps(apexHome, apexURL string) []Step {
	return []Step{
		{
			Title:   "Inspect XDB component",
			Context: "Container shell",
			Description: "Verify the XDB component status in both CDB$ROOT and XEPDB1. " +
				"APEX requires XDB to be VALID in every container.",
			Commands: []string{
				"sqlplus / as sysdba",
				"SHOW con_name;",
				"SELECT comp_name, status FROM dba_registry WHERE comp_id = 'XDB';",
				"ALTER SESSION SET CONTAINER = XEPDB1;",
				"SHOW con_name;",
				"SELECT comp_name, status FROM dba_registry WHERE comp_id = 'XDB';",
			},
		},
		{
			Title:   "Repair XDB when invalid (advanced)",
			Context: "Container shell",
			Description: "If XDB reports INVALID in any container, follow Oracle's documented reload procedure. " +
				"This restarts the instance in UPGRADE mode; plan for downtime. Skip this step if XDB is already VALID.",
			Commands: []string{
				"ALTER SESSION SET CONTAINER = CDB$ROOT;",
				"SHUTDOWN IMMEDIATE;",
				"STARTUP UPGRADE;",
				"@?/rdbms/admin/xdbrelod.sql",
				"SHUTDOWN IMMEDIATE;",
				"STARTUP;",
				"ALTER PLUGGABLE DATABASE ALL OPEN;",
				"@?/rdbms/admin/utlrp.sql",
				"ALTER SESSION SET CONTAINER = XEPDB1;",
				"@?/rdbms/admin/utlrp.sql",
				"SELECT comp_name, status FROM dba_registry WHERE comp_id = 'XDB';",
			},
		},
		{
			Title:   "Install APEX core",
			Context: "Container shell",
			Description: "Run the core APEX installation inside the XEPDB1 pluggable database. " +
				"If the prerequisite check reports XDB as INVALID, rerun the previous step before retrying this installation.",
			Commands: []string{
				fmt.Sprintf("cd %s/%s", ToolsDir, apexHome),
				"sqlplus / as sysdba",
				"ALTER SESSION SET CONTAINER = XEPDB1;",
				"@apexins.sql SYSAUX SYSAUX TEMP /i/",
			},
		},
		{
			Title:       "Set APEX administrator password",
			Context:     "Container shell",
			Description: "Define the ADMIN password so you can log in to the APEX workspace after the installation.",
			Commands: []string{
				fmt.Sprintf("cd %s/%s", ToolsDir, apexHome),
				"sqlplus / as sysdba",
				"ALTER SESSION SET CONTAINER = XEPDB1;",
				"@apxchpwd.sql",
			},
		},
		{
			Title:   "Configure REST support",
			Context: "Container shell",
			Description: "Run the APEX REST configuration script to set passwords for APEX_PUBLIC_USER and ORDS_PUBLIC_USER. " +
				"When prompted, provide the same passwords twice and type SYSAUX and TEMP when the script asks for tablespaces.",
			Commands: []string{
				fmt.Sprintf("cd %s/%s", ToolsDir, apexHome),
				"sqlplus / as sysdba",
				"ALTER SESSION SET CONTAINER = XEPDB1;",
				"@apex_rest_config.sql",
			},
		},
		{
			Title:   "Unlock REST accounts",
			Context: "Container shell",
			Description: "If needed, unlock application users so ORDS can authenticate. " +
				"Replace <password> with the values you selected during the REST configuration step. " +
				"ORDS_PUBLIC_USER is only present on older installs; skip its ALTER if the account does not exist.",
			Commands: []string{
				"sqlplus / as sysdba",
				"ALTER SESSION SET CONTAINER = XEPDB1;",
				"SELECT username, account_status FROM dba_users WHERE username IN ('APEX_PUBLIC_USER','APEX_REST_PUBLIC_USER','ORDS_PUBLIC_USER');",
				`ALTER USER APEX_PUBLIC_USER IDENTIFIED BY "<password>" ACCOUNT UNLOCK;`,
				`ALTER USER APEX_REST_PUBLIC_USER IDENTIFIED BY "<password>" ACCOUNT UNLOCK;`,
				`ALTER USER ORDS_PUBLIC_USER IDENTIFIED BY "<password>" ACCOUNT UNLOCK; -- optional, only if it exists`,
			},
		},
		{
			Title:       "Validate APEX endpoint",
			Context:     "Host browser",
			Description: "Confirm that the APEX login page is reachable. Replace localhost with the mapped host if required.",
			Commands: []string{
				fmt.Sprintf("curl -I %s", apexURL),
				browserCommand(apexURL),
			},
		},
	}
}

// browserCommand picks the platform opener for the final validation step.
func browserCommand(url string) string {
	switch runtime.GOOS {
	case "darwin":
		return "open " + url
	case "windows":
		return "start " + url
	default:
		return "xdg-open " + url
	}
}

// shellQuote wraps a path in single quotes when it contains characters the
// shell would otherwise interpret, mirroring POSIX quoting rules.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("@%+=:,./-_", r):
		default:
			safe = false
		}
		if !safe {
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
