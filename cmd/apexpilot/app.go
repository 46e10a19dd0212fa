package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jacjconsulting/apexpilot/pkg/config"
	"github.com/jacjconsulting/apexpilot/pkg/prompt"
	"github.com/jacjconsulting/apexpilot/pkg/render"
	"github.com/jacjconsulting/apexpilot/pkg/store"
)

// Folder layout under the current working directory. The artifacts folder
// is where the operator drops the downloaded installer archives.
const (
	workFolderName      = "Local Data"
	artifactsFolderName = "APEX_files"
)

// lineReader is the prompt surface the interactive flows depend on. Tests
// supply a scripted implementation.
type lineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// appEnv bundles the collaborators every interactive command needs.
type appEnv struct {
	workFolder   string
	artifactsDir string
	store        *store.ProjectStore
	reader       lineReader
	out          io.Writer
}

// openEnv prepares the working folder, registry and prompt reader, and
// bootstraps the configuration file on first run.
func openEnv() (*appEnv, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	workFolder := filepath.Join(cwd, workFolderName)
	artifactsDir := filepath.Join(workFolder, artifactsFolderName)
	if err := os.MkdirAll(artifactsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifacts folder: %w", err)
	}

	st, err := store.Open(workFolder)
	if err != nil {
		return nil, err
	}

	reader, err := prompt.New()
	if err != nil {
		st.Close()
		return nil, err
	}

	env := &appEnv{
		workFolder:   workFolder,
		artifactsDir: artifactsDir,
		store:        st,
		reader:       reader,
		out:          os.Stdout,
	}
	if err := env.loadConfig(); err != nil {
		env.close()
		return nil, err
	}
	return env, nil
}

func (env *appEnv) close() {
	env.reader.Close()
	env.store.Close()
}

// loadConfig bootstraps config.yaml, pausing on first run so the operator
// can fill in the credentials, and warns about keys the template does not
// know about.
func (env *appEnv) loadConfig() error {
	cfg, err := config.Load(filepath.Join(env.workFolder, config.FileName))
	if err != nil {
		return err
	}
	if cfg.Created {
		fmt.Println("Configuration file created at:")
		fmt.Printf("  %s\n", cfg.Path)
		fmt.Println("Update it with your credentials before proceeding.")
		if _, err := env.reader.ReadLine("Press Enter after editing the file..."); err != nil && err != io.EOF {
			return err
		}
	}
	if len(cfg.Extra) > 0 {
		fmt.Println("Warning: new keys detected in config.yaml ->", strings.Join(cfg.Extra, ", "))
		fmt.Println("Update the default template so future deployments remain consistent.")
	}
	return nil
}

// printProjects writes the registry table for the given rows.
func printProjects(projects []store.Project) {
	fmt.Print(render.ProjectTable(projects))
}

// selectProject shows the table and asks for a project id. A nil project
// with a nil error means the operator cancelled.
func selectProject(env *appEnv, projects []store.Project, promptText string) (*store.Project, error) {
	printProjects(projects)
	line, err := env.reader.ReadLine(promptText)
	if err != nil {
		return nil, nil
	}
	selection := strings.TrimSpace(line)
	if selection == "" {
		return nil, nil
	}
	id, convErr := strconv.ParseInt(selection, 10, 64)
	if convErr != nil {
		fmt.Println("Please enter a numeric id.")
		return nil, nil
	}
	project, ok, err := env.store.Get(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		fmt.Println("Project not found.")
		return nil, nil
	}
	return &project, nil
}

// askYesNo reads a y/n answer. defaultYes makes an empty answer count as
// yes, matching (Y/n) style prompts.
func askYesNo(env *appEnv, promptText string, defaultYes bool) bool {
	line, err := env.reader.ReadLine(promptText)
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	if answer == "" {
		return defaultYes
	}
	return answer == "y" || answer == "yes"
}
