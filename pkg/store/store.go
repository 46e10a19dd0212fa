// Package store persists project-to-container associations in a local
// SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/glebarez/go-sqlite"
)

// DBFileName is the registry file created inside the working folder.
const DBFileName = "container_projects.db"

// DefaultAPEXURL is assigned to new projects without an explicit URL.
const DefaultAPEXURL = "http://localhost:8080/ords"

// Project is one tracked project record. Optional fields are empty strings
// when unset.
type Project struct {
	ID            int64
	Name          string
	ContainerName string
	ContainerID   string
	APEXURL       string
	APEXInstalled bool
}

// Filter narrows List results.
type Filter struct {
	OnlyMissingContainer bool
	OnlyWithoutAPEX      bool
}

// ProjectStore wraps the projects SQLite database.
type ProjectStore struct {
	db   *sql.DB
	path string
}

// Open creates the working folder and database file as needed and ensures
// the schema is current.
func Open(workingFolder string) (*ProjectStore, error) {
	if err := os.MkdirAll(workingFolder, 0o755); err != nil {
		return nil, fmt.Errorf("create working folder: %w", err)
	}
	path := filepath.Join(workingFolder, DBFileName)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open project database: %w", err)
	}

	s := &ProjectStore{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *ProjectStore) Close() error { return s.db.Close() }

// Path returns the location of the backing database file.
func (s *ProjectStore) Path() string { return s.path }

func (s *ProjectStore) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_name TEXT NOT NULL,
			container_name TEXT,
			container_id TEXT,
			apex_url TEXT,
			apex_installed INTEGER NOT NULL DEFAULT 0,
			last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("create projects table: %w", err)
	}
	return s.upgradeSchema()
}

// upgradeSchema migrates databases written before the container_name column
// existed: the old container_id column held the name, so it is moved over
// and cleared.
func (s *ProjectStore) upgradeSchema() error {
	rows, err := s.db.Query(`PRAGMA table_info(projects)`)
	if err != nil {
		return fmt.Errorf("inspect projects schema: %w", err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var cid, notNull, pk int
		var name, typ string
		var defaultVal sql.NullString
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return fmt.Errorf("scan projects schema: %w", err)
		}
		columns[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspect projects schema: %w", err)
	}

	if columns["container_name"] {
		return nil
	}
	migrations := []string{
		`ALTER TABLE projects ADD COLUMN container_name TEXT`,
		`UPDATE projects SET container_name = container_id WHERE container_name IS NULL OR TRIM(container_name) = ''`,
		`UPDATE projects SET container_id = NULL WHERE container_name = container_id`,
	}
	for _, stmt := range migrations {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("upgrade projects schema: %w", err)
		}
	}
	return nil
}

// Add inserts a new project and returns its id. The APEX URL falls back to
// the default when empty.
func (s *ProjectStore) Add(name, containerName, containerID, apexURL string) (int64, error) {
	if apexURL = strings.TrimSpace(apexURL); apexURL == "" {
		apexURL = DefaultAPEXURL
	}
	result, err := s.db.Exec(
		`INSERT INTO projects (project_name, container_name, container_id, apex_url) VALUES (?, ?, ?, ?)`,
		strings.TrimSpace(name), normalize(containerName), normalize(containerID), apexURL,
	)
	if err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}
	return id, nil
}

// List returns projects matching the filter, ordered by id.
func (s *ProjectStore) List(filter Filter) ([]Project, error) {
	query := `SELECT id, project_name, container_name, container_id, apex_url, apex_installed FROM projects`
	var clauses []string
	if filter.OnlyMissingContainer {
		clauses = append(clauses,
			`(container_name IS NULL OR TRIM(container_name) = '' OR container_id IS NULL OR TRIM(container_id) = '')`)
	}
	if filter.OnlyWithoutAPEX {
		clauses = append(clauses, `apex_installed = 0`)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Get returns a single project, or ok=false when the id is unknown.
func (s *ProjectStore) Get(id int64) (Project, bool, error) {
	rows, err := s.db.Query(
		`SELECT id, project_name, container_name, container_id, apex_url, apex_installed FROM projects WHERE id = ?`, id)
	if err != nil {
		return Project{}, false, fmt.Errorf("get project: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Project{}, false, fmt.Errorf("get project: %w", err)
		}
		return Project{}, false, nil
	}
	project, err := scanProject(rows)
	if err != nil {
		return Project{}, false, err
	}
	return project, true, nil
}

// UpdateContainer updates the container metadata for a project. Nil fields
// are left untouched so either value can be assigned independently.
func (s *ProjectStore) UpdateContainer(id int64, containerName, containerID *string) error {
	var assignments []string
	var values []any
	if containerName != nil {
		assignments = append(assignments, "container_name = ?")
		values = append(values, normalize(*containerName))
	}
	if containerID != nil {
		assignments = append(assignments, "container_id = ?")
		values = append(values, normalize(*containerID))
	}
	if len(assignments) == 0 {
		return nil
	}

	values = append(values, id)
	_, err := s.db.Exec(
		fmt.Sprintf(`UPDATE projects SET %s, last_updated = CURRENT_TIMESTAMP WHERE id = ?`,
			strings.Join(assignments, ", ")),
		values...,
	)
	if err != nil {
		return fmt.Errorf("update container details: %w", err)
	}
	return nil
}

// UpdateName changes the name of a tracked project.
func (s *ProjectStore) UpdateName(id int64, name string) error {
	_, err := s.db.Exec(
		`UPDATE projects SET project_name = ?, last_updated = CURRENT_TIMESTAMP WHERE id = ?`,
		strings.TrimSpace(name), id)
	if err != nil {
		return fmt.Errorf("update project name: %w", err)
	}
	return nil
}

// UpdateAPEXURL persists a new APEX URL for a project.
func (s *ProjectStore) UpdateAPEXURL(id int64, apexURL string) error {
	_, err := s.db.Exec(
		`UPDATE projects SET apex_url = ?, last_updated = CURRENT_TIMESTAMP WHERE id = ?`,
		strings.TrimSpace(apexURL), id)
	if err != nil {
		return fmt.Errorf("update apex url: %w", err)
	}
	return nil
}

// MarkInstalled sets the APEX installation flag.
func (s *ProjectStore) MarkInstalled(id int64, installed bool) error {
	value := 0
	if installed {
		value = 1
	}
	_, err := s.db.Exec(
		`UPDATE projects SET apex_installed = ?, last_updated = CURRENT_TIMESTAMP WHERE id = ?`,
		value, id)
	if err != nil {
		return fmt.Errorf("mark apex status: %w", err)
	}
	return nil
}

// Delete removes a project record. Docker containers are never touched.
func (s *ProjectStore) Delete(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func scanProject(rows *sql.Rows) (Project, error) {
	var project Project
	var containerName, containerID, apexURL sql.NullString
	var installed int
	if err := rows.Scan(&project.ID, &project.Name, &containerName, &containerID, &apexURL, &installed); err != nil {
		return Project{}, fmt.Errorf("scan project row: %w", err)
	}
	project.ContainerName = containerName.String
	project.ContainerID = containerID.String
	project.APEXURL = apexURL.String
	project.APEXInstalled = installed != 0
	return project, nil
}

// normalize trims optional inputs and stores empty strings as NULL.
func normalize(value string) any {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return nil
}
