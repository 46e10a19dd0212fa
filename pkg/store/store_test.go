package store

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *ProjectStore {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndGet(t *testing.T) {
	s := openTestStore(t)

	id, err := s.Add("Billing", "billing_xe", "abc123", "http://host:8080/ords")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	project, ok, err := s.Get(id)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if project.Name != "Billing" || project.ContainerName != "billing_xe" || project.ContainerID != "abc123" {
		t.Errorf("unexpected project: %+v", project)
	}
	if project.APEXInstalled {
		t.Error("new projects must start without APEX")
	}
}

func TestAddDefaultsAPEXURL(t *testing.T) {
	s := openTestStore(t)
	id, err := s.Add("Billing", "", "", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	project, _, _ := s.Get(id)
	if project.APEXURL != DefaultAPEXURL {
		t.Errorf("apex url = %q, want default %q", project.APEXURL, DefaultAPEXURL)
	}
}

func TestGetUnknownID(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.Get(42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected ok=false for an unknown id")
	}
}

func TestBlankOptionalFieldsStoredAsNull(t *testing.T) {
	s := openTestStore(t)
	id, err := s.Add("Billing", "   ", "  ", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	project, _, _ := s.Get(id)
	if project.ContainerName != "" || project.ContainerID != "" {
		t.Errorf("blank optionals should read back empty: %+v", project)
	}

	projects, err := s.List(Filter{OnlyMissingContainer: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 1 {
		t.Errorf("blank container details must count as missing, got %d rows", len(projects))
	}
}

func TestListFilters(t *testing.T) {
	s := openTestStore(t)

	complete, _ := s.Add("Complete", "complete_xe", "id1", "")
	missing, _ := s.Add("Missing", "", "", "")
	installed, _ := s.Add("Installed", "installed_xe", "id3", "")
	if err := s.MarkInstalled(installed, true); err != nil {
		t.Fatalf("mark: %v", err)
	}

	all, err := s.List(Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(all))
	}
	// Ordered by id.
	if all[0].ID != complete || all[1].ID != missing || all[2].ID != installed {
		t.Errorf("unexpected order: %+v", all)
	}

	missingRows, err := s.List(Filter{OnlyMissingContainer: true})
	if err != nil {
		t.Fatalf("list missing: %v", err)
	}
	if len(missingRows) != 1 || missingRows[0].ID != missing {
		t.Errorf("missing filter returned %+v", missingRows)
	}

	pending, err := s.List(Filter{OnlyWithoutAPEX: true})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("expected 2 projects without APEX, got %d", len(pending))
	}
	for _, project := range pending {
		if project.ID == installed {
			t.Error("installed project leaked into the without-APEX filter")
		}
	}
}

func TestUpdateContainerPartial(t *testing.T) {
	s := openTestStore(t)
	id, _ := s.Add("Billing", "old_xe", "old_id", "")

	name := "new_xe"
	if err := s.UpdateContainer(id, &name, nil); err != nil {
		t.Fatalf("update: %v", err)
	}
	project, _, _ := s.Get(id)
	if project.ContainerName != "new_xe" {
		t.Errorf("container name = %q", project.ContainerName)
	}
	if project.ContainerID != "old_id" {
		t.Errorf("container id should be untouched, got %q", project.ContainerID)
	}

	// No fields given: a no-op, not an error.
	if err := s.UpdateContainer(id, nil, nil); err != nil {
		t.Errorf("no-op update: %v", err)
	}
}

func TestUpdateNameAndURL(t *testing.T) {
	s := openTestStore(t)
	id, _ := s.Add("Billing", "", "", "")

	if err := s.UpdateName(id, "  Invoicing  "); err != nil {
		t.Fatalf("update name: %v", err)
	}
	if err := s.UpdateAPEXURL(id, "http://host:9090/ords"); err != nil {
		t.Fatalf("update url: %v", err)
	}

	project, _, _ := s.Get(id)
	if project.Name != "Invoicing" {
		t.Errorf("name = %q", project.Name)
	}
	if project.APEXURL != "http://host:9090/ords" {
		t.Errorf("url = %q", project.APEXURL)
	}
}

func TestMarkInstalledRoundTrip(t *testing.T) {
	s := openTestStore(t)
	id, _ := s.Add("Billing", "", "", "")

	if err := s.MarkInstalled(id, true); err != nil {
		t.Fatalf("mark: %v", err)
	}
	project, _, _ := s.Get(id)
	if !project.APEXInstalled {
		t.Error("expected APEXInstalled=true")
	}

	if err := s.MarkInstalled(id, false); err != nil {
		t.Fatalf("unmark: %v", err)
	}
	project, _, _ = s.Get(id)
	if project.APEXInstalled {
		t.Error("expected APEXInstalled=false")
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	id, _ := s.Add("Billing", "", "", "")
	if err := s.Delete(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, ok, err := s.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("project still present after delete")
	}
}

// Databases created before the container_name column existed carried the
// container name in container_id. Opening such a database must move the
// value over and clear the id.
func TestLegacySchemaUpgrade(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DBFileName)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	_, err = db.Exec(`
		CREATE TABLE projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_name TEXT NOT NULL,
			container_id TEXT,
			apex_url TEXT,
			apex_installed INTEGER NOT NULL DEFAULT 0,
			last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		t.Fatalf("create legacy table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO projects (project_name, container_id) VALUES ('Old', 'old_box')`); err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close raw db: %v", err)
	}

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open store over legacy db: %v", err)
	}
	defer s.Close()

	projects, err := s.List(Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
	if projects[0].ContainerName != "old_box" {
		t.Errorf("container name = %q, want migrated value", projects[0].ContainerName)
	}
	if projects[0].ContainerID != "" {
		t.Errorf("container id = %q, want cleared", projects[0].ContainerID)
	}
}
