package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/jacjconsulting/apexpilot/pkg/store"
)

// scriptedReader replays a fixed sequence of operator answers, then
// reports EOF.
type scriptedReader struct {
	lines []string
	index int
}

func (r *scriptedReader) ReadLine(prompt string) (string, error) {
	if r.index >= len(r.lines) {
		return "", io.EOF
	}
	line := r.lines[r.index]
	r.index++
	return line, nil
}

func (r *scriptedReader) Close() error { return nil }

func testEnv(t *testing.T, lines ...string) *appEnv {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return &appEnv{
		store:  st,
		reader: &scriptedReader{lines: lines},
		out:    &bytes.Buffer{},
	}
}

func envOutput(env *appEnv) string {
	return env.out.(*bytes.Buffer).String()
}

// Losing the input stream at the name prompt cancels the creation quietly,
// without complaining about an empty name.
func TestCreateProjectCancelledOnInputLoss(t *testing.T) {
	env := testEnv(t)

	if err := createProjectFlow(env); err != nil {
		t.Fatalf("create: %v", err)
	}
	if out := envOutput(env); strings.Contains(out, "Project name cannot be empty.") {
		t.Errorf("cancelled prompt must not report an empty name:\n%s", out)
	}
	projects, err := env.store.List(store.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("no project should be registered after cancellation: %+v", projects)
	}
}

func TestCreateProjectRejectsBlankName(t *testing.T) {
	env := testEnv(t, "   ")

	if err := createProjectFlow(env); err != nil {
		t.Fatalf("create: %v", err)
	}
	if out := envOutput(env); !strings.Contains(out, "Project name cannot be empty.") {
		t.Errorf("blank name should be rejected with a message:\n%s", out)
	}
	projects, err := env.store.List(store.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("no project should be registered for a blank name: %+v", projects)
	}
}

func TestCreateProjectStoresRecord(t *testing.T) {
	env := testEnv(t, "Billing", "billing_xe", "")

	if err := createProjectFlow(env); err != nil {
		t.Fatalf("create: %v", err)
	}
	projects, err := env.store.List(store.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
	if projects[0].Name != "Billing" || projects[0].ContainerName != "billing_xe" {
		t.Errorf("unexpected project: %+v", projects[0])
	}
	if projects[0].APEXURL != store.DefaultAPEXURL {
		t.Errorf("apex url = %q, want default %q", projects[0].APEXURL, store.DefaultAPEXURL)
	}
	if !strings.Contains(envOutput(env), "Project registered with id") {
		t.Error("missing registration confirmation")
	}
}
