package plan

import (
	"reflect"
	"strings"
	"testing"

	"github.com/jacjconsulting/apexpilot/pkg/artifacts"
)

func stageCommands(stage Stage) []string {
	var commands []string
	for _, step := range stage.Steps {
		commands = append(commands, step.Commands...)
	}
	return commands
}

func TestBuildWithoutContainerReference(t *testing.T) {
	p := Build(Snapshot{APEXURL: "http://example/ords"}, artifacts.Matches{}, "/tmp/APEX_files")
	if !p.Empty() {
		t.Errorf("expected empty plan, got %d stages", len(p.Stages))
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	snap := Snapshot{ContainerID: "c1", ContainerName: "proj_xe"}
	matches := artifacts.Matches{"java": "/d/jdk-17_linux-x64_bin.tar.gz", "apex": "/d/apex_24.1.zip"}

	first := Build(snap, matches, "/d")
	second := Build(snap, matches, "/d")
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different plans")
	}
}

func TestBuildFourStageLayout(t *testing.T) {
	p := Build(Snapshot{ContainerID: "c1", ContainerName: "proj_xe"}, artifacts.Matches{}, "/tmp/APEX_files")
	if len(p.Stages) != 4 {
		t.Fatalf("expected 4 stages, got %d", len(p.Stages))
	}
	wantKeys := []string{"prep", "java", "ords", "apex"}
	for i, key := range wantKeys {
		if p.Stages[i].Key != key {
			t.Errorf("stage %d key = %q, want %q", i, p.Stages[i].Key, key)
		}
	}
}

// The container id wins over the name as the docker reference; the name
// only serves as the display label.
func TestBuildReferencesContainerID(t *testing.T) {
	p := Build(Snapshot{ContainerID: "c1", ContainerName: "proj_xe"}, artifacts.Matches{}, "/tmp/APEX_files")

	prep, ok := p.Stage("prep")
	if !ok {
		t.Fatal("prep stage missing")
	}
	var copyStep *Step
	for i := range prep.Steps {
		if prep.Steps[i].Title == "Copy installation artifacts" {
			copyStep = &prep.Steps[i]
		}
	}
	if copyStep == nil {
		t.Fatal("copy artifacts step missing")
	}
	found := false
	for _, command := range copyStep.Commands {
		if strings.Contains(command, "c1:") {
			found = true
		}
	}
	if !found {
		t.Errorf("copy step commands %v do not reference container id c1", copyStep.Commands)
	}
}

func TestBuildFallsBackToContainerName(t *testing.T) {
	p := Build(Snapshot{ContainerName: "proj_xe"}, artifacts.Matches{}, "/tmp/APEX_files")
	if p.Empty() {
		t.Fatal("expected a plan when only the container name is stored")
	}
	prep := p.Stages[0]
	if !strings.Contains(strings.Join(stageCommands(prep), "\n"), "docker start proj_xe") {
		t.Error("start command does not use the container name reference")
	}
}

func TestBuildDefaultAPEXURL(t *testing.T) {
	p := Build(Snapshot{ContainerID: "c1", ContainerName: "proj_xe"}, artifacts.Matches{}, "/tmp/APEX_files")

	apex, ok := p.Stage("apex")
	if !ok {
		t.Fatal("apex stage missing")
	}
	validate := apex.Steps[len(apex.Steps)-1]
	if validate.Title != "Validate APEX endpoint" {
		t.Fatalf("last apex step = %q", validate.Title)
	}
	if !strings.Contains(strings.Join(validate.Commands, "\n"), DefaultAPEXURL) {
		t.Errorf("endpoint validation commands %v do not reference %s", validate.Commands, DefaultAPEXURL)
	}
}

// Extraction commands only appear for archives actually found on disk; the
// rest of the plan must not invent them.
func TestBuildExtractionFollowsMatches(t *testing.T) {
	matches := artifacts.Matches{"apex": "/d/apex_24.1.zip"}
	p := Build(Snapshot{ContainerID: "c1"}, matches, "/d")

	prep := p.Stages[0]
	extract := prep.Steps[len(prep.Steps)-1]
	joined := strings.Join(extract.Commands, "\n")
	if !strings.Contains(joined, "unzip -o apex_24.1.zip") {
		t.Errorf("apex extraction missing from %q", joined)
	}
	if strings.Contains(joined, "tar -xzf") {
		t.Errorf("java extraction present without a matched archive: %q", joined)
	}
	if strings.Contains(joined, "-d ords") {
		t.Errorf("ords extraction present without a matched archive: %q", joined)
	}
}

func TestBuildJavaHomeUsesHint(t *testing.T) {
	matches := artifacts.Matches{"java": "/d/jdk-17_linux-x64_bin.tar.gz"}
	p := Build(Snapshot{ContainerID: "c1"}, matches, "/d")

	java, _ := p.Stage("java")
	joined := strings.Join(stageCommands(java), "\n")
	if !strings.Contains(joined, "export JAVA_HOME=/opt/oracle/tools/jdk-17") {
		t.Errorf("JAVA_HOME export missing derived hint: %q", joined)
	}
}

func TestBuildJavaHomePlaceholderWhenUnmatched(t *testing.T) {
	p := Build(Snapshot{ContainerID: "c1"}, artifacts.Matches{}, "/d")

	java, _ := p.Stage("java")
	if !strings.Contains(strings.Join(stageCommands(java), "\n"), "<jdk_folder>") {
		t.Error("unmatched runtime archive should surface as an explicit placeholder")
	}
}

func TestJDKHomeHint(t *testing.T) {
	cases := []struct {
		archive string
		want    string
	}{
		{"jdk-17_linux-x64_bin.tar.gz", "jdk-17"},
		{"jdk-21_linux-aarch64_bin.tar.gz", "jdk-21"},
		{"jdk-22.tgz", "jdk-22"},
		{"jdk-23.tar", "jdk-23"},
		{"openjdk-17-linux.zip", "openjdk-17-linux.zip"},
		{"", "<jdk_folder>"},
		{"_linux.tar.gz", "<jdk_folder>"},
	}
	for _, tc := range cases {
		if got := JDKHomeHint(tc.archive); got != tc.want {
			t.Errorf("JDKHomeHint(%q) = %q, want %q", tc.archive, got, tc.want)
		}
	}
}

func TestChecklistPlaceholders(t *testing.T) {
	lines := Checklist(Snapshot{})
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "<container_id>") {
		t.Error("checklist without a reference should show the placeholder")
	}
	if !strings.Contains(joined, DefaultAPEXURL) {
		t.Error("checklist without a URL should fall back to the default")
	}
}

func TestChecklistUsesSnapshot(t *testing.T) {
	lines := Checklist(Snapshot{ContainerID: "c1", APEXURL: "http://host:9090/ords"})
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "docker start c1") {
		t.Error("checklist should reference the stored container id")
	}
	if !strings.Contains(joined, "http://host:9090/ords") {
		t.Error("checklist should use the stored APEX url")
	}
}

func TestShellQuote(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/opt/data/.", "/opt/data/."},
		{"/opt/my data/.", "'/opt/my data/.'"},
		{"", "''"},
	}
	for _, tc := range cases {
		if got := shellQuote(tc.in); got != tc.want {
			t.Errorf("shellQuote(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
