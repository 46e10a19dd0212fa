package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadCreatesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Created {
		t.Error("expected Created=true on first load")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("template file not written: %v", err)
	}
	if cfg.Access.User != "your_user" || cfg.Access.Port != "your_port" {
		t.Errorf("template defaults not loaded: %+v", cfg.Access)
	}
	if len(cfg.Extra) != 0 {
		t.Errorf("template should have no extra keys: %v", cfg.Extra)
	}
}

func TestLoadExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := "User: 'scott'\nPassword: 'tiger'\nHost: 'localhost'\nPort: '1522'\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Created {
		t.Error("expected Created=false for an existing file")
	}
	want := Access{User: "scott", Password: "tiger", Host: "localhost", Port: "1522"}
	if cfg.Access != want {
		t.Errorf("access = %+v, want %+v", cfg.Access, want)
	}
}

func TestLoadReportsExtraKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := "User: 'scott'\nPassword: 'tiger'\nHost: 'localhost'\nPort: '1522'\nService: 'XEPDB1'\nDebug: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(cfg.Extra, []string{"Debug", "Service"}) {
		t.Errorf("extra keys = %v, want [Debug Service]", cfg.Extra)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("User: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
