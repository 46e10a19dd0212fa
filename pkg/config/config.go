// Package config loads the database access credentials from the YAML file
// kept in the working folder.
package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file created inside the working folder.
const FileName = "config.yaml"

// defaultTemplate seeds a brand-new configuration file. The operator is
// expected to edit it before the credentials are used.
const defaultTemplate = `User: 'your_user'
Password: 'your_password'
Host: 'your_host'
Port: 'your_port'
`

// templateKeys are the keys the default template defines; anything else in
// the file is reported so the template can be kept in sync.
var templateKeys = map[string]bool{
	"User":     true,
	"Password": true,
	"Host":     true,
	"Port":     true,
}

// Access holds the database connection credentials.
type Access struct {
	User     string `yaml:"User"`
	Password string `yaml:"Password"`
	Host     string `yaml:"Host"`
	Port     string `yaml:"Port"`
}

// File is the result of loading the configuration.
type File struct {
	Path    string
	Access  Access
	Created bool     // the template was just written; the operator must edit it
	Extra   []string // keys present in the file but not in the template
}

// Load reads the configuration at path, writing the default template first
// when the file does not exist yet.
func Load(path string) (*File, error) {
	created := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(defaultTemplate), 0o644); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		created = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var access Access
	if err := yaml.Unmarshal(data, &access); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// A second pass over the raw keys catches additions the template does
	// not know about.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	var extra []string
	for key := range raw {
		if !templateKeys[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)

	return &File{Path: path, Access: access, Created: created, Extra: extra}, nil
}
