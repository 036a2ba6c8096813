// Package config loads migration configuration files and builds the
// workflow registry the engine runs against.
//
// The configuration is declarative YAML: a project name plus named
// workflows, each wiring an origin, a destination, an authoring
// policy and a transformation pipeline.
package config

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/Khankindle/copybara/pkg/status"
)

// File is the root of a migration configuration file.
type File struct {
	Project   string              `yaml:"project"`
	Workflows map[string]Workflow `yaml:"workflows"`
}

// Workflow declares one migration pipeline.
type Workflow struct {
	Origin               Endpoint         `yaml:"origin"`
	Destination          Endpoint         `yaml:"destination"`
	Authoring            Authoring        `yaml:"authoring"`
	Transformations      []Transformation `yaml:"transformations"`
	ExcludeInOrigin      *Glob            `yaml:"exclude_in_origin"`
	ExcludeInDestination *Glob            `yaml:"exclude_in_destination"`
	Mode                 string           `yaml:"mode"`
	ReversibleCheck      bool             `yaml:"reversible_check"`
	AskForConfirmation   bool             `yaml:"ask_for_confirmation"`
}

// Endpoint declares an origin or destination.
type Endpoint struct {
	// Type is "git" or "folder"
	Type string `yaml:"type"`

	// git settings
	URL      string `yaml:"url"`
	Ref      string `yaml:"ref"`
	RepoType string `yaml:"repo_type"`
	FetchRef string `yaml:"fetch_ref"`
	PushRef  string `yaml:"push_ref"`

	// folder settings: Path for origins, Folder for destinations
	Path   string `yaml:"path"`
	Folder string `yaml:"folder"`
}

// Authoring declares the author mapping policy.
type Authoring struct {
	Mode      string   `yaml:"mode"`
	Default   string   `yaml:"default"`
	Whitelist []string `yaml:"whitelist"`
}

// Transformation declares one step of the pipeline. Exactly one field
// may be set.
type Transformation struct {
	Move *MoveSpec `yaml:"move"`
}

// MoveSpec declares a move transformation.
type MoveSpec struct {
	Before string `yaml:"before"`
	After  string `yaml:"after"`
}

// Glob declares an include/exclude matcher.
type Glob struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// Load reads and parses a configuration file. Unknown keys are
// configuration errors, not silent typos.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, status.Configf("cannot read configuration %s", path).Wrap(err)
	}
	return Parse(raw, path)
}

// Parse parses configuration bytes; name appears in error messages.
func Parse(raw []byte, name string) (*File, error) {
	var f File
	if err := yaml.UnmarshalStrict(raw, &f); err != nil {
		return nil, status.Configf("cannot parse configuration %s", name).Wrap(err)
	}
	if f.Project == "" {
		return nil, status.Configf("%s: empty name for the project is not allowed", name)
	}
	if len(f.Workflows) == 0 {
		return nil, status.Configf("%s: no workflows defined", name)
	}
	return &f, nil
}
