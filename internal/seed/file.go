// Package seed loads YAML fixtures and creates them through the services.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"launchthat.app/portal/internal/model"
)

// File is the root of a seed document.
type File struct {
	Owner         Owner          `yaml:"owner"`
	Organizations []Organization `yaml:"organizations"`
}

// Owner is synced as a user and owns every seeded organization.
type Owner struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type Organization struct {
	Name      string     `yaml:"name"`
	Slug      string     `yaml:"slug,omitempty"`
	Tags      []Tag      `yaml:"tags,omitempty"`
	Scenarios []Scenario `yaml:"scenarios,omitempty"`
}

type Tag struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color,omitempty"`
}

type Scenario struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Type        model.ScenarioType `yaml:"type,omitempty"`
	Slug        string             `yaml:"slug,omitempty"`
	TriggerKey  string             `yaml:"trigger_key,omitempty"`
	Schedule    string             `yaml:"schedule,omitempty"`
	Publish     bool               `yaml:"publish,omitempty"`
	Enabled     bool               `yaml:"enabled,omitempty"`
	Nodes       []Node             `yaml:"nodes,omitempty"`
	Edges       []Edge             `yaml:"edges,omitempty"`
}

// Node.Key names the node within its scenario so edges can refer to it.
type Node struct {
	Key    string         `yaml:"key"`
	Type   model.NodeType `yaml:"type"`
	Label  string         `yaml:"label,omitempty"`
	Config map[string]any `yaml:"config,omitempty"`
	X      float64        `yaml:"x,omitempty"`
	Y      float64        `yaml:"y,omitempty"`
}

type Edge struct {
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Label string `yaml:"label,omitempty"`
}

// LoadFile reads and validates a seed file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing seed yaml: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return &f, nil
}

func (f *File) Validate() error {
	var errs []error
	if f.Owner.Email == "" {
		errs = append(errs, errors.New("owner.email is required"))
	}
	for i, org := range f.Organizations {
		if org.Name == "" {
			errs = append(errs, fmt.Errorf("organizations[%d]: name is required", i))
		}
		for j, sc := range org.Scenarios {
			if err := sc.validate(); err != nil {
				errs = append(errs, fmt.Errorf("organizations[%d].scenarios[%d]: %w", i, j, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (s Scenario) validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	keys := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.Key == "" {
			return errors.New("every node needs a key")
		}
		if keys[n.Key] {
			return fmt.Errorf("duplicate node key %q", n.Key)
		}
		keys[n.Key] = true
	}
	for _, e := range s.Edges {
		if !keys[e.From] || !keys[e.To] {
			return fmt.Errorf("edge %s -> %s references an unknown node", e.From, e.To)
		}
	}
	return nil
}
