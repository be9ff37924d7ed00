// Package prescription builds the envelope that publishes validated GitHub
// source repositories to the prescription pipeline.
package prescription

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
	k8syaml "sigs.k8s.io/yaml"
)

// Envelope constants.
const (
	APIVersion = "thoth-station.ninja/v1"
	Kind       = "prescription"
	Name       = "gh-source-repos"

	// ReleaseLayout formats the release field as YYYY.MM.DD.
	ReleaseLayout = "2006.01.02"
)

//go:embed schema.json
var schemaSource string

var schema = jsonschema.MustCompileString("prescription.schema.json", schemaSource)

// Prescription is the published document.
type Prescription struct {
	APIVersion string `yaml:"apiVersion" json:"apiVersion"`
	Kind       string `yaml:"kind" json:"kind"`
	Spec       Spec   `yaml:"spec" json:"spec"`
}

// Spec names the prescription and carries its units.
type Spec struct {
	Name    string `yaml:"name" json:"name"`
	Release string `yaml:"release" json:"release"`
	Units   Units  `yaml:"units" json:"units"`
}

// Units maps package names to the repository that wraps them.
type Units struct {
	Wraps map[string]string `yaml:"wraps" json:"wraps"`
}

// New wraps a package to repository mapping, stamping the release with the
// date of now.
func New(wraps map[string]string, now time.Time) *Prescription {
	if wraps == nil {
		wraps = map[string]string{}
	}
	return &Prescription{
		APIVersion: APIVersion,
		Kind:       Kind,
		Spec: Spec{
			Name:    Name,
			Release: now.Format(ReleaseLayout),
			Units:   Units{Wraps: wraps},
		},
	}
}

// Validate renders p as YAML and checks the result against the embedded
// schema.
func (p *Prescription) Validate() error {
	out, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("render prescription: %w", err)
	}
	data, err := k8syaml.YAMLToJSON(out)
	if err != nil {
		return fmt.Errorf("convert prescription: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("convert prescription: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid prescription: %w", err)
	}
	return nil
}
