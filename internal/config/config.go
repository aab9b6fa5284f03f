// YAML run configuration with CUE schema validation
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Constellation defines a group of satellites sharing an ID prefix.
// IDs expand to prefix+index, starting at 1 (SAT1, SAT2, ...).
type Constellation struct {
	Name   string `yaml:"name"`
	Prefix string `yaml:"prefix"`
	Count  int    `yaml:"count"`
}

// Profile controls synthetic latency generation for one metric kind:
// per-tick emission probability and the uniform duration range in ms.
type Profile struct {
	Probability float64 `yaml:"probability"`
	MinMS       float64 `yaml:"min_ms"`
	MaxMS       float64 `yaml:"max_ms"`
}

// Chaos configures deliberate emission of malformed samples, exercising the
// collector's drop path during live runs.
type Chaos struct {
	InvalidRate float64 `yaml:"invalid_rate"`
}

// RunConfig is the root configuration for one validation run.
type RunConfig struct {
	RunName        string             `yaml:"run_name"`
	Constellations []Constellation    `yaml:"constellations"`
	Profiles       map[string]Profile `yaml:"profiles"`
	Chaos          Chaos              `yaml:"chaos"`
	CSVPath        string             `yaml:"csv_path"`
}

// SatelliteIDs expands all constellations into concrete satellite IDs.
func (c *RunConfig) SatelliteIDs() []string {
	var ids []string
	for _, con := range c.Constellations {
		prefix := con.Prefix
		if prefix == "" {
			prefix = "SAT"
		}
		for i := 1; i <= con.Count; i++ {
			ids = append(ids, fmt.Sprintf("%s%d", prefix, i))
		}
	}
	return ids
}

// Load validates the YAML file against the CUE schema, then unmarshals it.
func Load(configPath, cueSchemaPath string) (*RunConfig, error) {
	if err := ValidateWithCUE(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
