// CUE schema validation for run configuration
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// ValidateWithCUE checks a YAML run configuration against a CUE schema file.
func ValidateWithCUE(configFile, cueFile string) error {
	yamlBytes, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("cannot read YAML config: %w", err)
	}
	schemaBytes, err := os.ReadFile(cueFile)
	if err != nil {
		return fmt.Errorf("cannot read CUE schema: %w", err)
	}

	cctx := cuecontext.New()
	schema := cctx.CompileBytes(schemaBytes, cue.Filename(cueFile))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile CUE schema: %w", err)
	}

	file, err := cueyaml.Extract(configFile, yamlBytes)
	if err != nil {
		return fmt.Errorf("parse YAML config: %w", err)
	}
	configVal := cctx.BuildFile(file)
	if err := configVal.Err(); err != nil {
		return fmt.Errorf("build YAML config: %w", err)
	}

	unified := schema.Unify(configVal)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
