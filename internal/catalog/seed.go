package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// LoadSeed reads and validates a catalog seed file.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(path, data)
}

// ParseSeed validates seed YAML against the embedded schema and decodes it.
// The filename is used only for error positions.
func ParseSeed(filename string, data []byte) (Seed, error) {
	if err := validateSeed(filename, data); err != nil {
		return Seed{}, err
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("decode seed %s: %w", filename, err)
	}
	return seed, nil
}

// validateSeed unifies the YAML document with the catalog schema and
// requires every value to be concrete. Errors carry file positions from
// the CUE evaluator.
func validateSeed(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("catalog/schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("parse seed %s: %w", filename, err)
	}

	value := ctx.BuildFile(file)
	if err := value.Err(); err != nil {
		return fmt.Errorf("build seed %s: %w", filename, err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid seed %s:\n%s", filename, cueerrors.Details(err, nil))
	}

	return nil
}
