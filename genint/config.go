package genint

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadParams reads run parameters from a YAML file. Fields absent from the
// file keep their defaults, so a config only needs to name what it changes.
func LoadParams(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading params: %w", err)
	}

	params := DefaultParams()
	if err := yaml.Unmarshal(data, params); err != nil {
		return nil, fmt.Errorf("parsing params: %w", err)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	return params, nil
}

// EncodeParams renders params as YAML, suitable for seeding a config file.
func EncodeParams(params *Params) ([]byte, error) {
	out, err := yaml.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding params: %w", err)
	}
	return out, nil
}
