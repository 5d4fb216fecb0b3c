package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Species holds the path of the species registry file
type Species struct {
	path string
}

// speciesFile is the TOML layout of the species registry
//
//	[[species]]
//	name = "dog"
//	breeds = ["Labrador Retriever", "Poodle"]
type speciesFile struct {
	Species []speciesEntry `toml:"species"`
}

type speciesEntry struct {
	Name   string   `toml:"name"`
	Breeds []string `toml:"breeds"`
}

func (x *Species) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "species-config",
			Usage:       "Path to the species registry TOML (built-in list is used when empty)",
			Category:    "Agent",
			Sources:     cli.EnvVars("PETPAL_SPECIES_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Path returns the configured file path
func (x *Species) Path() string {
	return x.path
}

// Configure loads the species registry. Without a path the built-in registry is returned.
func (x *Species) Configure() (*model.SpeciesRegistry, error) {
	if x.path == "" {
		return model.DefaultSpeciesRegistry(), nil
	}

	raw, err := os.ReadFile(x.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "species config does not exist", goerr.V(ConfigPathKey, x.path))
		}
		return nil, goerr.Wrap(err, "failed to read species config", goerr.V(ConfigPathKey, x.path))
	}

	entries, err := ParseSpecies(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load species config", goerr.V(ConfigPathKey, x.path))
	}

	return model.NewSpeciesRegistry(entries), nil
}

// ParseSpecies decodes and validates species TOML. Names must be present and
// unique (case-insensitive); breeds are optional.
func ParseSpecies(raw []byte) ([]model.Species, error) {
	var file speciesFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to decode species TOML", goerr.V("cause", err.Error()))
	}

	if len(file.Species) == 0 {
		return nil, goerr.Wrap(ErrNoSpecies, "species list is empty")
	}

	seen := make(map[string]struct{}, len(file.Species))
	entries := make([]model.Species, 0, len(file.Species))
	for i, s := range file.Species {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, goerr.Wrap(ErrMissingName, "species name is empty", goerr.V(SpeciesIndexKey, i))
		}

		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return nil, goerr.Wrap(ErrDuplicateSpecies, "species is defined twice", goerr.V(SpeciesKey, name))
		}
		seen[key] = struct{}{}

		var breeds []string
		for _, b := range s.Breeds {
			if b = strings.TrimSpace(b); b != "" {
				breeds = append(breeds, b)
			}
		}
		entries = append(entries, model.Species{Name: key, Breeds: breeds})
	}

	return entries, nil
}
