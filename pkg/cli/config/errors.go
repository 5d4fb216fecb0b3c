package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound   = goerr.New("configuration file not found")
	ErrInvalidConfig    = goerr.New("invalid configuration")
	ErrMissingName      = goerr.New("name is required")
	ErrDuplicateSpecies = goerr.New("duplicate species")
	ErrNoSpecies        = goerr.New("at least one species is required")
	ErrInvalidDuration  = goerr.New("duration must be positive")
)

// Context keys for error values
const (
	ConfigPathKey   = "config_path"
	SpeciesKey      = "species"
	SpeciesIndexKey = "species_index"
	FlagKey         = "flag"
)
