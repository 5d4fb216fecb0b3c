package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/petpal/pkg/cli"
)

func TestRun_ValidateCommand_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "species.toml")
	content := `
[[species]]
name = "dog"
breeds = ["Shiba Inu", "Akita"]

[[species]]
name = "ferret"
`
	err := os.WriteFile(configPath, []byte(content), 0o600)
	gt.NoError(t, err).Required()

	err = cli.Run(context.Background(), []string{"petpal", "validate", "--species-config", configPath}, "test")
	gt.NoError(t, err)
}

func TestRun_ValidateCommand_BuiltIn(t *testing.T) {
	err := cli.Run(context.Background(), []string{"petpal", "validate"}, "test")
	gt.NoError(t, err)
}

func TestRun_ValidateCommand_DuplicateSpecies(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "species.toml")
	content := `
[[species]]
name = "cat"

[[species]]
name = "Cat"
`
	err := os.WriteFile(configPath, []byte(content), 0o600)
	gt.NoError(t, err).Required()

	err = cli.Run(context.Background(), []string{"petpal", "validate", "--species-config", configPath}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_ValidateCommand_MissingConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nonexistent.toml")

	err := cli.Run(context.Background(), []string{"petpal", "validate", "--species-config", configPath}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_ValidateCommand_InvalidTaskSettings(t *testing.T) {
	err := cli.Run(context.Background(), []string{"petpal", "validate", "--task-pool-size", "0"}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_InvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"petpal", "--log-level", "loud", "validate"}, "test")
	gt.Value(t, err).NotNil()
}
