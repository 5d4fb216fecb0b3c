package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/cli/config"
	"github.com/secmon-lab/petpal/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var speciesCfg config.Species
	var taskCfg config.Task

	var flags []cli.Flag
	flags = append(flags, speciesCfg.Flags()...)
	flags = append(flags, taskCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the species registry and task settings",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			registry, err := speciesCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "species validation failed")
			}

			source := speciesCfg.Path()
			if source == "" {
				source = "built-in"
			}
			logger.Info("Species registry validation passed",
				"source", source,
				"species_count", len(registry.Names()),
			)
			for _, name := range registry.Names() {
				logger.Info("Species validated",
					"name", name,
					"breed_examples", registry.BreedExamples(name, 3),
				)
			}

			if err := taskCfg.Validate(); err != nil {
				return goerr.Wrap(err, "task settings validation failed")
			}
			logger.Info("Task settings validation passed", "task", taskCfg)

			return nil
		},
	}
}
