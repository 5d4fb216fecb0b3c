package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/agent/tool/core"
	"github.com/secmon-lab/petpal/pkg/cli/config"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/service/foodlabel"
	"github.com/secmon-lab/petpal/pkg/service/parser"
	"github.com/secmon-lab/petpal/pkg/service/stream"
	"github.com/secmon-lab/petpal/pkg/usecase"
	"github.com/secmon-lab/petpal/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// agentConfig groups the settings every command running the agent needs
type agentConfig struct {
	repo    config.Repository
	gemini  config.Gemini
	species config.Species
	vector  config.VectorStore
	slack   config.Slack
	task    config.Task
}

func (x *agentConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.repo.Flags()...)
	flags = append(flags, x.gemini.Flags()...)
	flags = append(flags, x.species.Flags()...)
	flags = append(flags, x.vector.Flags()...)
	flags = append(flags, x.slack.Flags()...)
	flags = append(flags, x.task.Flags()...)
	return flags
}

// agentRuntime is the wired agent. Close releases the repository.
type agentRuntime struct {
	repo   interfaces.Repository
	store  *stream.Store
	labels *foodlabel.Store
	uc     *usecase.UseCases
}

func (r *agentRuntime) Close() {
	if r.uc != nil && r.uc.Task != nil {
		r.uc.Task.Wait()
	}
	if err := r.repo.Close(); err != nil {
		logging.Default().Error("failed to close repository", "error", err.Error())
	}
}

// build wires repository, LLM, retrieval, notifier and task stream into the use cases
func (x *agentConfig) build(ctx context.Context) (*agentRuntime, error) {
	if err := x.task.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid task configuration")
	}

	species, err := x.species.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load species registry")
	}

	llmClient, err := x.gemini.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure LLM")
	}

	repo, err := x.repo.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize repository")
	}
	rt := &agentRuntime{repo: repo, store: stream.New()}

	ucOpts := []usecase.Option{
		usecase.WithSpeciesRegistry(species),
		usecase.WithFallbackParser(parser.NewRule()),
		usecase.WithTaskStream(rt.store),
	}
	ucOpts = append(ucOpts, x.task.UseCaseOptions()...)

	var searcher interfaces.DocumentSearcher
	var generator interfaces.TextGenerator
	if llmClient != nil {
		llmParser, err := parser.NewLLM(llmClient)
		if err != nil {
			rt.Close()
			return nil, goerr.Wrap(err, "failed to create LLM intent parser")
		}
		ucOpts = append(ucOpts, usecase.WithIntentParser(llmParser))

		gen, err := foodlabel.NewGenerator(llmClient)
		if err != nil {
			rt.Close()
			return nil, goerr.Wrap(err, "failed to create food label generator")
		}
		generator = gen

		labels, err := x.vector.Configure(llmClient)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.labels = labels
		searcher = labels
		ucOpts = append(ucOpts, usecase.WithLabelIndex(labels, gen))

		logging.Default().Info("LLM features enabled", "gemini", x.gemini, "indexed_labels", labels.Count())
	} else {
		logging.Default().Warn("Gemini is not configured, intents are parsed by rules and food questions are unavailable")
	}

	notifier, err := x.slack.Configure()
	if err != nil {
		rt.Close()
		return nil, goerr.Wrap(err, "failed to configure slack notifier")
	}
	if notifier != nil {
		ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
		logging.Default().Info("Slack failure notifications enabled", "slack", x.slack)
	}

	registry, err := core.NewRegistry(repo, searcher, generator)
	if err != nil {
		rt.Close()
		return nil, goerr.Wrap(err, "failed to build intent registry")
	}

	rt.uc = usecase.New(repo, registry, ucOpts...)
	return rt, nil
}
