package usecase

import (
	"time"

	"github.com/secmon-lab/petpal/pkg/agent/tool"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
)

// UseCases bundles every use case the controllers need
type UseCases struct {
	repo     interfaces.Repository
	registry *tool.Registry

	primary   interfaces.IntentParser
	fallback  interfaces.FallbackParser
	species   *model.SpeciesRegistry
	notifier  interfaces.Notifier
	stream    interfaces.TaskStream
	indexer   interfaces.DocumentIndexer
	generator interfaces.TextGenerator

	poolSize    int
	taskTimeout time.Duration

	Agent *AgentUseCase
	Task  *TaskUseCase
	Label *LabelUseCase
}

type Option func(*UseCases)

func WithIntentParser(p interfaces.IntentParser) Option {
	return func(uc *UseCases) {
		uc.primary = p
	}
}

func WithFallbackParser(p interfaces.FallbackParser) Option {
	return func(uc *UseCases) {
		uc.fallback = p
	}
}

func WithSpeciesRegistry(r *model.SpeciesRegistry) Option {
	return func(uc *UseCases) {
		uc.species = r
	}
}

func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithTaskStream enables background turns. Without a stream, Task is nil.
func WithTaskStream(s interfaces.TaskStream) Option {
	return func(uc *UseCases) {
		uc.stream = s
	}
}

func WithPoolSize(n int) Option {
	return func(uc *UseCases) {
		uc.poolSize = n
	}
}

func WithTaskTimeout(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.taskTimeout = d
	}
}

// WithLabelIndex sets where ingested labels are stored and what writes their pros and cons.
// Either may be nil.
func WithLabelIndex(indexer interfaces.DocumentIndexer, generator interfaces.TextGenerator) Option {
	return func(uc *UseCases) {
		uc.indexer = indexer
		uc.generator = generator
	}
}

func New(repo interfaces.Repository, registry *tool.Registry, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		registry: registry,
	}

	for _, opt := range opts {
		opt(uc)
	}

	var agentOpts []AgentOption
	if uc.primary != nil {
		agentOpts = append(agentOpts, WithAgentIntentParser(uc.primary))
	}
	if uc.fallback != nil {
		agentOpts = append(agentOpts, WithAgentFallbackParser(uc.fallback))
	}
	if uc.species != nil {
		agentOpts = append(agentOpts, WithAgentSpeciesRegistry(uc.species))
	}
	if uc.notifier != nil {
		agentOpts = append(agentOpts, WithAgentNotifier(uc.notifier))
	}
	uc.Agent = NewAgentUseCase(repo, registry, agentOpts...)

	if uc.stream != nil {
		uc.Task = NewTaskUseCase(uc.Agent, uc.stream, uc.poolSize, uc.taskTimeout)
	}
	uc.Label = NewLabelUseCase(uc.indexer, uc.generator)

	return uc
}
