package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/service/stream"
	"github.com/secmon-lab/petpal/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Task holds flags for background turns and their event streams
type Task struct {
	poolSize      int
	timeout       time.Duration
	keepAlive     time.Duration
	pollInterval  time.Duration
	ttl           time.Duration
	sweepInterval time.Duration
}

func (x *Task) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "task-pool-size",
			Usage:       "Maximum number of background turns running at once",
			Category:    "Task",
			Value:       usecase.DefaultPoolSize,
			Sources:     cli.EnvVars("PETPAL_TASK_POOL_SIZE"),
			Destination: &x.poolSize,
		},
		&cli.DurationFlag{
			Name:        "task-timeout",
			Usage:       "Deadline of a single background turn",
			Category:    "Task",
			Value:       usecase.DefaultTaskTimeout,
			Sources:     cli.EnvVars("PETPAL_TASK_TIMEOUT"),
			Destination: &x.timeout,
		},
		&cli.DurationFlag{
			Name:        "task-keepalive",
			Usage:       "Idle time before a ping frame is sent on a task stream",
			Category:    "Task",
			Value:       stream.DefaultKeepAlive,
			Sources:     cli.EnvVars("PETPAL_TASK_KEEPALIVE"),
			Destination: &x.keepAlive,
		},
		&cli.DurationFlag{
			Name:        "task-poll-interval",
			Usage:       "Interval at which a task stream polls for new events",
			Category:    "Task",
			Value:       stream.DefaultPollInterval,
			Sources:     cli.EnvVars("PETPAL_TASK_POLL_INTERVAL"),
			Destination: &x.pollInterval,
		},
		&cli.DurationFlag{
			Name:        "task-ttl",
			Usage:       "Retention of finished tasks that nobody drained",
			Category:    "Task",
			Value:       time.Hour,
			Sources:     cli.EnvVars("PETPAL_TASK_TTL"),
			Destination: &x.ttl,
		},
		&cli.DurationFlag{
			Name:        "task-sweep-interval",
			Usage:       "Interval of the expired task sweeper",
			Category:    "Task",
			Value:       5 * time.Minute,
			Sources:     cli.EnvVars("PETPAL_TASK_SWEEP_INTERVAL"),
			Destination: &x.sweepInterval,
		},
	}
}

func (x Task) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("pool_size", x.poolSize),
		slog.Duration("timeout", x.timeout),
		slog.Duration("keepalive", x.keepAlive),
		slog.Duration("poll_interval", x.pollInterval),
		slog.Duration("ttl", x.ttl),
		slog.Duration("sweep_interval", x.sweepInterval),
	)
}

// Validate rejects non-positive durations and pool sizes
func (x *Task) Validate() error {
	if x.poolSize <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "task pool size must be positive", goerr.V(FlagKey, "task-pool-size"))
	}
	durations := []struct {
		flag  string
		value time.Duration
	}{
		{"task-timeout", x.timeout},
		{"task-keepalive", x.keepAlive},
		{"task-poll-interval", x.pollInterval},
		{"task-ttl", x.ttl},
		{"task-sweep-interval", x.sweepInterval},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return goerr.Wrap(ErrInvalidDuration, "invalid task duration",
				goerr.V(FlagKey, d.flag),
				goerr.V("value", d.value.String()),
			)
		}
	}
	return nil
}

// UseCaseOptions returns the usecase options for the task pool
func (x *Task) UseCaseOptions() []usecase.Option {
	return []usecase.Option{
		usecase.WithPoolSize(x.poolSize),
		usecase.WithTaskTimeout(x.timeout),
	}
}

// FollowConfig returns the stream polling settings
func (x *Task) FollowConfig() stream.FollowConfig {
	return stream.FollowConfig{
		PollInterval: x.pollInterval,
		KeepAlive:    x.keepAlive,
	}
}

func (x *Task) TTL() time.Duration {
	return x.ttl
}

func (x *Task) SweepInterval() time.Duration {
	return x.sweepInterval
}
