package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/cli/config"
	httpctrl "github.com/secmon-lab/petpal/pkg/controller/http"
	"github.com/secmon-lab/petpal/pkg/service/worker"
	"github.com/secmon-lab/petpal/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var secureCookie bool
	var agentCfg agentConfig
	var sentryCfg config.Sentry

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("PETPAL_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "secure-cookie",
			Usage:       "Mark the session cookie Secure (enable behind TLS)",
			Sources:     cli.EnvVars("PETPAL_SECURE_COOKIE"),
			Destination: &secureCookie,
		},
	}
	flags = append(flags, agentCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return goerr.Wrap(err, "failed to configure sentry")
			}
			defer flush()

			rt, err := agentCfg.build(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			reaper := worker.NewTaskReaperWorker(rt.store, agentCfg.task.SweepInterval(), agentCfg.task.TTL())
			if err := reaper.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start task reaper worker")
			}

			httpHandler := httpctrl.New(rt.uc,
				httpctrl.WithTaskReader(rt.store),
				httpctrl.WithFollowConfig(agentCfg.task.FollowConfig()),
				httpctrl.WithSecureCookie(secureCookie),
			)
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"repository", agentCfg.repo,
					"task", agentCfg.task,
					"sentry", sentryCfg,
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				reaper.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				reaper.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				// Open SSE streams end once their tasks drain or the client disconnects
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
