package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmccormack00/risk-assessments/pkg/cli/config"
	httpctrl "github.com/paulmccormack00/risk-assessments/pkg/controller/http"
	"github.com/paulmccormack00/risk-assessments/pkg/domain/model"
	"github.com/paulmccormack00/risk-assessments/pkg/service/autosave"
	"github.com/paulmccormack00/risk-assessments/pkg/usecase"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/logging"
	"github.com/paulmccormack00/risk-assessments/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var autosaveDelay time.Duration
	var seedCfg seedFlags
	var repoCfg config.Repository
	var slackCfg config.Slack
	var actorCfg config.Actor

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("COMPLIO_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "autosave-delay",
			Usage:       "Quiet period before debounced answer saves are written",
			Value:       autosave.DefaultDelay,
			Sources:     cli.EnvVars("COMPLIO_AUTOSAVE_DELAY"),
			Destination: &autosaveDelay,
		},
	}
	flags = append(flags, seedCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, actorCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			seed, err := seedCfg.load()
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration files")
			}

			actor, err := actorCfg.Configure()
			if err != nil {
				return err
			}
			if actorCfg.IsNoAuthMode() {
				logger.Warn("Running in no-auth mode (development only)", "actor", actorCfg)
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, "repository", repo)

			var ucOpts []usecase.Option
			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return err
			}
			if slackSvc != nil {
				ucOpts = append(ucOpts, usecase.WithSlack(slackSvc))
				logger.Info("Slack notifications enabled", "slack", slackCfg)
			}

			uc := usecase.New(repo, ucOpts...)
			if err := seed.apply(ctx, uc); err != nil {
				return err
			}

			saver := autosave.New(func(ctx context.Context, id string, responses model.Responses) error {
				_, err := uc.Assessment.SaveResponses(ctx, id, responses)
				return err
			}, autosave.WithDelay(autosaveDelay))

			handler := httpctrl.New(uc,
				httpctrl.WithAutosave(saver),
				httpctrl.WithActor(actor),
			)
			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				_ = saver.Close()
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				// Pending answers are written before the repository closes
				if err := saver.Close(); err != nil {
					return goerr.Wrap(err, "failed to flush pending saves")
				}

				logger.Info("Server shutdown completed")
				return nil
			}
		},
	}
}
