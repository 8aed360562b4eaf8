package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/urfave/cli"

	"github.com/blankon/repackage-go/internal/cli/entity"
	"github.com/blankon/repackage-go/internal/cli/repository"
	"github.com/blankon/repackage-go/internal/cli/usecase"
	"github.com/blankon/repackage-go/internal/cli/view"
	"github.com/blankon/repackage-go/internal/config"
	"github.com/blankon/repackage-go/internal/logging"
	"github.com/blankon/repackage-go/internal/notification"
	"github.com/blankon/repackage-go/internal/storage"
)

// session is everything one command invocation works with.
type session struct {
	config   config.ClientConfig
	logger   *logging.Logger
	terminal *view.Terminal
	form     view.Form
	uc       *usecase.RepackageUsecase
	db       *storage.DB
	guard    *leaveGuard
}

func openSession(c *cli.Context) (*session, error) {
	logging.SetVerbose(c.GlobalBool("verbose"))
	logger := logging.NewDefaultCLILogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if server := c.GlobalString("server"); server != "" {
		cfg.Server = server
	}
	logger.Debug().
		Str("server", cfg.Server).
		Str("workdir", cfg.Workdir).
		Dur("timeout", cfg.Timeout()).
		Int("retries", cfg.Retries()).
		Msg("config loaded")

	runs, db, err := storage.OpenRunStore(cfg.Workdir, cfg.MaxHistory)
	if err != nil {
		return nil, fmt.Errorf("open run history: %w", err)
	}

	terminal := view.NewTerminal(os.Stdout)
	terminal.ShowLog = c.GlobalBool("verbose")
	terminal.DownloadHint = "Run `" + app.Name + " download %s` to fetch it."

	api := repository.NewAPIClient(cfg.Server, repository.APIClientOptions{
		Timeout:  cfg.Timeout(),
		RetryMax: cfg.Retries(),
		Logger:   logger.Component("api"),
	})

	uc := usecase.NewRepackageUsecase(usecase.Options{
		API:         api,
		View:        terminal,
		Runs:        runs,
		Notifier:    notification.NewWebhookNotifier(cfg.NotificationWebhook, logger.Component("notification")),
		Releases:    repository.GitHubReleases{},
		Updater:     repository.BinaryUpdater{},
		Logger:      logger,
		LogDir:      cfg.LogDir(),
		DownloadDir: cfg.DownloadDir,
		Execution:   entity.Execution(cfg.Execution),
	})

	form := view.Form{Validator: uc.Validator}
	return &session{
		config:   cfg,
		logger:   logger,
		terminal: terminal,
		form:     form,
		uc:       uc,
		db:       db,
		guard: &leaveGuard{
			inFlight: func() bool { return !terminal.SubmitEnabled() },
			confirm:  form.ConfirmLeave,
		},
	}, nil
}

func (s *session) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// interruptContext cancels on SIGINT/SIGTERM. While a job is in flight the
// user is asked first, since leaving does not stop the server-side job.
func (s *session) interruptContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		for {
			select {
			case <-ctx.Done():
				return
			case <-signals:
				if !s.guard.shouldLeave() {
					continue
				}
				cancel()
				return
			}
		}
	}()
	return ctx, cancel
}

// applyExecution switches execution when the flag was given.
func (s *session) applyExecution(c *cli.Context) error {
	if !c.IsSet("execution") {
		return nil
	}
	execution := entity.Execution(c.String("execution"))
	if !execution.Valid() {
		return fmt.Errorf("unknown execution %q, use one of %v", execution, entity.Executions)
	}
	return s.uc.SwitchExecution(execution)
}

// leaveGuard asks before an interrupt abandons an in-flight job. Only one
// prompt may read stdin at a time, so the main loop calls settle before it
// prompts again.
type leaveGuard struct {
	mu       sync.Mutex
	inFlight func() bool
	confirm  func() bool
}

func (g *leaveGuard) shouldLeave() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.inFlight() {
		return true
	}
	return g.confirm()
}

// settle waits for an open leave prompt to be answered.
func (g *leaveGuard) settle() {
	g.mu.Lock()
	g.mu.Unlock()
}
