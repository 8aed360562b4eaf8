package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/urfave/cli"
	"golang.org/x/term"

	"github.com/blankon/repackage-go/internal/cli/entity"
	"github.com/blankon/repackage-go/internal/cli/usecase"
	"github.com/blankon/repackage-go/internal/cli/view"
	"github.com/blankon/repackage-go/internal/config"
	"github.com/blankon/repackage-go/internal/logging"
	"github.com/blankon/repackage-go/pkg/systemutil"
)

var (
	app     *cli.App
	version string

	serverAddress string
	downloadDir   string
	execution     string
)

var executionFlag = cli.StringFlag{
	Name:  "execution, e",
	Usage: "Execution environment: local, docker or new-docker",
}

var downloadFlag = cli.BoolFlag{
	Name:  "download, d",
	Usage: "Download the first generated file when the job succeeds",
}

func main() {
	app = cli.NewApp()
	app.Name = "repackage-cli"
	app.Usage = "Repackage Dify plugins into offline .difypkg files"
	app.Author = "BlankOn Developer"
	app.Email = "blankon-dev@googlegroups.com"
	app.Version = version
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "server",
			Usage: "Override the configured server address",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Print debug logs and the progress log",
		},
	}
	app.Action = runInteractiveCommand

	app.Commands = []cli.Command{
		{
			Name:  "config",
			Usage: "Configure repackage-cli",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:        "server",
					Destination: &serverAddress,
					Usage:       "Repackaging server address",
				},
				cli.StringFlag{
					Name:        "download-dir",
					Destination: &downloadDir,
					Usage:       "Where downloaded files are saved",
				},
				cli.StringFlag{
					Name:        "execution",
					Destination: &execution,
					Usage:       "Default execution environment",
				},
			},
			Action: func(c *cli.Context) (err error) {
				if len(serverAddress) < 1 {
					msg := "Server address should not be empty. Example: "
					msg += "repackage-cli config --server http://localhost:8080"
					return errors.New(msg)
				}
				configPath, err := config.Path()
				if err != nil {
					return err
				}
				cfg, loadErr := config.LoadConfigFrom(configPath)
				if loadErr != nil && loadErr != config.ErrNotConfigured {
					logging.NewDefaultCLILogger().Warn().Err(loadErr).Msg("existing config ignored")
					cfg = config.ClientConfig{}
				}
				cfg.Server = serverAddress
				if downloadDir != "" {
					cfg.DownloadDir = downloadDir
				}
				if execution != "" {
					cfg.Execution = execution
				}
				err = config.SaveConfig(configPath, cfg)
				if err != nil {
					return err
				}
				fmt.Println("repackage-cli is successfully configured. Happy hacking!")
				return nil
			},
		},
		{
			Name:  "status",
			Usage: "Check the repackaging server",
			Action: withSession(func(c *cli.Context, s *session) error {
				status, err := s.uc.ServerStatus(context.Background())
				if err != nil {
					return err
				}
				fmt.Printf("Server %s is %s (version %s)\n", s.config.Server, status.Status, status.Version)
				return nil
			}),
		},
		{
			Name:  "capabilities",
			Usage: "Show what the server environment supports",
			Action: withSession(func(c *cli.Context, s *session) error {
				result := s.uc.Start(context.Background())
				if result.State == usecase.GateDegraded {
					return errors.New("environment detection failed")
				}
				for _, option := range result.Options {
					fmt.Printf("  %-8s %s\n", option.Mode, view.ModeLabel(option))
				}
				fmt.Println("Default mode:", result.Mode)
				return nil
			}),
		},
		{
			Name:      "local",
			Usage:     "Upload a local .difypkg and repackage it",
			ArgsUsage: "FILE",
			Flags:     []cli.Flag{executionFlag, downloadFlag},
			Action: withSession(func(c *cli.Context, s *session) error {
				if c.NArg() != 1 {
					return errors.New("usage: repackage-cli local FILE")
				}
				return runOnce(c, s, entity.ModeLocal, func(ctx context.Context) error {
					if err := s.uc.UploadFile(ctx, c.Args().First()); err != nil {
						return err
					}
					view.PrintUploaded(os.Stdout, s.uc.State.Upload)
					return nil
				})
			}),
		},
		{
			Name:      "market",
			Usage:     "Repackage a plugin from the Dify marketplace",
			ArgsUsage: "AUTHOR NAME VERSION",
			Flags:     []cli.Flag{executionFlag, downloadFlag},
			Action: withSession(func(c *cli.Context, s *session) error {
				if c.NArg() != 3 {
					return errors.New("usage: repackage-cli market AUTHOR NAME VERSION")
				}
				return runOnce(c, s, entity.ModeMarket, func(ctx context.Context) error {
					s.uc.State.Market = entity.MarketFields{
						Author:  c.Args().Get(0),
						Name:    c.Args().Get(1),
						Version: c.Args().Get(2),
					}
					return nil
				})
			}),
		},
		{
			Name:      "github",
			Usage:     "Repackage a plugin from a GitHub release asset",
			ArgsUsage: "REPO RELEASE ASSET",
			Flags:     []cli.Flag{executionFlag, downloadFlag},
			Action: withSession(func(c *cli.Context, s *session) error {
				if c.NArg() != 3 {
					return errors.New("usage: repackage-cli github OWNER/REPO RELEASE ASSET")
				}
				return runOnce(c, s, entity.ModeGithub, func(ctx context.Context) error {
					s.uc.State.Github = entity.GithubFields{
						Repository: c.Args().Get(0),
						Release:    c.Args().Get(1),
						Asset:      c.Args().Get(2),
					}
					return nil
				})
			}),
		},
		{
			Name:   "interactive",
			Usage:  "Fill the repackaging form interactively (default)",
			Action: runInteractiveCommand,
		},
		{
			Name:      "download",
			Usage:     "Download a generated file, by default the latest one",
			ArgsUsage: "[FILE]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "dir",
					Usage: "Target directory, defaults to the configured download_dir",
				},
			},
			Action: withSession(func(c *cli.Context, s *session) error {
				ctx, cancel := s.interruptContext()
				defer cancel()
				path, err := s.uc.Download(ctx, c.Args().First(), c.String("dir"))
				if err != nil {
					return err
				}
				fmt.Println("Saved to " + path)
				return nil
			}),
		},
		{
			Name:  "history",
			Usage: "List past runs",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "limit, n",
					Value: 10,
					Usage: "Number of runs to show",
				},
			},
			Action: withSession(func(c *cli.Context, s *session) error {
				runs, err := s.uc.History(c.Int("limit"))
				if err != nil {
					return err
				}
				view.PrintHistory(os.Stdout, runs)
				return nil
			}),
		},
		{
			Name:      "log",
			Usage:     "Print the progress log of a run, by default the latest one",
			ArgsUsage: "[RUN_ID]",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "follow, f",
					Usage: "Keep printing new lines",
				},
			},
			Action: withSession(func(c *cli.Context, s *session) error {
				path, err := s.uc.RunLogPath(c.Args().First())
				if err != nil {
					return err
				}
				ctx, cancel := s.interruptContext()
				defer cancel()
				err = systemutil.StreamLog(ctx, path, os.Stdout, c.Bool("follow"))
				if os.IsNotExist(err) {
					return errors.New("Run log is not found: " + path)
				}
				return err
			}),
		},
		{
			Name:  "update",
			Usage: "Update the repackage-cli tool",
			Action: withSession(func(c *cli.Context, s *session) error {
				s.logger.Info().Msg("self-updating")
				tag, err := s.uc.SelfUpdate(context.Background(), runtime.GOOS, runtime.GOARCH)
				if err != nil {
					return err
				}
				s.logger.Info().Str("tag", strings.TrimSpace(tag)).Msg("updated")
				return nil
			}),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		logging.NewDefaultCLILogger().Error().Err(err).Msg(app.Name + " failed")
		os.Exit(1)
	}
}

// withSession opens the configured session around a command and turns a
// panic into a reported error.
func withSession(fn func(c *cli.Context, s *session) error) cli.ActionFunc {
	return func(c *cli.Context) (err error) {
		s, err := openSession(c)
		if err != nil {
			return err
		}
		defer s.Close()
		defer s.uc.Recover(&err)
		return fn(c, s)
	}
}

// runOnce drives one non-interactive job: gate, mode, execution, fill, submit.
func runOnce(c *cli.Context, s *session, mode entity.Mode, fill func(ctx context.Context) error) error {
	ctx, cancel := s.interruptContext()
	defer cancel()

	s.uc.Start(ctx)
	if err := s.uc.SwitchMode(mode); err != nil {
		return err
	}
	if err := s.applyExecution(c); err != nil {
		return err
	}
	if err := fill(ctx); err != nil {
		return err
	}

	result, runID, err := s.uc.Submit(ctx)
	s.guard.settle()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		if errors.Is(err, usecase.ErrValidation) {
			return validationError(s.uc.State)
		}
		return err
	}
	s.logger.Info().Str("run_id", runID).Msg("run finished")
	if !result.Success {
		return errors.New("Repackaging failed.")
	}

	if c.Bool("download") && s.uc.State.DownloadTarget != "" {
		path, err := s.uc.Download(ctx, "", "")
		if err != nil {
			return err
		}
		fmt.Println("Saved to " + path)
	}
	return nil
}

// validationError lists every invalid field of the current mode.
func validationError(state *entity.FormState) error {
	var messages []string
	for _, field := range modeFields[state.Mode] {
		if a, ok := state.Annotations[field.field]; ok && !a.Valid {
			messages = append(messages, field.label+": "+a.Message)
		}
	}
	if len(messages) == 0 {
		return usecase.ErrValidation
	}
	return fmt.Errorf("%w: %s", usecase.ErrValidation, strings.Join(messages, "; "))
}

func runInteractiveCommand(c *cli.Context) (err error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("interactive mode needs a terminal; use the local, market or github commands instead")
	}
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()
	defer s.uc.Recover(&err)
	return runInteractive(c, s)
}
