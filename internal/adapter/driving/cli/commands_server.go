package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/ericfisherdev/qbique/internal/application"
	"github.com/ericfisherdev/qbique/internal/domain/model"
)

func (a *App) healthCommand() *Command {
	return &Command{
		Name:    "health",
		Summary: "Check server health",
		Flags:   a.flags("health", nil),
		Run: a.action(func(ctx context.Context, f *Formatter, _ []string) error {
			h, err := a.Server.Health(ctx, a.callOptions())
			if err != nil {
				return err
			}
			return f.Render(h, func() Table {
				return KeyValues(
					"status", h.Status,
					"version", h.Version,
					"environment", h.Environment,
					"api_prefix", h.APIPrefix,
					"message", h.Message,
				)
			})
		}),
	}
}

func (a *App) versionCommand() *Command {
	return &Command{
		Name:    "version",
		Summary: "Show CLI and server version information",
		Flags:   a.flags("version", nil),
		Run: a.action(func(ctx context.Context, f *Formatter, _ []string) error {
			v := a.Server.Version(ctx, a.Version, a.callOptions())
			return f.Render(v, func() Table {
				return KeyValues(
					"cli_version", v.CLIVersion,
					"server_version", v.ServerVersion,
					"server_description", v.ServerDescription,
				)
			})
		}),
	}
}

func (a *App) jobsCommand() *Command {
	var (
		interval time.Duration
		timeout  time.Duration
		engine   string
	)
	return &Command{
		Name:    "jobs",
		Summary: "Follow remote jobs",
		Subcommands: []*Command{
			{
				Name:    "wait",
				Summary: "Wait for a job to finish",
				Usage:   fmt.Sprintf("qbique jobs wait <%s> <id> [flags]", strings.Join(application.JobKinds(), "|")),
				Examples: []string{
					"qbique jobs wait backtest bt_123 --timeout 10m",
					"qbique jobs wait optimization opt_42 --engine quantum",
				},
				Flags: a.flags("wait", func(fs *pflag.FlagSet) {
					fs.DurationVar(&interval, "interval", 0, "fixed polling interval (default: adaptive)")
					fs.DurationVar(&timeout, "timeout", 5*time.Minute, "give up after this long")
					fs.StringVar(&engine, "engine", "classical", "engine the job runs on")
				}),
				Run: a.action(func(ctx context.Context, f *Formatter, args []string) error {
					if err := requireArgs(args, 2, "qbique jobs wait <kind> <id>"); err != nil {
						return err
					}
					if access := a.Plugins.CheckEngine(engine); !access.Allowed {
						f.Info("%s", access.Message)
						return &ExitError{Code: 1}
					}
					return a.runJobsWait(ctx, f, args[0], args[1], application.WaitOptions{
						Interval: interval,
						Timeout:  timeout,
						Call:     a.callOptions(),
					})
				}),
			},
		},
	}
}

func (a *App) runJobsWait(ctx context.Context, f *Formatter, kind, id string, opts application.WaitOptions) error {
	path, err := application.JobStatusPath(kind, id)
	if err != nil {
		return err
	}

	opts.OnProgress = func(s model.JobStatus) {
		if s.Progress != nil {
			f.Info("%s %s: %s (%.0f%%)", kind, id, s.Status, *s.Progress)
			return
		}
		f.Info("%s %s: %s", kind, id, s.Status)
	}

	status, err := a.Jobs.Wait(ctx, path, opts)
	if err != nil {
		return err
	}
	return f.Render(status, func() Table {
		progress := ""
		if status.Progress != nil {
			progress = fmt.Sprintf("%.0f%%", *status.Progress)
		}
		return KeyValues("job_id", status.JobID, "status", string(status.Status), "progress", progress, "message", status.Message)
	})
}
