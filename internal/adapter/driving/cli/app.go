package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/ericfisherdev/qbique/internal/application"
	"github.com/ericfisherdev/qbique/internal/domain/model"
)

// App holds the services every command runs against.
type App struct {
	Version   string
	ConfigDir string

	Config   *application.ConfigService
	Auth     *application.AuthService
	Licenses *application.LicenseService
	Plugins  *application.FeatureRegistry
	Server   *application.ServerInfoService
	Jobs     *application.JobWaiter

	// Env* are process overrides from the environment. They are never
	// persisted.
	EnvAPIKey   string
	EnvProfile  string
	EnvEndpoint string

	// Context is canceled on interrupt. Nil means context.Background.
	Context context.Context

	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	output  string
	profile string
}

// globalFlags registers the flags every leaf command accepts.
func (a *App) globalFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&a.output, "output", "o", "", "output format: json, table or yaml")
	fs.StringVar(&a.profile, "profile", "", "profile to use for this invocation")
}

// flags returns a constructor for a leaf flag set with the global flags and
// any command-specific flags added by extra.
func (a *App) flags(name string, extra func(*pflag.FlagSet)) func() *pflag.FlagSet {
	return func() *pflag.FlagSet {
		fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
		a.globalFlags(fs)
		if extra != nil {
			extra(fs)
		}
		return fs
	}
}

// formatter resolves the output format from the flag, then the configured
// default.
func (a *App) formatter() (*Formatter, error) {
	format := a.Config.OutputFormat()
	if a.output != "" {
		format = model.OutputFormat(a.output)
		if !format.Valid() {
			return nil, &model.ConfigError{
				Key:    "output",
				Reason: "invalid output format: " + a.output + ". Use json, table, or yaml",
				Hint:   "qbique <command> -o json",
			}
		}
	}
	return &Formatter{Format: format, Out: a.Stdout, Err: a.Stderr}, nil
}

// applyOverrides layers --profile over the environment overrides.
func (a *App) applyOverrides() {
	profile := a.EnvProfile
	if a.profile != "" {
		profile = a.profile
	}
	a.Config.SetOverrides(application.Overrides{Profile: profile, Endpoint: a.EnvEndpoint})
}

// callOptions returns the per-call gateway overrides for this invocation.
func (a *App) callOptions() model.CallOptions {
	return model.CallOptions{APIKey: a.EnvAPIKey, Profile: a.Config.ActiveProfile()}
}

// action adapts a command body to Command.Run, applying the global flags
// first.
func (a *App) action(run func(ctx context.Context, f *Formatter, args []string) error) func([]string) error {
	return func(args []string) error {
		a.applyOverrides()
		f, err := a.formatter()
		if err != nil {
			return err
		}
		ctx := a.Context
		if ctx == nil {
			ctx = context.Background()
		}
		return run(ctx, f, args)
	}
}

// Root builds the qbique command tree.
func (a *App) Root() *Command {
	return &Command{
		Name:    "qbique",
		Summary: "Command-line client for the qbique analytics platform",
		help:    a.Stderr,
		Subcommands: []*Command{
			a.configCommand(),
			a.authCommand(),
			a.licenseCommand(),
			a.pluginsCommand(),
			a.healthCommand(),
			a.versionCommand(),
			a.jobsCommand(),
		},
	}
}
