package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ericfisherdev/qbique/internal/application"
)

func (a *App) authCommand() *Command {
	var apiKey string
	return &Command{
		Name:    "auth",
		Summary: "Manage API key authentication",
		Subcommands: []*Command{
			{
				Name:     "login",
				Summary:  "Authenticate with an API key",
				Usage:    "qbique auth login --api-key <key> [--profile name]",
				Examples: []string{"qbique auth login --api-key qbi_xxxxxxxxxx"},
				Flags: a.flags("login", func(fs *pflag.FlagSet) {
					fs.StringVar(&apiKey, "api-key", "", "API key to authenticate with (required)")
				}),
				Run: a.action(func(ctx context.Context, f *Formatter, _ []string) error {
					return a.runLogin(ctx, f, apiKey)
				}),
			},
			{
				Name:    "logout",
				Summary: "Forget the active profile's API key",
				Flags:   a.flags("logout", nil),
				Run: a.action(func(ctx context.Context, f *Formatter, _ []string) error {
					if err := a.Auth.Logout(ctx); err != nil {
						return err
					}
					f.Success("Logged out of profile %q", a.Config.ActiveProfile())
					return nil
				}),
			},
			{
				Name:    "status",
				Summary: "Show authentication state",
				Flags:   a.flags("status", nil),
				Run:     a.action(a.runAuthStatus),
			},
		},
	}
}

func (a *App) runLogin(ctx context.Context, f *Formatter, apiKey string) error {
	if apiKey == "" {
		return errors.New("--api-key is required\n\nUsage: qbique auth login --api-key <key>")
	}

	f.Info("Validating API key...")
	res, err := a.Auth.Login(ctx, apiKey)
	if err != nil {
		return err
	}

	switch res.Outcome {
	case application.LoginSavedOffline:
		f.Success("API key saved locally. Could not validate with server (connection failed).")
	case application.LoginSavedAuthDisabled:
		f.Success("API key saved. Note: authentication is currently disabled on the server.")
	default:
		f.Success("Authenticated as %q (%s...)", res.Name, res.Prefix)
	}

	return f.Render(res, func() Table {
		return KeyValues(
			"profile", res.Profile,
			"outcome", string(res.Outcome),
			"auth_enabled", strconv.FormatBool(res.AuthEnabled),
			"name", res.Name,
			"scopes", strings.Join(res.Scopes, ","),
		)
	})
}

func (a *App) runAuthStatus(_ context.Context, f *Formatter, _ []string) error {
	st := a.Auth.Status()
	return f.Render(st, func() Table {
		return KeyValues(
			"profile", st.Profile,
			"authenticated", strconv.FormatBool(st.Authenticated),
			"key", st.KeyPrefix,
			"endpoint", st.Endpoint,
		)
	})
}
