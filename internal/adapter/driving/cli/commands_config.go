package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/ericfisherdev/qbique/internal/domain/model"
)

func requireArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("expected %d argument(s), got %d\n\nUsage: %s", n, len(args), usage)
	}
	return nil
}

type configView struct {
	Endpoint      string             `json:"endpoint"`
	DefaultOutput model.OutputFormat `json:"defaultOutput"`
	Timeout       int                `json:"timeout"`
	Profile       string             `json:"profile"`
	ConfigDir     string             `json:"configDir"`
	Authenticated bool               `json:"authenticated"`
}

func (a *App) configCommand() *Command {
	return &Command{
		Name:    "config",
		Summary: "Show and change CLI configuration",
		Subcommands: []*Command{
			{
				Name:    "show",
				Summary: "Show the effective configuration",
				Flags:   a.flags("show", nil),
				Run:     a.action(a.runConfigShow),
			},
			{
				Name:     "set",
				Summary:  "Set a configuration value",
				Usage:    "qbique config set <endpoint|defaultOutput|timeout|profile> <value>",
				Examples: []string{"qbique config set endpoint https://api.qbique.io", "qbique config set timeout 60000"},
				Flags:    a.flags("set", nil),
				Run:      a.action(a.runConfigSet),
			},
			a.profileCommand(),
		},
	}
}

func (a *App) runConfigShow(_ context.Context, f *Formatter, _ []string) error {
	s := a.Config.Settings()
	_, authed := a.Config.APIKey("")
	view := configView{
		Endpoint:      s.Endpoint,
		DefaultOutput: s.DefaultOutput,
		Timeout:       s.TimeoutMs,
		Profile:       s.Profile,
		ConfigDir:     a.ConfigDir,
		Authenticated: authed,
	}
	return f.Render(view, func() Table {
		return KeyValues(
			"endpoint", view.Endpoint,
			"defaultOutput", string(view.DefaultOutput),
			"timeout", strconv.Itoa(view.Timeout),
			"profile", view.Profile,
			"configDir", view.ConfigDir,
			"authenticated", strconv.FormatBool(view.Authenticated),
		)
	})
}

func (a *App) runConfigSet(ctx context.Context, f *Formatter, args []string) error {
	if err := requireArgs(args, 2, "qbique config set <key> <value>"); err != nil {
		return err
	}
	if err := a.Config.SetFromString(ctx, args[0], args[1]); err != nil {
		return err
	}
	key, _ := model.ParseSettingKey(args[0])
	f.Success("%s = %s", key, a.Config.Persisted().Value(key))
	if key == model.KeyEndpoint && a.EnvEndpoint != "" {
		f.Warn("QBIQUE_ENDPOINT is set and overrides the saved endpoint")
	}
	return nil
}

type profileView struct {
	Name          string     `json:"name"`
	Active        bool       `json:"active"`
	Authenticated bool       `json:"authenticated"`
	Endpoint      string     `json:"endpoint,omitempty"`
	SavedAt       *time.Time `json:"savedAt,omitempty"`
}

func (a *App) profileCommand() *Command {
	var endpoint string
	return &Command{
		Name:    "profile",
		Summary: "Manage named profiles",
		Subcommands: []*Command{
			{
				Name:    "list",
				Summary: "List profiles",
				Flags:   a.flags("list", nil),
				Run:     a.action(a.runProfileList),
			},
			{
				Name:    "create",
				Summary: "Create a profile",
				Usage:   "qbique config profile create <name> [--endpoint url]",
				Flags: a.flags("create", func(fs *pflag.FlagSet) {
					fs.StringVar(&endpoint, "endpoint", "", "endpoint used by this profile instead of the global one")
				}),
				Run: a.action(func(ctx context.Context, f *Formatter, args []string) error {
					if err := requireArgs(args, 1, "qbique config profile create <name>"); err != nil {
						return err
					}
					if err := a.Config.CreateProfile(ctx, args[0], endpoint); err != nil {
						return err
					}
					f.Success("Profile %q created", args[0])
					f.Info("  Authenticate it with: qbique auth login --profile %s --api-key <key>", args[0])
					return nil
				}),
			},
			{
				Name:    "use",
				Summary: "Switch the active profile",
				Usage:   "qbique config profile use <name>",
				Flags:   a.flags("use", nil),
				Run: a.action(func(ctx context.Context, f *Formatter, args []string) error {
					if err := requireArgs(args, 1, "qbique config profile use <name>"); err != nil {
						return err
					}
					if err := a.Config.UseProfile(ctx, args[0]); err != nil {
						return err
					}
					f.Success("Active profile: %s", args[0])
					return nil
				}),
			},
			{
				Name:    "delete",
				Summary: "Delete a profile and its credentials",
				Usage:   "qbique config profile delete <name>",
				Flags:   a.flags("delete", nil),
				Run: a.action(func(ctx context.Context, f *Formatter, args []string) error {
					if err := requireArgs(args, 1, "qbique config profile delete <name>"); err != nil {
						return err
					}
					if err := a.Config.DeleteProfile(ctx, args[0]); err != nil {
						return err
					}
					f.Success("Profile %q deleted", args[0])
					return nil
				}),
			},
		},
	}
}

func (a *App) runProfileList(_ context.Context, f *Formatter, _ []string) error {
	active := a.Config.ActiveProfile()
	views := make([]profileView, 0)
	for _, name := range a.Config.ListProfiles() {
		c, _ := a.Config.Credential(name)
		v := profileView{
			Name:          name,
			Active:        name == active,
			Authenticated: c.Authenticated(),
			Endpoint:      c.Endpoint,
		}
		if !c.SavedAt.IsZero() {
			saved := c.SavedAt
			v.SavedAt = &saved
		}
		views = append(views, v)
	}

	return f.Render(views, func() Table {
		t := Table{Headers: []string{"", "PROFILE", "AUTHENTICATED", "ENDPOINT"}}
		for _, v := range views {
			marker := ""
			if v.Active {
				marker = "*"
			}
			endpoint := v.Endpoint
			if endpoint == "" {
				endpoint = "(global)"
			}
			t.Rows = append(t.Rows, []string{marker, v.Name, strconv.FormatBool(v.Authenticated), endpoint})
		}
		return t
	})
}
