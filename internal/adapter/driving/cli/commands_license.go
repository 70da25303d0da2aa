package cli

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/qbique/internal/domain/model"
)

type licenseView struct {
	model.License
	Status model.LicenseStatus `json:"status"`
	Stale  bool                `json:"stale,omitempty"`
}

func (a *App) licenseCommand() *Command {
	return &Command{
		Name:    "license",
		Summary: "Manage plugin licenses",
		Subcommands: []*Command{
			{
				Name:    "list",
				Summary: "List activated licenses",
				Flags:   a.flags("list", nil),
				Run:     a.action(a.runLicenseList),
			},
			{
				Name:     "activate",
				Summary:  "Activate a plugin license",
				Usage:    "qbique license activate <plugin-name> <license-key>",
				Examples: []string{"qbique license activate @qbique/plugin-quantum <key>"},
				Flags:    a.flags("activate", nil),
				Run:      a.action(a.runLicenseActivate),
			},
			{
				Name:    "deactivate",
				Summary: "Remove a plugin license",
				Usage:   "qbique license deactivate <plugin-name>",
				Flags:   a.flags("deactivate", nil),
				Run: a.action(func(ctx context.Context, f *Formatter, args []string) error {
					if err := requireArgs(args, 1, "qbique license deactivate <plugin-name>"); err != nil {
						return err
					}
					if err := a.Licenses.Deactivate(ctx, args[0]); err != nil {
						return err
					}
					f.Success("License deactivated: %s", args[0])
					return nil
				}),
			},
		},
	}
}

func (a *App) runLicenseList(_ context.Context, f *Formatter, _ []string) error {
	entries := a.Licenses.List()
	if len(entries) == 0 && f.Format == model.OutputTable {
		f.Info("No licenses activated.")
		f.Info("  Activate: qbique license activate <plugin> <key>")
		return nil
	}

	views := make([]licenseView, 0, len(entries))
	for _, l := range entries {
		check := a.Licenses.Check(l.Plugin, l.Tier)
		views = append(views, licenseView{License: l, Status: check.Status, Stale: check.Stale})
	}

	return f.Render(views, func() Table {
		t := Table{Headers: []string{"PLUGIN", "TIER", "STATUS", "EXPIRES", "CHECKED"}}
		for _, v := range views {
			expires := "never"
			if v.ExpiresAt != nil {
				expires = v.ExpiresAt.Format(time.DateOnly)
			}
			status := string(v.Status)
			if v.Stale {
				status += " (stale)"
			}
			t.Rows = append(t.Rows, []string{v.Plugin, string(v.Tier), status, expires, v.CheckedAt.Format(time.DateOnly)})
		}
		return t
	})
}

func (a *App) runLicenseActivate(ctx context.Context, f *Formatter, args []string) error {
	if err := requireArgs(args, 2, "qbique license activate <plugin-name> <license-key>"); err != nil {
		return err
	}
	plugin, key := args[0], args[1]

	tier := a.Plugins.TierOf(plugin)
	if tier == model.TierFree {
		f.Info("%s is free and needs no license.", plugin)
		return nil
	}
	if err := a.Licenses.Activate(ctx, plugin, key, tier); err != nil {
		return err
	}
	f.Success("License activated for %s (%s)", plugin, tier)
	return nil
}

type pluginView struct {
	model.PluginDescriptor
	License model.LicenseStatus `json:"license"`
}

type accessView struct {
	Target  string `json:"target"`
	Allowed bool   `json:"allowed"`
	Message string `json:"message,omitempty"`
}

func (a *App) pluginsCommand() *Command {
	return &Command{
		Name:    "plugins",
		Summary: "Inspect optional plugins",
		Subcommands: []*Command{
			{
				Name:    "available",
				Summary: "List known plugins and their license state",
				Flags:   a.flags("available", nil),
				Run:     a.action(a.runPluginsAvailable),
			},
			{
				Name:    "check",
				Summary: "Check access to a plugin or feature",
				Usage:   "qbique plugins check <plugin-name|feature>",
				Examples: []string{
					"qbique plugins check @qbique/plugin-quantum",
					"qbique plugins check stress-test",
				},
				Flags: a.flags("check", nil),
				Run:   a.action(a.runPluginsCheck),
			},
		},
	}
}

func (a *App) runPluginsAvailable(_ context.Context, f *Formatter, _ []string) error {
	plugins := a.Plugins.ListAvailable()
	views := make([]pluginView, 0, len(plugins))
	for _, p := range plugins {
		views = append(views, pluginView{PluginDescriptor: p, License: a.Licenses.Check(p.Name, p.Tier).Status})
	}

	return f.Render(views, func() Table {
		t := Table{Headers: []string{"PLUGIN", "TIER", "LICENSE", "FEATURES", "DESCRIPTION"}}
		for _, v := range views {
			t.Rows = append(t.Rows, []string{
				v.Name, string(v.Tier), string(v.License), strings.Join(v.Features, ", "), v.Description,
			})
		}
		return t
	})
}

// runPluginsCheck gates on the target and exits 1 after printing the
// remediation when access is denied.
func (a *App) runPluginsCheck(_ context.Context, f *Formatter, args []string) error {
	if err := requireArgs(args, 1, "qbique plugins check <plugin-name|feature>"); err != nil {
		return err
	}
	target := args[0]

	var access model.Access
	if _, ok := a.Plugins.PluginInfo(target); ok || strings.HasPrefix(target, "@") {
		access = a.Plugins.CheckPluginAccess(target)
	} else {
		access = a.Plugins.CheckFeature(target)
	}

	view := accessView{Target: target, Allowed: access.Allowed, Message: access.Message}
	if err := f.Render(view, func() Table {
		return KeyValues("target", view.Target, "allowed", strconv.FormatBool(view.Allowed))
	}); err != nil {
		return err
	}
	if access.Message != "" {
		f.Info("%s", access.Message)
	}
	if !access.Allowed {
		return &ExitError{Code: 1}
	}
	return nil
}
