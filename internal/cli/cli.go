// Package cli implements applogctl, the operator command line for the tracker.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/cuongbtq/applog/internal/app"
)

// DefaultConfigPath is used when neither --config nor APPLOG_CONFIG_PATH is set.
const DefaultConfigPath = "configs/applog.yaml"

// CLI is the root command tree.
type CLI struct {
	Config  string `help:"Path to configuration file." env:"APPLOG_CONFIG_PATH" default:"${config_path}"`
	JSON    bool   `help:"JSON output to stdout."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `name:"version" help:"Print version."`

	Migrate   MigrateCmd   `cmd:"" help:"Apply pending schema migrations."`
	Jobs      JobsCmd      `cmd:"" help:"Manage job applications."`
	Templates TemplatesCmd `cmd:"" help:"Manage note templates."`
	Board     BoardCmd     `cmd:"" help:"Show the filtered board with counts."`
}

// Context is bound into every command's Run method.
type Context struct {
	context.Context

	Out        io.Writer
	App        *app.App
	JSONOutput bool
}

// SkipsMigrate reports whether the selected command manages migrations itself.
func SkipsMigrate(command string) bool {
	return command == "migrate"
}

// MigrateCmd applies the embedded migrations.
type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	applied, err := ctx.App.DB.Migrate(ctx)
	if err != nil {
		return err
	}

	if ctx.JSONOutput {
		if applied == nil {
			applied = []string{}
		}
		return writeJSON(ctx.Out, map[string][]string{"applied": applied})
	}

	if len(applied) == 0 {
		_, err = fmt.Fprintln(ctx.Out, "schema is up to date")
		return err
	}
	for _, v := range applied {
		if _, err := fmt.Fprintf(ctx.Out, "applied %s\n", v); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
