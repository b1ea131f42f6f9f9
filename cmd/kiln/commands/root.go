// Package commands implements the CLI commands for the kiln asset pipeline.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/build"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// CLI represents the command line interface for kiln.
type CLI struct {
	app     Application
	logs    JSONSwitch
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.RunOptions) error
	Run(ctx context.Context, taskNames []string, opts app.RunOptions) error
	Watch(ctx context.Context, opts app.RunOptions) error
	Serve(ctx context.Context, opts app.ServeOptions) error
	Dev(ctx context.Context, opts app.ServeOptions) error
	Tasks(ctx context.Context) ([]string, error)
}

// JSONSwitch is implemented by loggers that can switch to JSON output.
type JSONSwitch interface {
	SetJSON(enable bool)
}

// New creates a new CLI instance with the given app. logs may be nil.
func New(a Application, logs JSONSwitch) *CLI {
	rootCmd := &cobra.Command{
		Use:   "kiln",
		Short: "Front-end asset pipeline with a live reloading dev server",
		Long: "Without a command kiln cleans the output directory, builds every asset,\n" +
			"then serves the result and rebuilds on change until interrupted.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().String("color", "auto", "Colorize progress output: auto, always, or never")

	c := &CLI{
		app:     a,
		logs:    logs,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = c.applyGlobalFlags
	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return c.app.Dev(cmd.Context(), serveOptions(cmd))
	}
	addServerFlags(rootCmd)

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newTasksCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) applyGlobalFlags(cmd *cobra.Command, _ []string) error {
	switch color := colorMode(cmd); color {
	case "auto", "always", "never":
	default:
		return zerr.With(domain.ErrInvalidConfig, "color", color)
	}

	if jsonLogs, _ := cmd.Flags().GetBool("json"); jsonLogs && c.logs != nil {
		c.logs.SetJSON(true)
	}
	return nil
}

func colorMode(cmd *cobra.Command) string {
	color, _ := cmd.Flags().GetString("color")
	return color
}

func addServerFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("port", "p", domain.DefaultPort, "Port the dev server listens on")
	cmd.Flags().String("host", domain.DefaultHost, "Host the dev server listens on")
}

func serveOptions(cmd *cobra.Command) app.ServeOptions {
	port, _ := cmd.Flags().GetInt("port")
	host, _ := cmd.Flags().GetString("host")
	return app.ServeOptions{Host: host, Port: port, Color: colorMode(cmd)}
}
