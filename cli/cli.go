// Package cli is the relatorios command line.
package cli

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/rarotec/relatorios/config"
	"github.com/rarotec/relatorios/layout"
	"github.com/rarotec/relatorios/renderer"
	canvasrenderer "github.com/rarotec/relatorios/renderer/canvas"
)

// Options contain the collaborators of the CLI. Zero fields use the real ones.
type Options struct {
	Fs     afero.Fs
	Output io.Writer
	Errors io.Writer

	// Renderer and Typesetter default to one shared canvas renderer.
	Renderer   renderer.Renderer
	Typesetter layout.Typesetter
	Now        func() time.Time
}

// CLI represents the command-line interface
type CLI struct {
	opts    Options
	rootCmd *cobra.Command
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Errors == nil {
		opts.Errors = os.Stderr
	}
	if opts.Renderer == nil || opts.Typesetter == nil {
		r := canvasrenderer.NewRenderer()
		if opts.Renderer == nil {
			opts.Renderer = r
		}
		if opts.Typesetter == nil {
			opts.Typesetter = r
		}
	}
	cli := &CLI{opts: opts}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// Root exposes the command tree, mostly so tests can set arguments.
func (cli *CLI) Root() *cobra.Command { return cli.rootCmd }

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "relatorios",
		Short:         "Gera relatórios técnicos em PDF",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.opts.Output)
	cmd.SetErr(cli.opts.Errors)
	cmd.PersistentFlags().StringP("config", "c", "", "config file (yaml, json or toml)")

	cmd.AddCommand(cli.newGenerateCmd())
	cmd.AddCommand(cli.newSectionsCmd())
	return cmd
}

// loadConfig reads the file named by --config, if any.
func (cli *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(cli.opts.Fs, path)
}

func (cli *CLI) logger(cfg *config.Config) (zerolog.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return zerolog.Nop(), err
	}
	w := zerolog.ConsoleWriter{Out: cli.opts.Errors, TimeFormat: time.DateTime}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
