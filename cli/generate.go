package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rarotec/relatorios/binding"
	"github.com/rarotec/relatorios/compose"
	"github.com/rarotec/relatorios/config"
	"github.com/rarotec/relatorios/report"
)

type generateFlags struct {
	variant     string
	attachments []string
	outDir      string
	debugDir    string
}

func (cli *CLI) newGenerateCmd() *cobra.Command {
	var flags generateFlags
	cmd := &cobra.Command{
		Use:   "generate <data.yaml>",
		Short: "Gera o relatório e, se houver anexos, o índice de anexos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runGenerate(cmd, args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.variant, "variant", "", "report variant (servicos|migracao), overrides the data file")
	cmd.Flags().StringSliceVarP(&flags.attachments, "attachment", "a", nil, "uploaded file to list in the attachments index (repeatable)")
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", "", "output directory, overrides output_dir")
	cmd.Flags().StringVar(&flags.debugDir, "debug-json", "", "directory that receives the layout JSON of every document")
	return cmd
}

func (cli *CLI) runGenerate(cmd *cobra.Command, dataPath string, flags generateFlags) error {
	cfg, err := cli.loadConfig(cmd)
	if err != nil {
		return err
	}
	if flags.outDir != "" {
		cfg.OutputDir = flags.outDir
	}
	logger, err := cli.logger(cfg)
	if err != nil {
		return err
	}
	ctx := logger.WithContext(cmd.Context())

	data, err := report.Load(cli.opts.Fs, dataPath)
	if err != nil {
		return err
	}
	if flags.variant != "" {
		v, err := report.ParseVariant(flags.variant)
		if err != nil {
			return err
		}
		data.Variant = v
	}
	if data.Variant == "" {
		return fmt.Errorf("%s: no variant, set tipoRelatorio or --variant", dataPath)
	}

	attachments := make([]report.Attachment, 0, len(flags.attachments))
	for _, p := range flags.attachments {
		a, err := report.AttachmentFromFile(cli.opts.Fs, p)
		if err != nil {
			return err
		}
		attachments = append(attachments, a)
	}

	gen, err := cli.generator(cfg, flags.debugDir)
	if err != nil {
		return err
	}
	res := gen.Generate(ctx, compose.Request{Data: data, Attachments: attachments})

	out := cmd.OutOrStdout()
	if !res.Success {
		color.New(color.FgRed, color.Bold).Fprintln(out, res.Message)
		return fmt.Errorf("generation %s failed, see the log for details", res.ID)
	}
	color.New(color.FgGreen, color.Bold).Fprintln(out, res.Message)
	for _, f := range res.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	return nil
}

func (cli *CLI) generator(cfg *config.Config, debugDir string) (*compose.Generator, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	plans, err := cfg.Plans(cli.opts.Fs)
	if err != nil {
		return nil, err
	}
	composer, err := compose.NewComposer(compose.Options{
		Typesetter: cli.opts.Typesetter,
		Plans:      plans,
		Company:    cfg.Company,
		Owner:      cfg.Owner,
		Location:   loc,
		Now:        cli.opts.Now,
	})
	if err != nil {
		return nil, err
	}
	gen := &compose.Generator{
		Composer:            composer,
		Renderer:            cli.opts.Renderer,
		Saver:               &compose.FileSaver{Fs: cli.opts.Fs, Dir: cfg.OutputDir},
		ReportTemplate:      binding.Template(cfg.ReportTemplate),
		AttachmentsTemplate: binding.Template(cfg.AttachmentsTemplate),
	}
	if debugDir != "" {
		gen.DebugFs = cli.opts.Fs
		gen.DebugDir = debugDir
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return gen, nil
}
