package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rarotec/relatorios/report"
)

func (cli *CLI) newSectionsCmd() *cobra.Command {
	var variant string
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "Lista a ordem das seções de cada tipo de relatório",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cli.loadConfig(cmd)
			if err != nil {
				return err
			}
			plans, err := cfg.Plans(cli.opts.Fs)
			if err != nil {
				return err
			}
			variants := plans.Variants()
			if variant != "" {
				v, err := report.ParseVariant(variant)
				if err != nil {
					return err
				}
				variants = []report.Variant{v}
			}

			out := cmd.OutOrStdout()
			heading := color.New(color.Bold)
			for i, v := range variants {
				p, err := plans.Plan(v)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				heading.Fprintf(out, "%s: %s\n", v, p.Title)
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for n, sec := range p.Sections {
					caption := sec.Title
					if caption == "" {
						caption = sec.Label
					}
					fmt.Fprintf(tw, "  %d.\t%s\t%s\t%s\n", n+1, sec.Kind, sec.When, caption)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "only this variant (servicos|migracao)")
	return cmd
}
