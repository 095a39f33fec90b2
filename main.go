// Command analog-macros generates the SG13G2 analog hard macros,
// checks them against the process design rules, and renders previews.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"analog-macros/internal/drc"
	"analog-macros/internal/gds"
	"analog-macros/internal/macro"
	"analog-macros/internal/render"
	"analog-macros/internal/tech"
	"analog-macros/internal/version"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "analog-macros",
		Short:         "Parametric analog layout generator for IHP SG13G2",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile == "" {
				return nil
			}
			viper.SetConfigFile(cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return errors.Wrap(err, "read config")
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")

	viper.SetDefault("outdir", "gds")
	viper.SetDefault("scale", 10.0)

	root.AddCommand(newGenCmd(), newDRCCmd(), newRenderCmd(), newListCmd())
	return root
}

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen [macro|all]",
		Short: "Generate macro layouts and write GDS",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs := tech.SG13G2()
			outdir := viper.GetString("outdir")
			if err := os.MkdirAll(outdir, 0o755); err != nil {
				return errors.Wrap(err, "create outdir")
			}

			macros := macro.Catalog()
			if len(args) == 1 && args[0] != "all" {
				m, err := macro.ByName(args[0])
				if err != nil {
					return err
				}
				macros = []macro.Macro{m}
			}

			for _, m := range macros {
				c, err := m.Build(rs)
				if err != nil {
					return errors.Wrapf(err, "build %s", m.Name)
				}
				path := filepath.Join(outdir, m.Name+".gds")
				if err := gds.WriteFile(path, c); err != nil {
					return errors.Wrapf(err, "write %s", m.Name)
				}
				fmt.Printf("Wrote %s\n", path)
				fmt.Printf("  %g x %g um, %d shapes, %d labels\n",
					m.Width, m.Height, c.NumShapes(), len(c.Labels()))
				if m.Verify != nil {
					if err := m.Verify(); err != nil {
						return errors.Wrapf(err, "verify %s", m.Name)
					}
					fmt.Println("  ladder transfer verified")
				}
			}
			return nil
		},
	}
	cmd.Flags().String("outdir", "gds", "output directory for GDS files")
	viper.BindPFlag("outdir", cmd.Flags().Lookup("outdir"))
	return cmd
}

func newDRCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drc <file.gds> [cell]",
		Short: "Check a GDS file against the SG13G2 rules",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := gds.ReadFile(args[0])
			if err != nil {
				return err
			}
			if len(args) == 2 && c.Name != args[1] {
				return errors.Errorf("cell %q not found (file contains %q)", args[1], c.Name)
			}

			rep := drc.Check(c, tech.SG13G2())
			rep.WriteText(os.Stdout)
			if !rep.Clean() {
				// CI contract: violations exit nonzero.
				os.Exit(1)
			}
			return nil
		},
	}
}

func newRenderCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "render <file.gds>",
		Short: "Render a GDS file to a PNG preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := gds.ReadFile(args[0])
			if err != nil {
				return err
			}

			opt := render.DefaultOptions()
			opt.Scale = viper.GetFloat64("scale")

			f, err := os.Create(out)
			if err != nil {
				return errors.Wrap(err, "create output")
			}
			defer f.Close()
			if err := render.PNG(f, c, opt); err != nil {
				return err
			}
			fmt.Printf("Rendered %s -> %s (%.3g px/um)\n", c.Name, out, opt.Scale)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "out.png", "output PNG path")
	cmd.Flags().Float64("scale", 10, "pixels per um")
	viper.BindPFlag("scale", cmd.Flags().Lookup("scale"))
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available macros",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, m := range macro.Catalog() {
				fmt.Printf("%-14s %g x %g um\n", m.Name, m.Width, m.Height)
			}
			return nil
		},
	}
}
