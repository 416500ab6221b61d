package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/glbind/render"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		output string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the binding packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.generate(cmd.OutOrStdout(), output, dryRun)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (overrides the configuration)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the files without writing them")
	return cmd
}

func (a *app) generate(out io.Writer, output string, dryRun bool) error {
	cfg, res, err := a.load()
	if err != nil {
		return err
	}
	if output != "" {
		cfg.Output = output
	}

	r, err := cfg.Renderer()
	if err != nil {
		return err
	}
	files, err := r.Render(res)
	if err != nil {
		return err
	}

	if dryRun {
		for _, f := range files {
			fmt.Fprintf(out, "%s\t%s\n", f.Path, f.Module)
		}
		return nil
	}

	st, err := render.Write(cfg.Output, files)
	if err != nil {
		return err
	}
	a.log.Info("generated",
		zap.String("output", cfg.Output),
		zap.Int("written", st.Written),
		zap.Int("unchanged", st.Unchanged))
	fmt.Fprintf(out, "%d packages in %s: %d written, %d unchanged\n",
		len(files), cfg.Output, st.Written, st.Unchanged)
	return nil
}
