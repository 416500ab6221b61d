// Command glgen generates Go OpenGL bindings from a registry snapshot.
//
// Usage:
//
//	glgen generate [-c glgen.yaml] [--dry-run]
//	glgen list [pattern]
//	glgen browse
//	glgen watch
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/glbind/aggregate"
	"github.com/wippyai/glbind/config"
	"github.com/wippyai/glbind/generator"
	"github.com/wippyai/glbind/registry"
	"github.com/wippyai/glbind/render"
	"github.com/wippyai/glbind/resolve"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by every command.
type app struct {
	configPath string
	verbose    bool
	log        *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "glgen",
		Short:         "Generate Go OpenGL bindings from a registry snapshot",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			log, err := newLogger(a.verbose)
			if err != nil {
				return err
			}
			a.log = log
			installLogger(log)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultFile, "configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log pipeline phases")

	root.AddCommand(
		newGenerateCmd(a),
		newListCmd(a),
		newBrowseCmd(a),
		newWatchCmd(a),
	)
	return root
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.DisableStacktrace = true
	}
	return cfg.Build()
}

func installLogger(log *zap.Logger) {
	resolve.SetLogger(log.Named("resolve"))
	aggregate.SetLogger(log.Named("aggregate"))
	generator.SetLogger(log.Named("generator"))
	render.SetLogger(log.Named("render"))
}

// load reads the configuration and the registry and runs the pipeline.
func (a *app) load() (*config.Config, *generator.Result, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, nil, err
	}
	reg, err := registry.Load(cfg.Registry)
	if err != nil {
		return nil, nil, err
	}
	opts, err := cfg.GeneratorOptions()
	if err != nil {
		return nil, nil, err
	}
	res, err := generator.Generate(reg, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("generate %s: %w", cfg.Registry, err)
	}
	return cfg, res, nil
}
