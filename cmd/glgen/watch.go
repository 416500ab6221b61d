package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/glbind/config"
)

// defaultDebounce coalesces the bursts of events editors produce on save.
const defaultDebounce = 200 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever the registry or the configuration changes",
		Long: `Generate once, then regenerate on every write to the registry snapshot or the
configuration file. The watched registry path is read at startup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}

			regenerate := func() error {
				return a.generate(cmd.OutOrStdout(), "", false)
			}
			if err := regenerate(); err != nil {
				a.log.Error("generation failed", zap.Error(err))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch(ctx, []string{a.configPath, cfg.Registry}, debounce, regenerate, a.log)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before regenerating")
	return cmd
}

// watch calls regenerate after changes to any of paths settle. Directories are
// watched rather than files so that editors replacing a file by rename are seen.
// It returns when ctx is done.
func watch(ctx context.Context, paths []string, debounce time.Duration, regenerate func() error, log *zap.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return err
			}
			dirs[dir] = true
		}
	}
	log.Info("watching", zap.Strings("paths", paths))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !targets[abs] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("change detected", zap.String("path", abs), zap.Stringer("op", ev.Op))
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if err := regenerate(); err != nil {
				log.Error("generation failed", zap.Error(err))
			}
		}
	}
}
