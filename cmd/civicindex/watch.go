package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/civicindex/events"
	"github.com/katalvlaran/civicindex/internal/config"
	"github.com/katalvlaran/civicindex/request"
)

// settle coalesces the burst of events editors produce for one save.
const settle = 200 * time.Millisecond

func watchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the global indexes whenever the fixture file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Source.Kind != config.SourceFile {
				return fmt.Errorf("watch needs --source-kind=file, got %q", a.cfg.Source.Kind)
			}
			pub, err := a.publisher()
			if err != nil {
				return err
			}
			defer pub.Close()

			return a.watch(cmd.Context(), a.cfg.Source.File, func(ctx context.Context) error {
				gx, err := a.builder().BuildGlobalIndexes(ctx, request.Filter{})
				if err != nil {
					a.log.Error("rebuild failed", "err", err)
					return nil
				}
				ev := events.IndexRebuilt{Records: gx.Tree.Len(), Nodes: gx.Graph.Len(), Edges: gx.Graph.EdgeCount()}
				writeLine(cmd.OutOrStdout(), "%s rebuilt: %d requests, %d links", time.Now().Format(time.TimeOnly), ev.Records, ev.Edges)
				return pub.Publish(ctx, events.TopicIndexRebuilt, ev)
			})
		},
	}
}

// watch calls rebuild once, then again after each write to path, until ctx
// is done. The directory is watched so editors that replace the file are
// still seen.
func (a *app) watch(ctx context.Context, path string, rebuild func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if err := rebuild(ctx); err != nil {
		return err
	}

	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				a.log.Debug("fsnotify", "event", event.Op.String(), "file", event.Name)
				timer.Reset(settle)
			}
		case <-timer.C:
			if err := rebuild(ctx); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.Error("fsnotify error", "err", err)
		}
	}
}

