package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/spf13/cobra"

	"github.com/darlingshare/go-qrshare/app"
	"github.com/darlingshare/go-qrshare/archive"
	"github.com/darlingshare/go-qrshare/render"
	"github.com/darlingshare/go-qrshare/selection"
	"github.com/darlingshare/go-qrshare/upload"
)

const (
	FlagExclude   = "exclude"
	FlagBackend   = "backend"
	FlagChunkSize = "chunk-size"
	FlagRetries   = "retries"
)

func UploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload [paths...]",
		Short: "Upload files or folders and print a QR code for the download link",
		Long: `Upload files, folders or glob patterns. A single file is uploaded as is,
anything else is zipped first. Folders keep their structure inside the archive.`,
		Example: `  qrshare upload report.pdf
  qrshare upload ~/Pictures/holiday --exclude .DS_Store
  qrshare upload 'docs/**/*.md'`,
		RunE: runUpload,
	}

	cmd.Flags().StringSlice(FlagExclude, nil, "glob pattern of files to leave out (repeatable)")
	cmd.Flags().String(FlagBackend, "", "share backend base URL (overrides config)")
	cmd.Flags().Int64(FlagChunkSize, 0, "chunk size in bytes (overrides config)")
	cmd.Flags().Int(FlagRetries, -1, "retries per chunk request (overrides config)")

	return cmd
}

func runUpload(cmd *cobra.Command, args []string) error {
	e, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := e.close(); err != nil {
			e.logger.Warnf("Failed to close prefs store: %s", err)
		}
	}()

	if err := applyUploadFlags(cmd, e); err != nil {
		return err
	}

	excludes, err := cmd.Flags().GetStringSlice(FlagExclude)
	if err != nil {
		return err
	}
	collector, err := selection.NewCollector(e.logger, pathutil.NewPathModifier(), pathutil.NewPathChecker(), append(e.cfg.Upload.Excludes, excludes...))
	if err != nil {
		return err
	}
	entries, err := collector.Collect(args)
	if err != nil {
		return err
	}

	var opts []app.Option
	if e.cfg.Analytics.Enabled {
		opts = append(opts, app.WithTracker(app.NewAnalyticsTracker(version, e.envRepo, e.logger)))
	}
	a := app.New(
		archive.NewBuilder(e.logger, pathutil.NewPathProvider()),
		upload.New(e.cfg.UploadConfig(), e.logger),
		e.store,
		e.logger,
		opts...,
	)
	defer a.Wait()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := a.Init(ctx); err != nil {
		e.logger.Warnf("Failed to read preferences: %s", err)
	}
	if a.State().ShowWelcome {
		render.Welcome(cmd.OutOrStdout())
		if err := a.DismissWelcome(ctx); err != nil {
			e.logger.Warnf("Failed to save preferences: %s", err)
		}
	}

	a.Subscribe(render.NewStateWriter(cmd.OutOrStdout()).Render)
	a.OnSelectionChanged(selection.Event{Kind: selection.Select, Entries: entries})

	if _, err := a.Upload(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			e.logger.Warnf("Upload cancelled")
		}
		return errors.Join(errReported, err)
	}
	return nil
}

func applyUploadFlags(cmd *cobra.Command, e *environment) error {
	if backend, err := cmd.Flags().GetString(FlagBackend); err != nil {
		return err
	} else if backend != "" {
		e.cfg.Backend.URL = backend
	}

	if chunkSize, err := cmd.Flags().GetInt64(FlagChunkSize); err != nil {
		return err
	} else if chunkSize > 0 {
		e.cfg.Upload.ChunkSize = chunkSize
	}

	if retries, err := cmd.Flags().GetInt(FlagRetries); err != nil {
		return err
	} else if retries >= 0 {
		e.cfg.Upload.Retries = retries
	}

	return e.cfg.Validate()
}
