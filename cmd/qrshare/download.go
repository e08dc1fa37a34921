package main

import (
	"os"
	"os/signal"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/darlingshare/go-qrshare/render"
)

const FlagOutput = "output"

func DownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download <id|url>",
		Short: "Download a shared file",
		Example: `  qrshare download 0b9f6c2e-3f57-4b83-a7a4-5d6f1c1d2e3f --output photos.zip
  qrshare download https://fileshareb.onrender.com/download/0b9f6c2e-3f57-4b83-a7a4-5d6f1c1d2e3f`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer e.close() //nolint:errcheck

			dest, err := cmd.Flags().GetString(FlagOutput)
			if err != nil {
				return err
			}
			if dest == "" {
				dest = path.Base(strings.TrimRight(args[0], "/"))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if err := e.client().Download(ctx, args[0], dest); err != nil {
				return err
			}

			info, err := os.Stat(dest)
			if err != nil {
				return err
			}
			e.logger.Donef("Downloaded %s (%s)", dest, render.Size(info.Size()))
			return nil
		},
	}

	cmd.Flags().StringP(FlagOutput, "o", "", "destination file (default: the session ID)")

	return cmd
}
