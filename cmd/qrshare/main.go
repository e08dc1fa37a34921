package main

import (
	"errors"
	"os"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/spf13/cobra"
)

const (
	FlagConfig  = "config"
	FlagVerbose = "verbose"
)

var version = "dev"

// errReported marks failures that were already shown to the user.
var errReported = errors.New("reported")

// RootCmd creates the root command of the qrshare CLI with all subcommands.
func RootCmd() *cobra.Command {
	r := &cobra.Command{
		Use:           "qrshare",
		Short:         "Share files and folders through a download link and a QR code",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	r.PersistentFlags().String(FlagConfig, "", "path of a YAML config file")
	r.PersistentFlags().BoolP(FlagVerbose, "v", false, "enable debug logging")

	r.AddCommand(UploadCmd(), DownloadCmd(), WelcomeCmd(), VersionCmd())

	return r
}

func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "prints the version of qrshare",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Printf("Version: %s\n", version)
			return nil
		},
	}
}

func main() {
	if err := RootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			log.NewLogger().Errorf("%s", err)
		}
		os.Exit(1)
	}
}
