package main

import (
	"github.com/spf13/cobra"

	"github.com/darlingshare/go-qrshare/prefs"
	"github.com/darlingshare/go-qrshare/render"
)

const FlagReset = "reset"

func WelcomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "welcome",
		Short: "Show the welcome message again",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer e.close() //nolint:errcheck

			reset, err := cmd.Flags().GetBool(FlagReset)
			if err != nil {
				return err
			}
			if reset {
				if err := e.store.Delete(cmd.Context(), prefs.WelcomeSeenKey); err != nil {
					return err
				}
				e.logger.Donef("The welcome message will be shown on the next upload")
				return nil
			}

			render.Welcome(cmd.OutOrStdout())
			return prefs.MarkWelcomeSeen(cmd.Context(), e.store)
		},
	}

	cmd.Flags().Bool(FlagReset, false, "show the welcome message again on the next upload")

	return cmd
}
