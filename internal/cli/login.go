package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"quiz-game-client/internal/auth"
)

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the credential token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, cleanup, err := newCredStore(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			logger := newLogger()
			client := auth.NewClient(apiURL(cfg), store, logger)
			id, err := client.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", id.DisplayName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
