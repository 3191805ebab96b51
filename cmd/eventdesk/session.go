package main

import (
	"fmt"

	"eventdesk/internal/auth"
	"eventdesk/internal/planner"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage planner sessions",
	}
	cmd.AddCommand(newSessionMintCmd())
	return cmd
}

func newSessionMintCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Print a signed session token for an existing planner",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap()
			if err != nil {
				return err
			}
			defer e.close()

			p, err := (&planner.Service{DB: e.db}).ByEmail(cmd.Context(), email)
			if err != nil {
				return err
			}
			token, err := auth.NewSessionJWT(e.cfg.SessionSecret).Sign(auth.Session{UID: p.UID, Email: p.Email, Name: p.Name})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Planner email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
