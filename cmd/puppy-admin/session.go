// cmd/puppy-admin/session.go
package main

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"puppy-admin/internal/session"
)

var sessionEmail string

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Issue or revoke admin session tokens",
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a session and print its bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rdb, err := connectRedis(ctx)
		if err != nil {
			return err
		}
		defer rdb.Close()

		store := session.NewStore(rdb.Client, cfg.Session, clockwork.NewRealClock(), log)
		sess, err := store.Create(ctx, sessionEmail)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sess.Token)
		return nil
	},
}

var sessionRevokeCmd = &cobra.Command{
	Use:   "revoke <token>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rdb, err := connectRedis(ctx)
		if err != nil {
			return err
		}
		defer rdb.Close()

		store := session.NewStore(rdb.Client, cfg.Session, clockwork.NewRealClock(), log)
		return store.Delete(ctx, args[0])
	},
}

func init() {
	sessionCreateCmd.Flags().StringVar(&sessionEmail, "email", "", "operator email the session belongs to")
	_ = sessionCreateCmd.MarkFlagRequired("email")
	sessionCmd.AddCommand(sessionCreateCmd, sessionRevokeCmd)
}
