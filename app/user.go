package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/passgate/passgate/internal/auth"
	"github.com/passgate/passgate/internal/daemon"
	"github.com/passgate/passgate/internal/identity"
)

// errNeedsDB is returned by commands that only work against the local database.
var errNeedsDB = errors.New("command requires identity.type = db")

var (
	userEmail    string
	userPassword string
	userID       string
)

func init() { //nolint: gochecknoinits
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "Email of the new user")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "Password of the new user")
	_ = userAddCmd.MarkFlagRequired("email")
	_ = userAddCmd.MarkFlagRequired("password")

	userDeleteCmd.Flags().StringVar(&userID, "id", "", "ID of the user to delete")
	_ = userDeleteCmd.MarkFlagRequired("id")

	userCmd.AddCommand(userAddCmd, userDeleteCmd)
	rootCmd.AddCommand(userCmd)
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users of the identity store",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cred := auth.Credential{Email: userEmail, Password: userPassword}
		cred.Normalize()

		if err := cred.Validate(); err != nil {
			return err
		}

		hasher, err := auth.NewHasher(cfg.Auth)
		if err != nil {
			return err
		}

		hash, err := hasher.Hash(cred.Password)
		if err != nil {
			return err
		}

		store, _, err := daemon.OpenIdentityStore(&cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Identity.Timeout)
		defer cancel()

		u, err := store.Create(ctx, cred.Email, hash)
		if errors.Is(err, identity.ErrConflict) {
			return fmt.Errorf("%s: %w", cred.Email, err)
		}

		if err != nil {
			return err
		}

		cmd.Printf("created user %s (id %s)\n", u.Email, u.ID)

		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a user from the local database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, dbStore, err := daemon.OpenIdentityStore(&cfg)
		if err != nil {
			return err
		}

		if dbStore == nil {
			return errNeedsDB
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Identity.Timeout)
		defer cancel()

		if err = dbStore.Delete(ctx, userID); err != nil {
			return err
		}

		cmd.Printf("deleted user %s\n", userID)

		return nil
	},
}
