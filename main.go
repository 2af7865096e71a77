package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"undangan/auth"
	"undangan/config"
	"undangan/logging"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	cfg config.Config
}

// newRootCommand runs the API server when called without a subcommand.
func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "undangan",
		Short:         "Wedding invitation API: invitations, RSVP, QR check-in and guest messages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(commandContext(cmd))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logging.Setup(cfg.LogLevel, cfg.LogFormat)
			a.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(commandContext(cmd))
		},
	}

	cmd.AddCommand(newServeCommand(a))
	cmd.AddCommand(newMigrateCommand(a))
	cmd.AddCommand(newCreateUserCommand(a))
	cmd.AddCommand(newResetPasswordCommand(a))
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(commandContext(cmd))
		},
	}
}

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema, seed roles, then exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			cfg := a.cfg
			cfg.DBAutoMigrate = true
			st, closeDB, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()
			if err := seedAccounts(ctx, cfg, st); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration and seeding completed")
			return nil
		},
	}
}

func newCreateUserCommand(a *app) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "create-user <username> <password>",
		Short: "Create a login account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			st, closeDB, err := openStore(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer closeDB()
			u, err := newAuthService(a.cfg, st).CreateAccount(ctx, args[0], args[1], auth.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s account %s (id=%d)\n", u.Role.Name, u.Username, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "user", "account role (client|user)")
	return cmd
}

func newResetPasswordCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <username> <password>",
		Short: "Replace the password of an existing account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			st, closeDB, err := openStore(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer closeDB()
			if err := newAuthService(a.cfg, st).ResetPassword(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", args[0])
			return nil
		},
	}
}
