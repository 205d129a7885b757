package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/fraudscope/internal/config"
	"github.com/jask/fraudscope/internal/service"
)

// readSecret returns flagValue, then $FRAUDSCOPE_PASSWORD, then the first
// line of stdin.
func readSecret(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv("FRAUDSCOPE_PASSWORD"); v != "" {
		return v, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as the analyst",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setupEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			if username == "" {
				username = e.cfg.Auth.Username
			}
			secret, err := readSecret(cmd, password)
			if err != nil {
				return err
			}
			if err := e.auth.Login(cmd.Context(), username, secret); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed in as", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username (default auth.username)")
	cmd.Flags().StringVar(&password, "password", "", "password (default $FRAUDSCOPE_PASSWORD, else prompt)")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setupEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			if err := e.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newPasswdCmd() *cobra.Command {
	var (
		password string
		write    bool
	)
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Print a bcrypt hash for auth.password_hash, or store it with --write",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := readSecret(cmd, password)
			if err != nil {
				return err
			}
			if secret == "" {
				return errors.New("password must not be empty")
			}
			hash, err := service.HashPassword(secret)
			if err != nil {
				return err
			}
			if !write {
				fmt.Fprintln(cmd.OutOrStdout(), hash)
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.Auth.PasswordHash = hash
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password to hash (default $FRAUDSCOPE_PASSWORD, else prompt)")
	cmd.Flags().BoolVar(&write, "write", false, "store the hash in the config file instead of printing it")
	return cmd
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored rule, the change log and the sign-in flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset is destructive; pass --yes to confirm")
			}
			e, err := setupEnv(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.Close()
			if err := e.maintenance.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Local data reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
