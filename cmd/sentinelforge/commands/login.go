package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sentinelforge/sentinelforge/internal/api"
)

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the backend and store a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}

			if username == "" {
				fmt.Print("Username: ")
				if _, err := fmt.Scanln(&username); err != nil {
					return fmt.Errorf("reading username: %w", err)
				}
			}
			if password == "" {
				fmt.Print("Password: ")
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Println()
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
				password = strings.TrimSpace(string(raw))
			}

			identity, err := client.Login(cmd.Context(), username, password)
			if err != nil {
				var apiErr *api.APIError
				if errors.As(err, &apiErr) && (apiErr.Status == 400 || apiErr.Status == 403) {
					return fmt.Errorf("invalid credentials")
				}
				if errors.Is(err, api.ErrUnauthorized) {
					return fmt.Errorf("invalid credentials")
				}
				return err
			}

			fmt.Printf("Logged in as %s (%s)\n", identity.Username, identity.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted if omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the session and clear the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			// Server notification is best-effort; the local token is
			// cleared regardless.
			if err := client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity of the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := setup()
			if err != nil {
				return err
			}
			identity := client.CurrentIdentity()
			if identity == nil {
				return fmt.Errorf("not logged in")
			}
			fmt.Printf("%s (%s)\n", identity.Username, identity.Role)
			if !identity.ExpiresAt.IsZero() {
				fmt.Printf("token expires %s\n", identity.ExpiresAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
