package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/swimtrack/swimtrack/internal/views"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in to the Remote Data Service",
	Long: `Log in and keep the session cookie in the local cache.

The password is read from --password or the SWIMTRACK_PASSWORD
environment variable.

EXAMPLES:

  SWIMTRACK_PASSWORD=secret swimtrack login ana@example.com
  swimtrack login ana@example.com --password secret`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := loginPassword
		if password == "" {
			password = os.Getenv("SWIMTRACK_PASSWORD")
		}
		creds, err := views.LoginForm{Email: args[0], Password: password}.Validate()
		if err != nil {
			return err
		}

		id, err := state.sess.Login(cmd.Context(), creds.Email, creds.Password)
		if err != nil {
			return err
		}
		state.changed = true
		green.Fprintf(cmd.OutOrStdout(), "✓ Logged in as %s", id.Email)
		fmt.Fprintln(cmd.OutOrStdout(), faint.Sprintf(" (%s)", id.Role))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and forget the stored cookie",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := state.sess.Logout(cmd.Context())
		state.changed = true
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := state.sess.User()
		if u == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", bold.Sprint(u.Email), faint.Sprintf("#%d %s", u.ID, u.Role))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}
