// Package account holds the commands that talk to the identity provider.
package account

import (
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ramana-ai/ramana/configuration"
	"github.com/ramana-ai/ramana/internal/auth"
	"github.com/ramana-ai/ramana/internal/cli"
)

// NewLoginCmd instantiates and returns the login command.
func NewLoginCmd(config *configuration.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in to your account",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(config)
			if err != nil {
				return err
			}
			email, password, err := promptCredentials()
			if err != nil {
				return err
			}
			session, err := client.SignIn(cmd.Context(), email, password)
			if err != nil {
				return errors.Wrap(err, "signing in")
			}
			if err := auth.SaveSession(config.SessionFile, session); err != nil {
				return errors.Wrap(err, "caching session")
			}
			cli.UserCommand("Logged in as %s\n", session.DisplayName())
			return nil
		},
	}
}

// NewSignupCmd instantiates and returns the signup command.
func NewSignupCmd(config *configuration.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(config)
			if err != nil {
				return err
			}
			email, password, err := promptCredentials()
			if err != nil {
				return err
			}
			session, err := client.SignUp(cmd.Context(), email, password)
			if err != nil {
				return errors.Wrap(err, "signing up")
			}
			if session.AccessToken == "" {
				cli.UserCommand("Account created. Check your inbox to confirm, then run `ramana login`.\n")
				return nil
			}
			if err := auth.SaveSession(config.SessionFile, session); err != nil {
				return errors.Wrap(err, "caching session")
			}
			cli.UserCommand("Account created. Logged in as %s\n", session.DisplayName())
			return nil
		},
	}
}

// NewLogoutCmd instantiates and returns the logout command.
func NewLogoutCmd(config *configuration.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the cached session",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := auth.LoadSession(config.SessionFile)
			if err != nil {
				return errors.Wrap(err, "loading session")
			}
			if session == nil {
				cli.UserCommand("Not logged in.\n")
				return nil
			}
			client, err := newClient(config)
			if err != nil {
				return err
			}
			if err := client.SignOut(cmd.Context(), session.AccessToken); err != nil {
				// The provider may have expired the token already; the
				// local session goes away either way.
				cli.Warning("Sign-out call failed: %v\n", err)
			}
			if err := auth.ClearSession(config.SessionFile); err != nil {
				return errors.Wrap(err, "clearing session")
			}
			cli.UserCommand("Logged out.\n")
			return nil
		},
	}
}

// NewWhoamiCmd instantiates and returns the whoami command.
func NewWhoamiCmd(config *configuration.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := auth.LoadSession(config.SessionFile)
			if err != nil {
				return errors.Wrap(err, "loading session")
			}
			if session == nil {
				cli.UserCommand("Not logged in.\n")
				return nil
			}
			cli.UserCommand("%s\n", session.DisplayName())
			return nil
		},
	}
}

// RequireSession returns the cached session or an actionable error.
func RequireSession(config *configuration.Config) (*auth.Session, error) {
	session, err := auth.LoadSession(config.SessionFile)
	if err != nil {
		return nil, errors.Wrap(err, "loading session")
	}
	if session == nil {
		return nil, errors.New("not logged in: run `ramana login` first")
	}
	return session, nil
}

func newClient(config *configuration.Config) (*auth.Client, error) {
	if config.AuthURL == "" {
		return nil, errors.New("no identity provider configured: set auth_url in the config or RAMANA_AUTH_URL")
	}
	return auth.NewClient(strings.TrimRight(config.AuthURL, "/"), config.AuthKey), nil
}

func promptCredentials() (string, string, error) {
	var email, password string
	if err := survey.AskOne(&survey.Input{Message: "Email:"}, &email, survey.WithValidator(survey.Required)); err != nil {
		return "", "", err
	}
	if err := survey.AskOne(&survey.Password{Message: "Password:"}, &password, survey.WithValidator(survey.Required)); err != nil {
		return "", "", err
	}
	return email, password, nil
}
