package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/weiawesome/paper-review-chat/chat-client/internal/domain"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/identity"
	"github.com/weiawesome/paper-review-chat/pkg/log"
)

var errNotLoggedIn = errors.New("not logged in")

func (a *app) loginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if email, err = promptIfEmpty(cmd, in, email, "Email: "); err != nil {
				return err
			}
			password, err := promptPassword(cmd, in)
			if err != nil {
				return err
			}

			resp, err := a.api.Login(cmd.Context(), domain.LoginRequest{Email: email, Password: password})
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			return a.remember(cmd, resp)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (a *app) registerCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if name, err = promptIfEmpty(cmd, in, name, "Name: "); err != nil {
				return err
			}
			if email, err = promptIfEmpty(cmd, in, email, "Email: "); err != nil {
				return err
			}
			password, err := promptPassword(cmd, in)
			if err != nil {
				return err
			}

			resp, err := a.api.Register(cmd.Context(), domain.RegisterRequest{Name: name, Email: email, Password: password})
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			return a.remember(cmd, resp)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the logged-in user id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, err := a.store.Load()
			if err != nil {
				return err
			}
			if !creds.Authenticated() || creds.UserID == "" {
				return errNotLoggedIn
			}
			fmt.Fprintln(cmd.OutOrStdout(), creds.UserID)
			return nil
		},
	}
}

func (a *app) remember(cmd *cobra.Command, resp *domain.AuthResponse) error {
	if err := a.store.Save(&identity.Credentials{
		UserID:    resp.User.UniqueID,
		AuthToken: resp.AccessToken,
	}); err != nil {
		return err
	}

	l := log.Ctx(cmd.Context())
	l.Debug().
		Str(log.FieldUserID, resp.User.UniqueID).
		Str("path", a.store.Path()).
		Msg("session saved")

	who := resp.User.Name
	if who == "" {
		who = resp.User.UniqueID
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", who)
	return nil
}

func promptIfEmpty(cmd *cobra.Command, in *bufio.Reader, value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo when stdin is a terminal.
func promptPassword(cmd *cobra.Command, in *bufio.Reader) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := promptIfEmpty(cmd, in, "", "Password: ")
	if err != nil {
		return "", err
	}
	return line, nil
}
