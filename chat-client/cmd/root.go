package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/weiawesome/paper-review-chat/chat-client/internal/client"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/config"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/identity"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/pagectx"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/session"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/view"
	"github.com/weiawesome/paper-review-chat/pkg/log"
)

// renderedError marks a failure whose text was already printed as part of
// the command output.
type renderedError struct{ err error }

func (e *renderedError) Error() string { return e.err.Error() }
func (e *renderedError) Unwrap() error { return e.err }

type app struct {
	configPath string
	paperFlag  string
	urlFlag    string
	userFlag   string

	cfg   *config.Config
	store *identity.FileStore
	api   *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "paperchat",
		Short:         "Chat with the reviewer assigned to your paper",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./config/paperchat.yaml)")
	root.PersistentFlags().StringVar(&a.paperFlag, "paper", "", "paper id")
	root.PersistentFlags().StringVar(&a.urlFlag, "url", "", "page URL carrying ?paperId=")
	root.PersistentFlags().StringVar(&a.userFlag, "user", "", "act as this user id instead of the logged-in one")

	root.AddCommand(
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.showCmd(),
		a.sendCmd(),
		a.chatCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	log.Init(log.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "paperchat",
		Output:      os.Stderr,
	})
	cmd.SetContext(log.WithLogger(cmd.Context(), log.L()))

	a.store = identity.NewFileStore(cfg.Identity.Path)
	creds, err := a.store.Load()
	if err != nil {
		return err
	}

	jar, err := client.NewCookieJar(cfg.API.BaseURL, creds.AuthToken)
	if err != nil {
		return err
	}
	a.api, err = client.New(client.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Jar:     jar,
		Logger:  log.L(),
	})
	return err
}

func (a *app) provider() identity.Provider {
	if a.userFlag != "" {
		return identity.Static(a.userFlag)
	}
	return a.store
}

func (a *app) paperID() string {
	return pagectx.Resolve(a.paperFlag, pagectx.FromURL(a.urlFlag), a.cfg.Paper.DefaultID)
}

func (a *app) newSession() *session.Session {
	return session.New(a.api, a.provider(), a.paperID(),
		session.WithExclusiveSend(a.cfg.Chat.ExclusiveSend),
	)
}

// printSnapshot writes the rendered session to stdout, styled only when
// stdout is a terminal.
func printSnapshot(cmd *cobra.Command, snap session.Snapshot) {
	styles := view.PlainStyles()
	width := 0
	if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		styles = view.DefaultStyles()
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = w
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), view.Render(snap, styles, width))
}

func mountSession(ctx context.Context, cmd *cobra.Command, sess *session.Session) error {
	if err := sess.Mount(ctx); err != nil {
		printSnapshot(cmd, sess.Snapshot())
		return &renderedError{err: err}
	}
	return nil
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
