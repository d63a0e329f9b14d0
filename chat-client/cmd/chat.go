package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/weiawesome/paper-review-chat/chat-client/internal/tui"
	"github.com/weiawesome/paper-review-chat/chat-client/internal/view"
)

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the chat transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess := a.newSession()
			if err := mountSession(cmd.Context(), cmd, sess); err != nil {
				return err
			}
			printSnapshot(cmd, sess.Snapshot())
			return nil
		},
	}
}

func (a *app) sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <text>",
		Short: "Send a message to the reviewer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := a.newSession()
			if err := mountSession(cmd.Context(), cmd, sess); err != nil {
				return err
			}

			sess.SetInput(joinArgs(args))
			err := sess.Send(cmd.Context())
			snap := sess.Snapshot()
			if err != nil && snap.Err == nil {
				// Rejected before anything was sent.
				return err
			}

			printSnapshot(cmd, snap)
			if err != nil {
				return &renderedError{err: err}
			}
			return nil
		},
	}
}

func (a *app) chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			styles := view.PlainStyles()
			if term.IsTerminal(int(os.Stdout.Fd())) {
				styles = view.DefaultStyles()
			}
			return tui.Run(cmd.Context(), a.newSession(), styles)
		},
	}
}
