// Command-line client for a running mockchat server
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mockchat/mockchat/config"
	"mockchat/mockchat/sources/store"
	"mockchat/mockchat/utils/color"
	httputils "mockchat/mockchat/utils/http"
	"mockchat/mockchat/utils/types"

	"github.com/spf13/cobra"
)

type cliOptions struct {
	apiBase string
	userID  string
	token   string
	tone    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(config.LoadConfig()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, color.ColorError(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:           "mockchat",
		Short:         "Talk to a mockchat server from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	defaultUser := os.Getenv("MOCKCHAT_USER")
	if defaultUser == "" {
		defaultUser = "cli"
	}
	root.PersistentFlags().StringVar(&opts.apiBase, "api", cfg.APIBase, "server base URL")
	root.PersistentFlags().StringVarP(&opts.userID, "user", "u", defaultUser, "user id")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("MOCKCHAT_TOKEN"), "bearer token")
	root.PersistentFlags().StringVar(&opts.tone, "tone", "", `reply tone, e.g. "Be friendly and casual"`)

	root.AddCommand(
		newSendCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
		newTitleCmd(opts),
		newClearCmd(opts),
		newTokenCmd(opts),
		newReplCmd(opts),
	)
	return root
}

func (o *cliOptions) client() *httputils.Client {
	return httputils.NewClient(o.apiBase, o.token)
}

// exchange posts prompt to a conversation and streams the reply to stdout.
// It returns the conversation id, minted by the server when convID is empty.
func (o *cliOptions) exchange(ctx context.Context, convID, prompt string) (string, error) {
	c := o.client()
	var resp types.ChatResponse
	err := c.PostJSON(ctx, "/api/chat", types.ChatRequest{
		UserID:         o.userID,
		ConversationID: convID,
		Messages: []store.Message{{
			Role:    store.RoleUser,
			Content: prompt,
			Ts:      time.Now().UnixMilli(),
		}},
		SystemPrompt: o.tone,
	}, &resp)
	if err != nil {
		return "", err
	}

	q := url.Values{
		"userId":         {o.userID},
		"conversationId": {resp.ConversationID},
		"prompt":         {prompt},
		"systemPrompt":   {o.tone},
	}
	first := true
	err = c.StreamSSE(ctx, "/api/chat/sse?"+q.Encode(), func(tok string) {
		if !first {
			fmt.Print(" ")
		}
		first = false
		fmt.Print(color.ColorAssistant(tok))
	})
	fmt.Println()
	return resp.ConversationID, err
}

func newSendCmd(opts *cliOptions) *cobra.Command {
	var convID string
	cmd := &cobra.Command{
		Use:   "send <message...>",
		Short: "Send one message and stream the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := opts.exchange(cmd.Context(), convID, strings.Join(args, " "))
			if id != "" {
				fmt.Println(color.ColorMuted("conversation: " + id))
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&convID, "conversation", "c", "", "conversation id (new when empty)")
	return cmd
}

func newListCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List conversations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []store.Summary
			if err := opts.client().GetJSON(cmd.Context(), "/api/conversations?userId="+url.QueryEscape(opts.userID), &list); err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println(color.ColorInfo("no conversations yet"))
				return nil
			}
			for _, s := range list {
				when := "-"
				if s.Ts != nil {
					when = time.UnixMilli(*s.Ts).Format(time.DateTime)
				}
				fmt.Printf("%s  %s  %s\n    %s\n", color.ColorPrompt(s.ID), s.Title, color.ColorMuted(when), s.Last)
			}
			return nil
		},
	}
}

func newShowCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <conversation-id>",
		Short: "Print the messages of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var msgs []store.Message
			path := "/api/conversations/" + url.PathEscape(args[0]) + "?userId=" + url.QueryEscape(opts.userID)
			if err := opts.client().GetJSON(cmd.Context(), path, &msgs); err != nil {
				return err
			}
			for _, m := range msgs {
				fmt.Printf("%s %s\n", color.ColorMuted(m.Role+":"), color.ForRole(m.Role, m.Content))
				for _, a := range m.Attachments {
					fmt.Println(color.ColorMuted("  attachment " + a))
				}
			}
			return nil
		},
	}
}

func newTitleCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "title <conversation-id> [title...]",
		Short: "Set a conversation title, or regenerate it when none is given",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp types.TitleResponse
			err := opts.client().PostJSON(cmd.Context(), "/api/conversations/"+url.PathEscape(args[0])+"/title",
				types.TitleRequest{UserID: opts.userID, Title: strings.Join(args[1:], " ")}, &resp)
			if err != nil {
				return err
			}
			fmt.Println(color.ColorInfo(resp.Title))
			return nil
		},
	}
}

func newClearCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Wipe every conversation (server needs dev routes enabled)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp types.StatusResponse
			if err := opts.client().PostJSON(cmd.Context(), "/api/clear", struct{}{}, &resp); err != nil {
				return err
			}
			fmt.Println(color.ColorWarning(resp.Status))
			return nil
		},
	}
}

func newTokenCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Request a signed token for --user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp types.TokenResponse
			if err := opts.client().PostJSON(cmd.Context(), "/api/auth/token", types.TokenRequest{UserID: opts.userID}, &resp); err != nil {
				return err
			}
			fmt.Println(resp.Token)
			return nil
		},
	}
}

func newReplCmd(opts *cliOptions) *cobra.Command {
	var convID string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Chat interactively in one conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(color.ColorInfo("Connected to " + opts.apiBase + " as " + opts.userID))
			fmt.Println("Type a message, '/new' for a fresh conversation, or 'exit' to quit.")
			fmt.Println()

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print(color.ColorPrompt("you> "))
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case "exit", "quit":
					fmt.Println("Goodbye!")
					return nil
				case "/new":
					convID = ""
					fmt.Println(color.ColorMuted("starting a new conversation"))
					continue
				}
				id, err := opts.exchange(cmd.Context(), convID, line)
				if err != nil {
					if cmd.Context().Err() != nil {
						return nil
					}
					fmt.Println(color.ColorError(err.Error()))
				}
				if id != "" {
					convID = id
				}
			}
			return scanner.Err()
		},
	}
	cmd.Flags().StringVarP(&convID, "conversation", "c", "", "conversation id to continue")
	return cmd
}
