package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/store"
	"github.com/goliatone/go-formwalk/pkg/validation"
	"github.com/goliatone/go-formwalk/pkg/walker"
)

func newShowCmd(a *app) *cobra.Command {
	var (
		session string
		chat    int64
		check   bool
		plain   bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored greeting and answers",
		Long: `Prints the stored greeting response and answer set. Use --session for a
web session or --chat for a Telegram chat; otherwise the terminal check-in is shown.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			questions, err := a.questions()
			if err != nil {
				return err
			}
			base, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer base.Close()

			st := base
			switch {
			case session != "":
				st = store.WithPrefix(base, "sessions/"+session)
			case chat != 0:
				st = store.WithPrefix(base, "chats/"+strconv.FormatInt(chat, 10))
			}

			heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
			if plain || noColor() {
				heading = lipgloss.NewStyle()
			}
			out := cmd.OutOrStdout()

			for _, key := range []string{flow.DefaultInitialKey, walker.DefaultKey} {
				fmt.Fprintln(out, heading.Render(key))
				data, err := st.Get(ctx, key)
				if errors.Is(err, store.ErrNotFound) {
					fmt.Fprintln(out, "  (not stored)")
					continue
				}
				if err != nil {
					return err
				}
				if err := printJSON(out, data); err != nil {
					return err
				}
			}
			if !check {
				return nil
			}

			result, err := validation.CheckStored(ctx, st, questions, validation.Keys{})
			if err != nil {
				return err
			}
			if result.Valid {
				fmt.Fprintln(out, "schema check passed")
				return nil
			}
			for _, issue := range result.Issues {
				if issue.Field != "" {
					fmt.Fprintf(out, "  %s.%s: %s\n", issue.Key, issue.Field, issue.Message)
				} else {
					fmt.Fprintf(out, "  %s: %s\n", issue.Key, issue.Message)
				}
			}
			return fmt.Errorf("schema check failed with %d issue(s)", len(result.Issues))
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "web session id")
	cmd.Flags().Int64Var(&chat, "chat", 0, "Telegram chat id")
	cmd.Flags().BoolVar(&check, "check", false, "validate the stored blobs against the schema")
	cmd.Flags().BoolVar(&plain, "no-color", false, "disable colors")
	cmd.MarkFlagsMutuallyExclusive("session", "chat")
	return cmd
}

func printJSON(w io.Writer, data []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "  ", "  "); err != nil {
		return fmt.Errorf("stored value is not JSON: %w", err)
	}
	_, err := fmt.Fprintf(w, "  %s\n", buf.String())
	return err
}
