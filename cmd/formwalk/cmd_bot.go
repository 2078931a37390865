package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwalk/pkg/telegram"
)

func newBotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run check-ins as a Telegram bot",
		Long:  "Runs until interrupted. The token is read from telegram.token or FORMWALK_TELEGRAM_TOKEN.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if a.cfg.Telegram.Token == "" {
				return errors.New("telegram token is required (telegram.token or FORMWALK_TELEGRAM_TOKEN)")
			}
			questions, err := a.questions()
			if err != nil {
				return err
			}
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			b, err := telegram.New(questions,
				telegram.WithStore(st),
				telegram.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			return b.Start(ctx, a.cfg.Telegram.Token)
		},
	}
}
