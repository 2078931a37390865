package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/renderers/tui"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		multiline bool
		plain     bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an interactive check-in in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			questions, err := a.questions()
			if err != nil {
				return err
			}
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			f, err := flow.New(questions,
				flow.WithStore(st),
				flow.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}

			driver := a.driver
			if driver == nil {
				driver = tui.NewSurveyDriver(cmd.OutOrStdout())
			}
			session := tui.NewSession(
				tui.WithPromptDriver(driver),
				tui.WithNoColor(plain || noColor()),
				tui.WithMultilineText(multiline),
				tui.WithLogger(a.logger),
			)
			return session.Run(ctx, f)
		},
	}
	cmd.Flags().BoolVar(&multiline, "multiline", false, "answer free-text questions in an editor-style prompt")
	cmd.Flags().BoolVar(&plain, "no-color", false, "disable colors")
	return cmd
}
