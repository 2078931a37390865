package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwalk/pkg/question"
	"github.com/goliatone/go-formwalk/pkg/schema"
)

func newSchemaCmd(a *app) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the OpenAPI document of the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			questions, err := a.questions()
			if err != nil {
				return err
			}
			doc, err := schema.Document(cmd.Context(), questions)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encode document: %w", err)
			}
			if asYAML {
				var generic any
				if err := json.Unmarshal(data, &generic); err != nil {
					return err
				}
				if data, err = yaml.Marshal(generic); err != nil {
					return fmt.Errorf("encode document: %w", err)
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML instead of JSON")
	return cmd
}

func newQuestionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Print the active question set as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			questions, err := a.questions()
			if err != nil {
				return err
			}
			data, err := question.MarshalYAML(questions)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
