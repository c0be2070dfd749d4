package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Parse the schema and print it in normalized form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := a.loadSchema()
			if err != nil {
				return err
			}
			out, err := s.ToYAML()
			if err != nil {
				return exitWith(exitSchema, fmt.Errorf("cannot serialize schema: %w", err))
			}
			_, err = a.stdout.Write(out)
			return err
		},
	}
}
