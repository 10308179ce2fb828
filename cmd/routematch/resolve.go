package main

import (
	"fmt"

	"github.com/dunglas/go-routematch/internal/config"
	"github.com/spf13/cobra"
)

func resolveCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <url>...",
		Short: "Find the first route of the route table matching each URL",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			table, err := config.Build(c.config)
			if err != nil {
				return err
			}

			missed := false
			for _, input := range args {
				m, ok, err := table.LookupURL(input)
				if err != nil {
					return fmt.Errorf("parse %q: %w", input, err)
				}

				if !ok {
					failure(out, "%s", input)
					missed = true

					continue
				}

				success(out, "%s %s", input, labelStyle.Render("→ "+m.Name))
				printCaptures(out, m.Captures)
			}

			if missed {
				return errNoMatch
			}

			return nil
		},
	}

	return cmd
}
