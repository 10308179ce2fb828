package main

import (
	"errors"

	"github.com/dunglas/go-routematch"
	"github.com/dunglas/go-routematch/internal/config"
	"github.com/spf13/cobra"
)

// optionFlags binds the matcher options to command flags.
type optionFlags struct {
	strict          bool
	caseInsensitive bool
	incomplete      bool
}

func (o *optionFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.strict, "strict", false, "do not accept an optional trailing slash")
	cmd.Flags().BoolVarP(&o.caseInsensitive, "ignore-case", "i", false, "compare literals case-insensitively")
	cmd.Flags().BoolVar(&o.incomplete, "incomplete", false, "allow input to remain after the pattern")
}

func (o *optionFlags) options() routematch.Options {
	return routematch.Options{Strict: o.strict, CaseInsensitive: o.caseInsensitive, Incomplete: o.incomplete}
}

var errInvalidPatterns = errors.New("invalid matcher strings")

func checkCmd(c *cli) *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "check [pattern...]",
		Short: "Validate matcher strings",
		Long: `Validate the given matcher strings, or every route of the route table
when none is given. Errors point at the offending character.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				table, err := config.Build(c.config)
				if err != nil {
					return err
				}

				for _, r := range table.Routes() {
					success(out, "%s %s", r.Name, r.Matcher)
				}

				return nil
			}

			failed := false
			for _, pattern := range args {
				m, err := routematch.Compile(pattern, flags.options())
				if err != nil {
					printParseError(out, err)
					failed = true

					continue
				}

				success(out, "%s (%d captures)", m, m.NumCaptures())
			}

			if failed {
				return errInvalidPatterns
			}

			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
