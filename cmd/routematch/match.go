package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dunglas/go-routematch"
	"github.com/spf13/cobra"
)

var errNoMatch = errors.New("no match")

func matchCmd() *cobra.Command {
	var (
		flags optionFlags
		isURL bool
	)

	cmd := &cobra.Command{
		Use:   "match <pattern> <input>...",
		Short: "Match inputs against a matcher string",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			m, err := routematch.Compile(args[0], flags.options())
			if err != nil {
				printParseError(cmd.ErrOrStderr(), err)
				return errInvalidPatterns
			}

			missed := false
			for _, input := range args[1:] {
				var (
					captures routematch.Captures
					ok       bool
				)
				if isURL {
					if captures, ok, err = m.MatchURL(input); err != nil {
						return fmt.Errorf("parse %q: %w", input, err)
					}
				} else {
					captures, ok = m.Match(input)
				}

				if !ok {
					failure(out, "%s", input)
					missed = true

					continue
				}

				success(out, "%s", input)
				printCaptures(out, captures)
			}

			if missed {
				return errNoMatch
			}

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&isURL, "url", "u", false, "parse inputs as URLs and match their path, query and fragment")

	return cmd
}

func expandCmd() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "expand <pattern> [name=value...]",
		Short: "Build the string a matcher string matches from capture values",
		Long: `Build the string a matcher string matches from capture values.
Captures are given by name, or by declaration index for unnamed ones ("0=value").`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := routematch.Compile(args[0], flags.options())
			if err != nil {
				printParseError(cmd.ErrOrStderr(), err)
				return errInvalidPatterns
			}

			values := make(map[string]string, len(args)-1)
			for _, arg := range args[1:] {
				name, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("invalid capture value %q: expected name=value", arg)
				}
				values[name] = value
			}

			result, err := m.Expand(values)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result)

			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
