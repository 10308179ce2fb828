package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print version, commit, and build information for the routematch CLI.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()

			if short {
				fmt.Fprintln(out, version)
				return
			}

			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Version:   "), version)
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Commit:    "), commit)
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Built:     "), date)
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Go version:"), runtime.Version())
			fmt.Fprintf(out, "%s %s/%s\n", labelStyle.Render("OS/Arch:   "), runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")

	return cmd
}
