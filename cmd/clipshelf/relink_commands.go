package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipshelf/internal/config"
	"clipshelf/internal/relink"
)

func newRelinkCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "relink <analysis-id> [path]",
		Short: "Repair a broken video reference, automatically or by explicit path",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			matcher, err := ctx.openMatcher()
			if err != nil {
				return err
			}
			analysis, err := resolveAnalysis(store, args[0])
			if err != nil {
				return err
			}

			var result relink.Result
			if len(args) == 2 {
				path, err := config.ExpandPath(args[1])
				if err != nil {
					return err
				}
				result, err = matcher.ManualRelink(analysis.ID, path)
				if err != nil {
					return err
				}
			} else {
				result, err = matcher.AutoRelink(analysis.ID)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return printJSON(out, result)
			}

			switch {
			case result.Success && result.SuggestedPath != "":
				if result.Confidence != "" {
					fmt.Fprintf(out, "Matched (%s confidence): %s\n", result.Confidence, result.SuggestedPath)
				} else {
					fmt.Fprintf(out, "Relinked to %s\n", result.SuggestedPath)
				}
			case result.Success:
				fmt.Fprintln(out, "No confident match. Candidates:")
				for _, c := range result.Candidates {
					fmt.Fprintf(out, "  %.2f  %s\n", c.Score, c.FullPath)
				}
			default:
				fmt.Fprintf(out, "Relink failed: %s\n", result.Reason)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Sweep every analysis and reconcile link health",
		RunE: func(cmd *cobra.Command, args []string) error {
			matcher, err := ctx.openMatcher()
			if err != nil {
				return err
			}
			summary, err := matcher.VerifyAll()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return printJSON(out, summary)
			}
			fmt.Fprintf(out, "Checked %d analyses: %d linked, %d broken", summary.Total, summary.Linked, summary.Broken)
			if summary.Fixed > 0 {
				fmt.Fprintf(out, " (%d fixed this sweep)", summary.Fixed)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search the clip collection by filename substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matcher, err := ctx.openMatcher()
			if err != nil {
				return err
			}
			matches, err := matcher.SearchCollection(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				if matches == nil {
					matches = []string{}
				}
				return printJSON(out, matches)
			}
			if len(matches) == 0 {
				fmt.Fprintf(out, "No files match %q.\n", args[0])
				return nil
			}
			for _, match := range matches {
				fmt.Fprintln(out, match)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}
