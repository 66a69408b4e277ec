package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clipshelf/internal/catalog"
	"clipshelf/internal/config"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var title string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "add <video-path>",
		Short: "Register a video in the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(title) == "" {
				title = stemOf(path)
			}

			analysis, err := store.CreateAnalysis(title, path, catalog.FileBundle{}, catalog.Metadata{})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				return printJSON(out, analysis)
			}
			fmt.Fprintf(out, "Added %s (%s, %s)\n", analysis.Title, shortID(analysis.ID), linkLabel(analysis.Video.IsLinked))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Analysis title (defaults to the filename)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var includeArchived bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List analyses in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}

			analyses := store.ListAnalyses(includeArchived)
			out := cmd.OutOrStdout()
			if jsonOut {
				if analyses == nil {
					analyses = []catalog.Analysis{}
				}
				return printJSON(out, analyses)
			}
			if len(analyses) == 0 {
				fmt.Fprintln(out, "No analyses in the catalog.")
				return nil
			}

			rows := make([][]string, 0, len(analyses))
			for _, a := range analyses {
				rows = append(rows, []string{
					shortID(a.ID),
					a.Title,
					formatTimestamp(a.CreatedAt),
					linkLabel(a.Video.IsLinked),
					strconv.Itoa(len(a.ClipIDs)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Created", "Link", "Clips"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeArchived, "archived", false, "Include archived analyses")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <analysis-id>",
		Short: "Show one analysis and its clips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			analysis, err := resolveAnalysis(store, args[0])
			if err != nil {
				return err
			}
			clips, err := store.ClipsForAnalysis(analysis.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return printJSON(out, struct {
					Analysis catalog.Analysis `json:"analysis"`
					Clips    []catalog.Clip   `json:"clips"`
				}{analysis, clips})
			}

			fmt.Fprintf(out, "%s\n", analysis.Title)
			fmt.Fprintf(out, "  id:       %s\n", analysis.ID)
			fmt.Fprintf(out, "  created:  %s\n", formatTimestamp(analysis.CreatedAt))
			fmt.Fprintf(out, "  source:   %s (%s)\n", analysis.Video.CurrentPath, linkLabel(analysis.Video.IsLinked))
			if analysis.Video.CurrentPath != analysis.Video.OriginalPath {
				fmt.Fprintf(out, "  original: %s\n", analysis.Video.OriginalPath)
			}
			if analysis.Archived {
				fmt.Fprintln(out, "  archived: yes")
			}
			if len(analysis.Metadata.Categories) > 0 {
				fmt.Fprintf(out, "  tags:     %s\n", strings.Join(analysis.Metadata.Categories, ", "))
			}

			if len(clips) == 0 {
				fmt.Fprintln(out, "No clips.")
				return nil
			}
			rows := make([][]string, 0, len(clips))
			for _, c := range clips {
				rows = append(rows, []string{
					shortID(c.ID),
					c.Name,
					formatRange(c.StartSeconds, c.EndSeconds),
					c.OutputPath,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Name", "Range", "Output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}

// resolveAnalysis accepts a full or shortened (unique prefix) analysis id.
func resolveAnalysis(store *catalog.Store, id string) (catalog.Analysis, error) {
	if analysis, err := store.GetAnalysis(id); err == nil {
		return analysis, nil
	}

	var matches []catalog.Analysis
	for _, a := range store.ListAnalyses(true) {
		if strings.HasPrefix(a.ID, id) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return catalog.Analysis{}, fmt.Errorf("no analysis matches %q", id)
	default:
		return catalog.Analysis{}, fmt.Errorf("analysis id %q is ambiguous (%d matches)", id, len(matches))
	}
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
