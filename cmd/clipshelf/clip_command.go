package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"clipshelf/internal/catalog"
	"clipshelf/internal/clip"
	"clipshelf/internal/relink"
)

func newClipCommand(ctx *commandContext) *cobra.Command {
	var name string
	var category string
	var notes string
	var start float64
	var end float64
	var reEncode bool
	var scale float64
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "clip <analysis-id>",
		Short: "Extract a clip from an analysis's source video",
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
			if !analysis.Video.IsLinked {
				return fmt.Errorf("source video for %s is not linked; run relink first", shortID(analysis.ID))
			}
			if name == "" {
				return errors.New("--name is required")
			}

			pipeline, err := ctx.newPipeline()
			if err != nil {
				return err
			}

			startPtr := &start
			var endPtr *float64
			if end >= 0 {
				endPtr = &end
			}

			folder := analysis.ClipsFolder
			if folder == "" {
				folder = relink.DateFolder(analysis.CreatedTime())
			}
			stem := clip.OutputName(analysis.Video.CurrentPath, startPtr, endPtr, category, name, folder)
			ext := ".mp4"
			if !reEncode && (scale == 0 || scale == 1) {
				if sourceExt := filepath.Ext(analysis.Video.CurrentPath); sourceExt != "" {
					ext = sourceExt
				}
			}
			outputPath := filepath.Join(ctx.cfg.ClipsDir(), folder, stem+ext)

			out := cmd.OutOrStdout()
			onProgress := func(percent int) {
				fmt.Fprintf(out, "\rExtracting... %3d%%", percent)
			}
			if jsonOut {
				onProgress = nil
			}

			result := pipeline.Extract(cmd.Context(), clip.Request{
				Source:       analysis.Video.CurrentPath,
				StartSeconds: startPtr,
				EndSeconds:   endPtr,
				OutputPath:   outputPath,
				ReEncode:     reEncode,
				Scale:        scale,
				OnProgress:   onProgress,
			})
			if !jsonOut {
				fmt.Fprintln(out)
			}

			if !result.Success {
				if jsonOut {
					if err := printJSON(out, result); err != nil {
						return err
					}
				}
				return fmt.Errorf("extraction failed: %s", result.Error)
			}

			created, err := store.CreateClip(catalog.NewClipRequest{
				AnalysisID:   analysis.ID,
				Name:         name,
				StartSeconds: start,
				EndSeconds:   start + result.Duration,
				OutputPath:   result.OutputPath,
				Notes:        notes,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(out, struct {
					Result clip.Result  `json:"result"`
					Clip   catalog.Clip `json:"clip"`
				}{result, created})
			}
			fmt.Fprintf(out, "Wrote %s (%.1fs, %d bytes)\n", result.OutputPath, result.Duration, result.FileSize)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Clip name (required)")
	cmd.Flags().StringVar(&category, "category", "", "Category suffix for derived filenames")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes stored with the clip")
	cmd.Flags().Float64Var(&start, "start", 0, "Start offset in seconds")
	cmd.Flags().Float64Var(&end, "end", -1, "End offset in seconds (omit for end of video)")
	cmd.Flags().BoolVar(&reEncode, "re-encode", false, "Force a frame-accurate re-encode instead of a stream copy")
	cmd.Flags().Float64Var(&scale, "scale", 0, "Resolution multiplier (forces re-encode when not 1)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}
