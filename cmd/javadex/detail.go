package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jward/javadex"
)

var (
	detailKind       string
	detailCoordinate string
)

var detailCmd = &cobra.Command{
	Use:   "detail [className]",
	Short: "Fetch signatures, docs, or source for a class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		className := args[0]
		e, err := javadex.New(currentConfig())
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := context.Background()
		kind := javadex.DetailKind(detailKind)

		if detailCoordinate == "" {
			result, artifact, err := e.GetClassDetailResolved(ctx, className, kind)
			if err != nil {
				return err
			}
			return printDetail(cmd, artifact.Coordinate(), result)
		}

		return fmt.Errorf("--coordinate lookup requires resolving a pinned artifact, not yet wired in this harness")
	},
}

func init() {
	detailCmd.Flags().StringVar(&detailKind, "type", "docs", "signatures | docs | source")
	detailCmd.Flags().StringVar(&detailCoordinate, "coordinate", "", "pin groupId:artifactId:version instead of resolving the best match")
}

func printDetail(cmd *cobra.Command, coordinate string, d *javadex.Detail) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "artifact: %s\n", coordinate)
	if d.Language != "" {
		fmt.Fprintf(out, "language: %s (decompiled=%v)\n", d.Language, d.UsedDecompilation)
	}
	if d.Doc != "" {
		fmt.Fprintf(out, "doc: %s\n", d.Doc)
	}
	for _, sig := range d.Signatures {
		fmt.Fprintln(out, sig)
	}
	return nil
}
