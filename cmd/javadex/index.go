package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jward/javadex"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Scan configured roots and ingest not-yet-indexed artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := javadex.New(currentConfig())
		if err != nil {
			return err
		}
		defer e.Close()
		return e.Index(context.Background())
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Clear every ingested row and index from scratch",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := javadex.New(currentConfig())
		if err != nil {
			return err
		}
		defer e.Close()
		return e.Refresh(context.Background())
	},
}
