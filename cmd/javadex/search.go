package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jward/javadex"
)

var searchArtifactsCmd = &cobra.Command{
	Use:   "search-artifacts [substring]",
	Short: "Match a substring against groupId or artifactId",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := javadex.New(currentConfig())
		if err != nil {
			return err
		}
		defer e.Close()
		result, err := e.SearchArtifacts(context.Background(), args[0])
		if err != nil {
			return err
		}
		for _, a := range result.Items {
			fmt.Fprintln(cmd.OutOrStdout(), a.Coordinate())
		}
		return nil
	},
}

var searchClassesCmd = &cobra.Command{
	Use:   "search-classes [query]",
	Short: "Search classes by fragment, glob (*, ?), or regex: prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := javadex.New(currentConfig())
		if err != nil {
			return err
		}
		defer e.Close()
		result, err := e.SearchClasses(context.Background(), args[0])
		if err != nil {
			return err
		}
		for _, m := range result.Items {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d artifact(s))\n", m.FQName, len(m.Artifacts))
		}
		return nil
	},
}

var searchImplementationsCmd = &cobra.Command{
	Use:   "search-implementations [fqName]",
	Short: "List transitive extenders/implementors of a class or interface",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := javadex.New(currentConfig())
		if err != nil {
			return err
		}
		defer e.Close()
		result, err := e.SearchImplementations(context.Background(), args[0])
		if err != nil {
			return err
		}
		for _, m := range result.Items {
			fmt.Fprintln(cmd.OutOrStdout(), m.FQName)
		}
		return nil
	},
}

var searchResourcesCmd = &cobra.Command{
	Use:   "search-resources [pattern]",
	Short: "Match a substring against resource paths",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := javadex.New(currentConfig())
		if err != nil {
			return err
		}
		defer e.Close()
		result, err := e.SearchResources(context.Background(), args[0])
		if err != nil {
			return err
		}
		for _, m := range result.Items {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", m.Path, m.Artifact.Coordinate())
		}
		return nil
	},
}
