package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jward/javadex/internal/config"
)

var (
	flagDB               string
	flagMavenRepo        string
	flagGradleRepo       string
	flagIncludedPackages []string
	flagDecompilerPath   string
	flagJavapTool        string
	flagVersionStrategy  string
)

var rootCmd = &cobra.Command{
	Use:           "javadex",
	Short:         "Index and query local Java dependency caches",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "javadex.db", "path to the persistent store")
	rootCmd.PersistentFlags().StringVar(&flagMavenRepo, "maven-repo", "", "absolute path of a Maven-layout root")
	rootCmd.PersistentFlags().StringVar(&flagGradleRepo, "gradle-repo", "", "absolute path of a Gradle-layout root")
	rootCmd.PersistentFlags().StringSliceVar(&flagIncludedPackages, "included-packages", nil, "dotted package prefixes to index; empty means all")
	rootCmd.PersistentFlags().StringVar(&flagDecompilerPath, "decompiler-path", "", "absolute path of the decompiler archive")
	rootCmd.PersistentFlags().StringVar(&flagJavapTool, "javap-tool", "", "path to the external signature extractor")
	rootCmd.PersistentFlags().StringVar(&flagVersionStrategy, "version-strategy", "semver", "semver | latest-published | latest-used")

	rootCmd.AddCommand(indexCmd, refreshCmd, searchClassesCmd, searchImplementationsCmd,
		searchResourcesCmd, searchArtifactsCmd, detailCmd)
}

func currentConfig() config.Config {
	return config.Config{
		MavenRepo:        flagMavenRepo,
		GradleRepo:       flagGradleRepo,
		IncludedPackages: flagIncludedPackages,
		DecompilerPath:   flagDecompilerPath,
		VersionStrategy:  config.VersionStrategy(flagVersionStrategy),
		StorePath:        flagDB,
		JavapTool:        flagJavapTool,
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
