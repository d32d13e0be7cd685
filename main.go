package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "featureme",
		Short:   "FeatureMe - social network for musicians",
		Version: Version,
	}
	rootCmd.PersistentFlags().StringSlice("env", []string{".env"}, "env files to load before reading the environment")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(indexesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
