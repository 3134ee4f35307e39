// Command kith is a personal relationship tracker with AI-assisted
// interaction logging. Parsing and transcription run fully locally via
// Ollama and whisper.cpp.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "kith",
		Short: "Track the people in your life and your interactions with them",
		Long: `kith keeps a local record of your network and the interactions you log.

Descriptions are parsed by a local Ollama model into structured records,
reviewed interactively, and matched against your existing contacts. Voice
recordings are transcribed locally with whisper.cpp first. Corrections you
make during review teach the parser over time.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "kith.yaml", "Path to the YAML configuration file")

	rootCmd.AddCommand(
		newVersionCmd(),
		newLogCmd(),
		newVoiceLogCmd(),
		newCorrectionsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kith version %s\n", version)
		},
	}
}
