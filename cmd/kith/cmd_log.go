package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrWong99/kith/internal/transcribe"
)

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "log <description>",
		Short:   "Log an interaction from a natural language description",
		Example: "  kith log Had coffee with John at Starbucks, talked about his new job",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) error {
				return a.pipeline(nil).LogText(ctx, strings.Join(args, " "))
			})
		},
	}
}

func newVoiceLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "voice-log <wav-file>",
		Short:   "Log an interaction from a WAV voice recording",
		Example: "  kith voice-log recording.wav",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("file not found: %s", args[0])
			}
			return run(cmd, func(ctx context.Context, a *app) error {
				whisper, err := transcribe.NewWhisper(a.cfg.WhisperModelPath)
				if err != nil {
					return err
				}
				defer whisper.Close()
				return a.pipeline(whisper).LogVoice(ctx, args[0])
			})
		},
	}
}
