package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/GregMSThompson/decision-backend/internal/models"
)

var speakOpts struct {
	language string
	output   string
}

func init() {
	speakCmd.Flags().StringVar(&speakOpts.language, "language", string(models.LanguageEnglish), "speech language")
	speakCmd.Flags().StringVarP(&speakOpts.output, "output", "o", "decido.wav", "output file")
	rootCmd.AddCommand(speakCmd)
}

var speakCmd = &cobra.Command{
	Use:   "speak <text>",
	Short: "Read text aloud into a WAV file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		audio, err := newClient().Speech(cmd.Context(), strings.Join(args, " "), models.Language(speakOpts.language))
		if err != nil {
			return err
		}
		if err := os.WriteFile(speakOpts.output, audio, 0o644); err != nil {
			return fmt.Errorf("write audio: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", speakOpts.output, humanize.Bytes(uint64(len(audio))))
		return nil
	},
}
