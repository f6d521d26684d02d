package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/decision-backend/internal/models"
	"github.com/GregMSThompson/decision-backend/pkg/logger"
)

var askOpts struct {
	question    string
	context     string
	roles       []string
	depth       string
	level       string
	constraints string
	language    string
	attach      []string
	video       bool
	json        bool
}

func init() {
	f := askCmd.Flags()
	f.StringVarP(&askOpts.question, "question", "q", "", "the decision to evaluate")
	f.StringVar(&askOpts.context, "context", "", "background for the decision")
	f.StringSliceVar(&askOpts.roles, "roles", nil, "perspectives: Optimist,Skeptic,Analyst,Realist,Ethicist")
	f.StringVar(&askOpts.depth, "depth", "", "Quick or Deep")
	f.StringVar(&askOpts.level, "level", "", "Simple, Detailed or Technical")
	f.StringVar(&askOpts.constraints, "constraints", "", "hard constraints")
	f.StringVar(&askOpts.language, "language", "", "English, Hindi, Marathi, Bengali or Telugu")
	f.StringSliceVar(&askOpts.attach, "attach", nil, "files to attach (images, audio, documents)")
	f.BoolVar(&askOpts.video, "video", false, "also generate a video outcome")
	f.BoolVar(&askOpts.json, "json", false, "print the raw result as JSON")
	rootCmd.AddCommand(askCmd)
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Evaluate a decision",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if len(args) == 1 && askOpts.question == "" {
			askOpts.question = args[0]
		}

		input, err := buildInput()
		if err != nil {
			return err
		}

		client := newClient()
		item, err := client.Evaluate(ctx, input)
		if err != nil {
			return err
		}

		if askOpts.video {
			video, err := client.Video(ctx, item.ID)
			if err != nil {
				logger.FromContext(ctx).Warn("video generation failed", "error", err)
			} else {
				item.Result.VideoOutcomeURL = video.VideoOutcomeURL
			}
		}

		if err := withHistory(func(h *localHistory) error { return h.Save(ctx, item) }); err != nil {
			logger.FromContext(ctx).Warn("local history save failed", "error", err)
		}

		out := cmd.OutOrStdout()
		if askOpts.json {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(item)
		}
		fmt.Fprint(out, renderResult(newTheme(), item))
		return nil
	},
}

func buildInput() (models.DecisionInput, error) {
	input := models.DecisionInput{
		Question:    askOpts.question,
		Context:     askOpts.context,
		Depth:       models.Depth(askOpts.depth),
		Level:       models.Level(askOpts.level),
		Constraints: askOpts.constraints,
		Language:    models.Language(askOpts.language),
	}
	if askOpts.roles != nil {
		input.EnabledRoles = make([]models.Role, 0, len(askOpts.roles))
		for _, r := range askOpts.roles {
			input.EnabledRoles = append(input.EnabledRoles, models.Role(r))
		}
	}
	for _, path := range askOpts.attach {
		att, err := readAttachment(path)
		if err != nil {
			return input, err
		}
		input.Media = append(input.Media, att)
	}
	return input, nil
}

func readAttachment(path string) (models.MediaAttachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.MediaAttachment{}, fmt.Errorf("read attachment: %w", err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return models.MediaAttachment{
		MIMEType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}, nil
}
