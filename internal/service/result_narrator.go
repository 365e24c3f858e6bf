package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/cbt-saw/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

var ErrNarratorDisabled = errors.New("result narrator is disabled")

// NarrativeInput is the scored outcome a narrator comments on.
type NarrativeInput struct {
	ExamTitle      string
	TotalQuestions int
	JumlahBenar    int
	SkorKesulitan  int
	PasanganBenar  int
	WaktuMenit     int
	NilaiKonversi  float64
	Status         string
	WrongQuestions []string
}

// ResultNarrator writes a short feedback paragraph for a participant's result.
type ResultNarrator interface {
	Narrate(ctx context.Context, in NarrativeInput) (string, error)
	Enabled() bool
}

type geminiNarrator struct {
	model *genai.GenerativeModel
}

// NewResultNarrator returns a disabled narrator when no Gemini key is configured.
func NewResultNarrator(cfg *config.Config) (ResultNarrator, error) {
	if cfg.Gemini.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Result feedback will be unavailable.")
		return &geminiNarrator{}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	m := client.GenerativeModel(cfg.Gemini.Model)
	m.SetTemperature(0.4)
	return &geminiNarrator{model: m}, nil
}

func (n *geminiNarrator) Enabled() bool { return n.model != nil }

func (n *geminiNarrator) Narrate(ctx context.Context, in NarrativeInput) (string, error) {
	if n.model == nil {
		return "", ErrNarratorDisabled
	}

	resp, err := n.model.GenerateContent(ctx, genai.Text(buildNarrativePrompt(in)))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error while writing result feedback")
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			parts = append(parts, string(txt))
		}
	}
	text := cleanFeedback(strings.Join(parts, ""))
	if text == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return text, nil
}

func buildNarrativePrompt(in NarrativeInput) string {
	var b strings.Builder
	b.WriteString("You are a supportive teacher reviewing a student's computer based test result.\n")
	b.WriteString("Write one short paragraph (at most five sentences) in Bahasa Indonesia that explains the result and suggests what to practise next.\n\n")
	if in.ExamTitle != "" {
		fmt.Fprintf(&b, "Exam: %s\n", in.ExamTitle)
	}
	fmt.Fprintf(&b, "Correct answers: %d of %d\n", in.JumlahBenar, in.TotalQuestions)
	fmt.Fprintf(&b, "Difficulty points earned: %d\n", in.SkorKesulitan)
	fmt.Fprintf(&b, "Consistent question pairs: %d\n", in.PasanganBenar)
	fmt.Fprintf(&b, "Time used: %d minutes\n", in.WaktuMenit)
	fmt.Fprintf(&b, "Final score: %.2f / 100 (band: %s)\n", in.NilaiKonversi, in.Status)
	if len(in.WrongQuestions) > 0 {
		b.WriteString("\nQuestions answered incorrectly:\n")
		for _, q := range in.WrongQuestions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	b.WriteString("\nFormat your response strictly as:\nFeedback:\n[your paragraph]\n")
	return b.String()
}

// cleanFeedback drops the "Feedback:" label the prompt asks for.
func cleanFeedback(raw string) string {
	text := strings.TrimSpace(raw)
	if idx := strings.Index(strings.ToLower(text), "feedback:"); idx != -1 {
		text = strings.TrimSpace(text[idx+len("feedback:"):])
	}
	return text
}
