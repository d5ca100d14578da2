package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NeutralRating is returned when feedback cannot be scored.
const NeutralRating = 3

// TextService produces best-effort text for tickets and profiles. Every
// method returns a usable value: assistant failures are logged and
// replaced with a static fallback.
type TextService struct {
	assistant Assistant
	timeout   time.Duration
	log       zerolog.Logger
}

// NewTextService returns a TextService. A nil assistant means no backend
// is configured and only the fallbacks are served.
func NewTextService(assistant Assistant, log zerolog.Logger) *TextService {
	return &TextService{assistant: assistant, timeout: 20 * time.Second, log: log}
}

// JobDescription drafts a ticket description for serviceType.
func (s *TextService) JobDescription(ctx context.Context, serviceType string) string {
	if s.assistant == nil {
		return fmt.Sprintf("Detailed check required for: %s.", serviceType)
	}
	prompt := fmt.Sprintf(`Generate a brief, professional job description for a service ticket about %q. `+
		`The description should be suitable for a technician to understand the task. Be concise and clear. `+
		`For example, for "Leaky pipe", you could write "Investigate and repair water leakage from a pipe. `+
		`Location and specific pipe to be identified on-site."`, serviceType)

	text, err := s.ask(ctx, prompt, 0.5)
	if err != nil || text == "" {
		s.log.Warn().Err(err).Str("service_type", serviceType).Msg("job description fallback")
		return fmt.Sprintf("Standard service call for: %s. Please diagnose and report findings.", serviceType)
	}
	return text
}

// RatingFromFeedback scores feedback from 1 to 5.
func (s *TextService) RatingFromFeedback(ctx context.Context, feedback string) int {
	if s.assistant == nil {
		return NeutralRating
	}
	prompt := fmt.Sprintf(`Analyze the sentiment of the following customer feedback and return a single integer `+
		`star rating from 1 to 5. 1 is very negative, 5 is very positive. Only return the number. Feedback: %q`, feedback)

	text, err := s.ask(ctx, prompt, 0.1)
	if err != nil {
		s.log.Warn().Err(err).Msg("feedback rating fallback")
		return NeutralRating
	}
	rating, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || rating < 1 || rating > 5 {
		s.log.Warn().Str("answer", text).Msg("unusable feedback rating")
		return NeutralRating
	}
	return rating
}

// TechnicianSummary writes a short profile blurb.
func (s *TextService) TechnicianSummary(ctx context.Context, completedJobs int, averageRating float64, specialty string) string {
	if s.assistant == nil {
		return "An experienced and reliable technician."
	}
	prompt := fmt.Sprintf("Create a short, positive, professional summary for a technician specializing in %s. "+
		"They have completed %d jobs with an average rating of %.1f out of 5. Highlight their experience and reliability.",
		specialty, completedJobs, averageRating)

	text, err := s.ask(ctx, prompt, 0.6)
	if err != nil || text == "" {
		s.log.Warn().Err(err).Str("specialty", specialty).Msg("technician summary fallback")
		return fmt.Sprintf("A skilled %s specialist with a strong track record.", specialty)
	}
	return text
}

func (s *TextService) ask(ctx context.Context, prompt string, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	text, err := s.assistant.Ask(ctx, prompt, temperature)
	return strings.TrimSpace(text), err
}
