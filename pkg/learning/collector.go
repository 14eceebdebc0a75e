// Package learning implements the continuous-learning loop: collecting
// correction candidates from live traffic, merging them into the corpus and
// deciding when the classifier should be retrained.
package learning

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tamnhu11204/project-chatbot/config"
	"github.com/tamnhu11204/project-chatbot/internal"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
	"github.com/tamnhu11204/project-chatbot/pkg/nlp"
)

var log = internal.GetLogger()

// Collector records correction candidates: explicit negative reactions and
// low-confidence turns. Positive reactions are acknowledged without storage.
type Collector struct {
	cfg      *config.Config
	corpus   models.CorpusStore
	feedback models.FeedbackStore
	matcher  *nlp.Matcher
}

func NewCollector(cfg *config.Config, corpus models.CorpusStore, feedback models.FeedbackStore) *Collector {
	return &Collector{
		cfg:      cfg,
		corpus:   corpus,
		feedback: feedback,
		matcher:  nlp.NewMatcher(nlp.NewNormalizer(nil)),
	}
}

// ObserveTurn records a correction candidate for every turn resolved below
// the feedback-log threshold. Implements the resolver's turn observer.
func (c *Collector) ObserveTurn(ctx context.Context, turn *models.ChatTurn, prediction models.Prediction) error {
	if prediction.Confidence >= c.cfg.Learning.FeedbackLog {
		return nil
	}

	record := &models.FeedbackRecord{
		UUID:            uuid.New(),
		UserInput:       turn.Input,
		BotResponse:     turn.Response,
		Label:           models.FeedbackNegative,
		PredictedIntent: turn.IntentTag,
		SuggestedIntent: c.suggestIntent(turn.Input),
		CreatedAt:       time.Now(),
	}
	if err := c.feedback.WriteFeedback(ctx, record); err != nil {
		return err
	}
	log.Debugf("recorded low-confidence turn for %q (predicted %s)", turn.Input, turn.IntentTag)
	return nil
}

// RecordReaction stores an explicit user reaction. Positive reactions are
// a no-op; negative ones become correction candidates with pattern triage.
// Returns the stored record, or nil for positive reactions.
func (c *Collector) RecordReaction(
	ctx context.Context,
	userInput, botResponse, predictedIntent string,
	label models.FeedbackLabel,
) (*models.FeedbackRecord, error) {
	if label != models.FeedbackNegative {
		return nil, nil
	}

	record := &models.FeedbackRecord{
		UUID:            uuid.New(),
		UserInput:       userInput,
		BotResponse:     botResponse,
		Label:           label,
		PredictedIntent: predictedIntent,
		SuggestedIntent: c.suggestIntent(userInput),
		CreatedAt:       time.Now(),
	}
	if err := c.feedback.WriteFeedback(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Correct attaches an admin-supplied intent tag to all pending records for
// the given input. The correction wins over triage suggestions at merge time.
func (c *Collector) Correct(ctx context.Context, userInput, correctIntent string) error {
	return c.feedback.SetCorrectIntent(ctx, userInput, correctIntent)
}

// suggestIntent triages an input against the current corpus. The suggestion
// threshold is stricter than the resolver's fallback so that triage does not
// reinforce weak guesses. Returns nil when no intent is close enough.
func (c *Collector) suggestIntent(input string) *string {
	tag := c.matcher.Match(input, c.corpus.Corpus(), c.cfg.Learning.SuggestionMatch)
	if tag == "" || tag == models.IntentFallback {
		return nil
	}
	return &tag
}
