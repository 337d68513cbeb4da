package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/caremesh/core"
	"github.com/hupe1980/caremesh/logging"
	"github.com/hupe1980/caremesh/model"
)

// defaultDietKeywords route a query to the dietary suggestion branch.
var defaultDietKeywords = []string{"breakfast", "lunch", "dinner", "meal", "eat"}

// GeneralOptions configure a GeneralResponder.
type GeneralOptions struct {
	// DietKeywords overrides the dietary routing keyword list.
	DietKeywords []string
	// Generator optionally rephrases the deterministic response. Routing is
	// decided before the generator runs; a generator error falls back to the
	// deterministic text.
	Generator model.Generator
	// Logger for generator fallback diagnostics.
	Logger logging.Logger
}

// GeneralResponder answers informational queries with deterministic keyword
// routing. It produces plain advisory text, never a ResultArtifact, and does
// not participate in the escalation protocol.
type GeneralResponder struct {
	keywords  []string
	generator model.Generator
	logger    logging.Logger
}

// NewGeneralResponder constructs a responder with optional overrides.
func NewGeneralResponder(optFns ...func(o *GeneralOptions)) *GeneralResponder {
	opts := GeneralOptions{DietKeywords: defaultDietKeywords, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	keywords := make([]string, len(opts.DietKeywords))
	for i, k := range opts.DietKeywords {
		keywords[i] = strings.ToLower(k)
	}
	return &GeneralResponder{keywords: keywords, generator: opts.Generator, logger: opts.Logger}
}

// Respond returns advisory text for the query, tailored to the profile's
// health notes when a dietary keyword matches.
func (r *GeneralResponder) Respond(ctx context.Context, profile core.UserProfile, query string) string {
	text := r.route(profile, query)
	if r.generator == nil {
		return text
	}

	prompt := fmt.Sprintf("Rephrase the following assistant response warmly, keeping all facts: %s", text)
	rephrased, err := r.generator.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(rephrased) == "" {
		r.logger.Warn("responder.generate_fallback error=%v", err)
		return text
	}
	return rephrased
}

// defaultDietSuggestions map a matched meal keyword to its suggestion;
// keywords without an entry ("meal", "eat", custom lists) fall back to the
// generic suggestion.
var defaultDietSuggestions = map[string]string{
	"breakfast": "a small bowl of oatmeal with berries and a glass of milk",
	"lunch":     "a grilled chicken salad with an olive oil dressing",
	"dinner":    "baked salmon with steamed vegetables",
}

const defaultDietSuggestion = "a balanced plate of lean protein, whole grains and vegetables"

func (r *GeneralResponder) route(profile core.UserProfile, query string) string {
	lower := strings.ToLower(query)
	for _, kw := range r.keywords {
		if strings.Contains(lower, kw) {
			suggestion, ok := defaultDietSuggestions[kw]
			if !ok {
				suggestion = defaultDietSuggestion
			}
			if profile.HealthNotes != "" {
				return fmt.Sprintf(
					"That's a great question! Based on your dietary guidance (%s), I recommend %s.",
					profile.HealthNotes, suggestion,
				)
			}
			return fmt.Sprintf("That's a great question! I recommend %s.", suggestion)
		}
	}
	return "I can help with that. Let me look up some options for you."
}
