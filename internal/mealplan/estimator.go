package mealplan

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"example.com/fittrack/internal/catalog"
	"example.com/fittrack/internal/domain"
	"example.com/fittrack/internal/llm"
)

const estimatorAgent = "nutrition_estimator"

// ServingMatcher finds a reference food inside a free-text description.
type ServingMatcher interface {
	MatchServing(description string) (catalog.Serving, bool)
}

// Estimator implements domain.NutritionEstimator: model first, then the
// serving table, then a fixed default.
type Estimator struct {
	gen      llm.TextGenerator
	servings ServingMatcher
	logger   *zap.Logger
}

// NewEstimator builds an Estimator. Either dependency may be nil.
func NewEstimator(gen llm.TextGenerator, servings ServingMatcher, opts ...Option) *Estimator {
	o := buildOptions(opts)
	return &Estimator{gen: gen, servings: servings, logger: o.logger}
}

type rawEstimate struct {
	Name        string  `json:"name"`
	ServingSize string  `json:"serving_size"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	Notes       string  `json:"notes"`
}

// Estimate never fails on upstream errors; it returns ctx.Err() when ctx ends.
func (e *Estimator) Estimate(ctx context.Context, description string) (domain.NutritionEstimate, error) {
	description = strings.TrimSpace(description)

	var reason string
	switch {
	case description == "":
		reason = "empty description"
	case e.gen == nil:
		reason = "no model configured"
	default:
		estimate, err := e.fromModel(ctx, description)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.NutritionEstimate{}, ctxErr
		}
		if err == nil {
			return estimate, nil
		}
		reason = describeFailure(err)
		e.logger.Warn("nutrition estimate failed", zap.Error(err), zap.String("description", description))
	}
	llmFallbacks.WithLabelValues(estimatorAgent, reason).Inc()

	if e.servings != nil {
		if serving, ok := e.servings.MatchServing(description); ok {
			return domain.NutritionEstimate{
				Description: description,
				ServingSize: serving.ServingSize,
				Macros:      serving.Macros,
				Source:      domain.SourceReference,
				Notes:       "matched reference food " + serving.Name,
			}, nil
		}
	}

	return domain.NutritionEstimate{
		Description: description,
		ServingSize: "1 serving",
		Macros:      DefaultEstimate,
		Source:      domain.SourceFallback,
		Notes:       "default estimate used: " + reason,
	}, nil
}

func (e *Estimator) fromModel(ctx context.Context, description string) (domain.NutritionEstimate, error) {
	prompt, err := buildNutritionPrompt(description)
	if err != nil {
		return domain.NutritionEstimate{}, err
	}

	start := time.Now()
	resp, err := e.gen.GenerateContent(ctx, llm.Prompt{
		System:      systemPrompt,
		User:        prompt,
		MaxTokens:   512,
		Temperature: 0.1,
		JSON:        true,
	})
	meta := AgentMeta{Agent: estimatorAgent, Usage: resp.Usage, Latency: time.Since(start)}
	if err != nil {
		recordMeta(meta, "error")
		return domain.NutritionEstimate{}, err
	}

	var raw rawEstimate
	if err := llm.DecodeJSON(resp.Content, &raw); err != nil {
		recordMeta(meta, "malformed")
		return domain.NutritionEstimate{}, err
	}
	macros := domain.Macros{Calories: raw.Calories, Protein: raw.Protein, Carbs: raw.Carbs, Fat: raw.Fat}
	if macros.Calories <= 0 || macros.Protein < 0 || macros.Carbs < 0 || macros.Fat < 0 {
		recordMeta(meta, "malformed")
		return domain.NutritionEstimate{}, llm.ErrMalformedJSON
	}
	recordMeta(meta, "ok")

	return domain.NutritionEstimate{
		Description: description,
		ServingSize: strings.TrimSpace(raw.ServingSize),
		Macros:      macros.Rounded(),
		Source:      domain.SourceEstimated,
		Notes:       strings.TrimSpace(raw.Notes),
	}, nil
}
