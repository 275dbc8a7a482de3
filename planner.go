package main

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Planner runs the profile-to-plans pipeline. It holds no per-request state
// and is safe for concurrent use.
type Planner struct {
	gen    Generator
	cfg    *Config
	logger *zap.Logger
}

// NewPlanner creates a planner; a nil logger disables logging
func NewPlanner(gen Generator, cfg *Config, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{gen: gen, cfg: cfg, logger: logger}
}

// Prepare validates the profile and derives the planning directive
func (p *Planner) Prepare(profile *FinancialProfile, lang Language) (PlanningDirective, error) {
	if err := ValidateProfile(profile, lang); err != nil {
		return PlanningDirective{}, err
	}
	return BuildPlanningDirective(profile, p.cfg.Planning), nil
}

// GeneratePlans requests one plan per language concurrently. The set fails
// as a unit: the first failure cancels the remaining requests.
func (p *Planner) GeneratePlans(ctx context.Context, profile *FinancialProfile, langs []Language) (*PlanSet, error) {
	if len(langs) == 0 {
		langs = []Language{English}
	}

	directive, err := p.Prepare(profile, langs[0])
	if err != nil {
		return nil, err
	}

	if timeout := p.cfg.Generator.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	set := &PlanSet{
		Directive: directive,
		Plans:     make(map[Language]*ParsedPlan, len(langs)),
		Raw:       make(map[Language]string, len(langs)),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, lang := range langs {
		g.Go(func() error {
			prompt := BuildPrompt(profile, directive, p.cfg.PromptOptions(lang))
			p.logger.Debug("requesting plan", zap.Stringer("language", lang), zap.Int("prompt_length", len(prompt)))

			text, err := p.gen.Generate(gctx, prompt)
			if err == nil {
				err = CheckResponse(text, lang)
			}
			if err != nil {
				return generationFailed(err, lang)
			}

			plan := ParsePlan(text)
			p.logger.Debug("plan parsed",
				zap.Stringer("language", lang),
				zap.Int("sections", len(plan.Sections)),
				zap.Bool("disclaimer", plan.Disclaimer != ""))

			mu.Lock()
			set.Plans[lang] = &plan
			set.Raw[lang] = text
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.logger.Warn("plan generation failed", zap.Error(err))
		return nil, &PlanError{Kind: KindGeneration, Op: "generate plans", Err: err}
	}

	p.logger.Info("plans generated",
		zap.Int("languages", len(set.Plans)),
		zap.Stringer("age_bracket", directive.AgeBracket),
		zap.Bool("goal_projected", directive.Goal != nil))
	return set, nil
}

// generationFailed tags err with the language and makes it a GenerationError
func generationFailed(err error, lang Language) error {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		genErr.Language = lang
		return genErr
	}
	return &GenerationError{Failure: FailureUnavailable, Language: lang, Message: shortMessage(err), Err: err}
}
