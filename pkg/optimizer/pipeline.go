package optimizer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/promptpress/promptpress/pkg/cache"
	"github.com/promptpress/promptpress/pkg/metrics"
	"github.com/promptpress/promptpress/pkg/providers"
	"github.com/promptpress/promptpress/pkg/rules"
	"github.com/promptpress/promptpress/pkg/semantic"
)

// Options configures a Pipeline. Rules, Validator, and at least an empty
// gateway list are required; Cache, Collector, and Prometheus are optional
// and skipped when nil.
type Options struct {
	Rules      *rules.Engine
	Validator  *semantic.Validator
	Gateways   []GatewayCaller
	Cache      cache.Cache
	Collector  *metrics.Collector
	Prometheus *metrics.Prometheus

	// Policy selects the fan-out strategy, PolicyParallel by default.
	Policy string
}

// Pipeline runs optimization requests end to end. All dependencies are
// injected; the pipeline owns no globals and is safe for concurrent use.
type Pipeline struct {
	rules     *rules.Engine
	validator *semantic.Validator
	gateways  []GatewayCaller
	cache     cache.Cache
	collector *metrics.Collector
	prom      *metrics.Prometheus
	policy    string
	logger    *slog.Logger
	now       func() time.Time
}

// NewPipeline creates a pipeline from its dependencies.
func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.Rules == nil {
		return nil, fmt.Errorf("pipeline requires a rule engine")
	}
	if opts.Validator == nil {
		return nil, fmt.Errorf("pipeline requires a semantic validator")
	}
	policy := opts.Policy
	switch policy {
	case "":
		policy = PolicyParallel
	case PolicyParallel, PolicySequential:
	default:
		return nil, fmt.Errorf("unknown fan-out policy %q", policy)
	}

	return &Pipeline{
		rules:     opts.Rules,
		validator: opts.Validator,
		gateways:  opts.Gateways,
		cache:     opts.Cache,
		collector: opts.Collector,
		prom:      opts.Prometheus,
		policy:    policy,
		logger:    slog.Default().With("component", "optimizer"),
		now:       time.Now,
	}, nil
}

// Validator exposes the semantic validator for runtime threshold updates.
func (p *Pipeline) Validator() *semantic.Validator {
	return p.validator
}

// Cache exposes the cache for maintenance jobs and stats endpoints.
func (p *Pipeline) Cache() cache.Cache {
	return p.cache
}

// Optimize validates and runs one request. Validation failures return a
// *ValidationError; everything downstream settles into the result.
func (p *Pipeline) Optimize(ctx context.Context, req Request) (*Result, error) {
	start := p.now()

	if req.Prompt == "" {
		p.logFailure(ctx, "validation", "Missing 'prompt' field in request body.")
		return nil, errMissingPrompt()
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		p.logFailure(ctx, "validation", "Prompt cannot be empty.")
		return nil, errEmptyPrompt()
	}

	profile := req.Profile
	if profile == "" {
		profile = "neutral"
	}

	key, result := p.cacheLookup(ctx, prompt, profile)
	if result != nil {
		return result, nil
	}

	preprocessed := rules.Preprocess(prompt)
	local := p.rules.Apply(preprocessed, map[string]string{"profile": profile})

	callOpts := providers.CallOptions{Temperature: 0.7, MaxTokens: 1000}
	var outcomes []adapterOutcome
	if p.policy == PolicySequential {
		outcomes = fanOutSequential(ctx, p.gateways, prompt, callOpts)
	} else {
		outcomes = fanOutParallel(ctx, p.gateways, prompt, callOpts)
	}

	candidates, llmCalls := p.collectCandidates(local, outcomes)
	p.scoreCandidates(ctx, prompt, candidates)
	chosen, reason := selectCandidate(candidates)

	result = p.buildResult(prompt, candidates, chosen, reason, local, outcomes, llmCalls, start)

	p.cacheStore(ctx, key, result)
	p.recordSuccess(ctx, result, outcomes)

	return result, nil
}

// Close releases the pipeline's owned resources: the cache backend and the
// metrics journal.
func (p *Pipeline) Close() error {
	var firstErr error
	if p.cache != nil {
		if err := p.cache.Close(); err != nil {
			firstErr = err
		}
	}
	if p.collector != nil {
		if err := p.collector.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// cacheLookup returns the fingerprint key and, on a hit, the replayed
// result. Fingerprint failures disable caching for the request but never
// fail it.
func (p *Pipeline) cacheLookup(ctx context.Context, prompt, profile string) (string, *Result) {
	if p.cache == nil {
		return "", nil
	}

	key, err := cache.Fingerprint(prompt, map[string]string{
		"profile": profile,
		"policy":  p.policy,
	})
	if err != nil {
		p.logger.Warn("fingerprint failed, skipping cache", "error", err)
		return "", nil
	}

	stored, ok := p.cache.Get(ctx, key)
	if !ok {
		if p.prom != nil {
			p.prom.CacheMisses.Inc()
		}
		return key, nil
	}

	var result Result
	if err := json.Unmarshal(stored, &result); err != nil {
		p.logger.Warn("discarding undecodable cache entry", "error", err)
		p.cache.Delete(ctx, key)
		return key, nil
	}

	if p.prom != nil {
		p.prom.CacheHits.Inc()
	}
	p.logger.Debug("cache hit", "key", key)
	result.Cached = true
	return key, &result
}

func (p *Pipeline) cacheStore(ctx context.Context, key string, result *Result) {
	if p.cache == nil || key == "" {
		return
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		p.logger.Warn("failed to encode result for cache", "error", err)
		return
	}
	p.cache.Set(ctx, key, encoded)
}

// collectCandidates assembles the candidate list: the local rewrite first,
// then each successful adapter in configuration order. llmCalls counts
// successful adapter calls only.
func (p *Pipeline) collectCandidates(local rules.Result, outcomes []adapterOutcome) ([]Candidate, int) {
	candidates := []Candidate{{
		Source:       "local",
		Prompt:       local.Candidate,
		Tokens:       tokenCount(local.Candidate),
		AppliedRules: local.AppliedRules,
	}}

	llmCalls := 0
	for _, outcome := range outcomes {
		if outcome.status != statusSuccess {
			continue
		}
		llmCalls++
		candidates = append(candidates, Candidate{
			Source:       outcome.name,
			Prompt:       outcome.result.Text,
			Tokens:       outcome.result.Tokens,
			AppliedRules: []string{},
			LatencyMs:    outcome.result.LatencyMs,
			Raw:          outcome.result.Raw,
		})
	}
	return candidates, llmCalls
}

// scoreCandidates fills in semantic scores against the original prompt.
func (p *Pipeline) scoreCandidates(ctx context.Context, original string, candidates []Candidate) {
	for i := range candidates {
		score := p.validator.Score(ctx, original, candidates[i].Prompt)
		candidates[i].SemanticScore = score.Jaccard
		candidates[i].SemanticPassed = score.Passed
	}
}

func (p *Pipeline) buildResult(prompt string, candidates []Candidate, chosen Candidate, reason string, local rules.Result, outcomes []adapterOutcome, llmCalls int, start time.Time) *Result {
	now := p.now()

	sources := make([]string, len(candidates))
	for i, c := range candidates {
		sources[i] = c.Source
	}

	trace := map[string]any{"local": local.AppliedRules}
	for _, outcome := range outcomes {
		trace[outcome.name] = outcome.status
	}

	return &Result{
		Original: Original{Prompt: prompt, Tokens: tokenCount(prompt)},
		Optimized: candidates,
		Chosen: Chosen{
			Source:        chosen.Source,
			Prompt:        chosen.Prompt,
			Tokens:        chosen.Tokens,
			Reason:        reason,
			SemanticScore: chosen.SemanticScore,
		},
		Structured: Structured{
			JSON: toJSONEnvelope(chosen.Prompt, now),
			XML:  toXMLStructure(chosen.Prompt),
		},
		Metrics: Metrics{
			TokensSavedPct: tokensSavedPct(tokenCount(prompt), chosen.Tokens),
			TimeMs:         now.Sub(start).Milliseconds(),
			LLMCalls:       llmCalls,
			ClarityScore:   clarityScore(chosen.Prompt),
		},
		Provenance: Provenance{SourcesUsed: sources, RuleTrace: trace},
	}
}

// recordSuccess journals the request and updates the Prometheus
// instruments.
func (p *Pipeline) recordSuccess(ctx context.Context, result *Result, outcomes []adapterOutcome) {
	if p.collector != nil {
		rec := metrics.NewRequestRecord()
		rec.TimeMs = result.Metrics.TimeMs
		rec.LLMCalls = result.Metrics.LLMCalls
		rec.TokensSavedPct = result.Metrics.TokensSavedPct
		rec.ChosenSource = result.Chosen.Source
		rec.SemanticScore = result.Chosen.SemanticScore
		rec.PromptLength = len(result.Original.Prompt)
		p.collector.LogRequest(ctx, rec)
	}

	if p.prom == nil {
		return
	}
	p.prom.Requests.WithLabelValues("success").Inc()
	p.prom.SemanticScore.WithLabelValues(result.Chosen.Source).Set(result.Chosen.SemanticScore)
	for _, outcome := range outcomes {
		if outcome.status == statusSkipped {
			continue
		}
		p.prom.AdapterLatency.WithLabelValues(outcome.name).
			Observe(float64(outcome.result.LatencyMs) / 1000)
	}
}

// logFailure journals a rejected request.
func (p *Pipeline) logFailure(ctx context.Context, errorType, message string) {
	if p.collector != nil {
		p.collector.LogError(ctx, errorType, message)
	}
	if p.prom != nil {
		p.prom.Requests.WithLabelValues("error").Inc()
	}
}
