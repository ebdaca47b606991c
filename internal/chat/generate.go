package chat

import (
	"context"
	"log/slog"
	"strings"

	"healthchat/internal/cache"
	"healthchat/internal/models"
)

// Orchestrator tries the configured models in order, falling back on
// quota-class failures and caching eligible responses.
type Orchestrator struct {
	gen    Generator
	models []string
	store  cache.Store
	log    *slog.Logger
}

// NewOrchestrator wires a generator to its model priority list and cache.
func NewOrchestrator(gen Generator, modelList []string, store cache.Store, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{gen: gen, models: modelList, store: store, log: log}
}

// CacheEligible reports whether a request's response is safe to reuse:
// text-only, with no prior-turn context.
func CacheEligible(req *models.ChatRequest) bool {
	return req.Image == nil && len(req.Messages) == 0 && strings.TrimSpace(req.Prompt) != ""
}

// Respond produces the reply for one request: cache lookup, assembly, model
// fallback, cache write-through.
//
// Each model is attempted at most once, in list order. A quota-class failure
// advances to the next model; any other failure is terminal. Models failing
// for quota on every entry yields ErrModelsExhausted.
func (o *Orchestrator) Respond(ctx context.Context, req *models.ChatRequest) (string, error) {
	eligible := CacheEligible(req)
	key := cache.Key(req.Prompt)
	if eligible && o.store != nil {
		cached, ok, err := o.store.Get(ctx, key)
		if err != nil {
			o.log.Warn("cache read failed", "err", err)
		} else if ok {
			o.log.Debug("cache hit", "key", key)
			return cached, nil
		}
	}

	parts, err := AssembleParts(req.Prompt, req.Messages, req.Image)
	if err != nil {
		return "", err
	}

	for _, model := range o.models {
		text, err := o.gen.Generate(ctx, model, parts)
		if err == nil {
			if eligible && o.store != nil {
				if err := o.store.Put(ctx, key, text); err != nil {
					o.log.Warn("cache write failed", "err", err)
				}
			}
			return text, nil
		}
		if IsQuota(err) {
			o.log.Warn("model over quota, falling back", "model", model, "err", err)
			continue
		}
		return "", err
	}
	return "", &GenerateError{
		Model: strings.Join(o.models, ","),
		Kind:  FailureQuota,
		Err:   ErrModelsExhausted,
	}
}
