package anthropic

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/models.yaml
var embeddedModelMetadata []byte

// The models endpoint reports only identity fields (id, display name,
// release date). Limits and pricing are published out of band, so this
// registry ships them as embedded metadata. It is informational: the API is
// the source of truth and requests are never rejected locally based on it.
// Users can override the embedded data with LoadMetadataFile or Register.

// ModelMetadata describes the static properties of a model.
type ModelMetadata struct {
	ContextWindow   int           `yaml:"context_window"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
	Features        ModelFeatures `yaml:"features"`
	Thinking        ThinkingRange `yaml:"thinking"`
	Pricing         ModelPricing  `yaml:"pricing"`
}

// ModelFeatures indicates which request features a model supports.
type ModelFeatures struct {
	Vision   bool `yaml:"vision"`
	Tools    bool `yaml:"tools"`
	Thinking bool `yaml:"thinking"`
}

// ThinkingRange is the valid extended-thinking budget range in tokens.
type ThinkingRange struct {
	MinBudget int `yaml:"min_budget"`
	MaxBudget int `yaml:"max_budget"`
}

// ModelPricing is the per-million-token price in USD.
type ModelPricing struct {
	InputPer1M      float64 `yaml:"input_per_1m"`
	OutputPer1M     float64 `yaml:"output_per_1m"`
	CacheWritePer1M float64 `yaml:"cache_write_per_1m"`
	CacheReadPer1M  float64 `yaml:"cache_read_per_1m"`
}

// MetadataRegistry maps model identifiers to their static metadata.
type MetadataRegistry struct {
	mu     sync.RWMutex
	models map[string]ModelMetadata
}

type metadataFile struct {
	Version     string                   `yaml:"version"`
	LastUpdated string                   `yaml:"last_updated"`
	Models      map[string]ModelMetadata `yaml:"models"`
}

var (
	defaultMetadata     *MetadataRegistry
	defaultMetadataOnce sync.Once
)

// DefaultMetadata returns the registry loaded from the embedded metadata.
func DefaultMetadata() *MetadataRegistry {
	defaultMetadataOnce.Do(func() {
		defaultMetadata = &MetadataRegistry{models: make(map[string]ModelMetadata)}
		if err := defaultMetadata.load(embeddedModelMetadata); err != nil {
			// The embedded file is validated by tests; an empty registry
			// just means every lookup misses.
			fmt.Fprintf(os.Stderr, "anthropic: failed to load embedded model metadata: %v\n", err)
		}
	})
	return defaultMetadata
}

// NewMetadataRegistry returns an empty registry.
func NewMetadataRegistry() *MetadataRegistry {
	return &MetadataRegistry{models: make(map[string]ModelMetadata)}
}

func (r *MetadataRegistry) load(data []byte) error {
	var file metadataFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, md := range file.Models {
		r.models[id] = md
	}
	return nil
}

// LoadMetadataFile merges model metadata from a YAML file into the registry,
// overriding entries for models already present.
func (r *MetadataRegistry) LoadMetadataFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read model metadata: %w", err)
	}
	if err := r.load(data); err != nil {
		return fmt.Errorf("parse model metadata: %w", err)
	}
	return nil
}

// Register adds or replaces the metadata for a model.
func (r *MetadataRegistry) Register(modelID string, md ModelMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[modelID] = md
}

// Lookup returns the metadata for a model, if known.
func (r *MetadataRegistry) Lookup(modelID string) (ModelMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	md, ok := r.models[modelID]
	return md, ok
}

// SupportsThinking reports whether a model supports extended thinking.
// Unknown models report false.
func (r *MetadataRegistry) SupportsThinking(modelID string) bool {
	md, ok := r.Lookup(modelID)
	return ok && md.Features.Thinking
}

// SupportsTools reports whether a model supports tool use. Unknown models
// report false.
func (r *MetadataRegistry) SupportsTools(modelID string) bool {
	md, ok := r.Lookup(modelID)
	return ok && md.Features.Tools
}

// ThinkingBudgetRange returns the valid thinking budget range for a model.
func (r *MetadataRegistry) ThinkingBudgetRange(modelID string) (min, max int, ok bool) {
	md, found := r.Lookup(modelID)
	if !found || !md.Features.Thinking {
		return 0, 0, false
	}
	return md.Thinking.MinBudget, md.Thinking.MaxBudget, true
}

// EstimateCost computes the USD cost of a response's token usage from the
// registry's pricing data. ok is false for unknown models.
func (r *MetadataRegistry) EstimateCost(modelID string, usage Usage) (cost float64, ok bool) {
	md, found := r.Lookup(modelID)
	if !found {
		return 0, false
	}
	perToken := func(per1M float64, tokens int) float64 {
		return per1M * float64(tokens) / 1_000_000
	}
	cost = perToken(md.Pricing.InputPer1M, usage.InputTokens) +
		perToken(md.Pricing.OutputPer1M, usage.OutputTokens)
	if usage.CacheCreationInputTokens != nil {
		cost += perToken(md.Pricing.CacheWritePer1M, *usage.CacheCreationInputTokens)
	}
	if usage.CacheReadInputTokens != nil {
		cost += perToken(md.Pricing.CacheReadPer1M, *usage.CacheReadInputTokens)
	}
	return cost, true
}
