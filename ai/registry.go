// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/tmc/langchaingo/llms"

	"github.com/poiesic/quire/domain"
)

// Registry resolves model names to clients for the providers whose API
// keys are configured. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	settings  *domain.Settings
	providers []*provider
	logger    *slog.Logger
}

// NewRegistry builds a registry from settings. Providers without an
// API key are left out.
func NewRegistry(settings *domain.Settings) (*Registry, error) {
	if settings == nil {
		return nil, ErrSettingsRequired
	}

	r := &Registry{
		logger: slog.Default().With("component", "ai"),
	}
	r.rebuild(settings)
	return r, nil
}

func (r *Registry) rebuild(settings *domain.Settings) {
	all := []*provider{
		openAIProvider(),
		anthropicProvider(),
		geminiProvider(),
		mistralProvider(),
	}

	active := make([]*provider, 0, len(all))
	for _, p := range all {
		if _, ok := settings.APIKey(p.name); ok {
			active = append(active, p)
		}
	}

	r.mu.Lock()
	r.settings = settings
	r.providers = active
	r.mu.Unlock()

	names := make([]string, len(active))
	for i, p := range active {
		names[i] = p.name
	}
	r.logger.Debug("registry rebuilt", "providers", names)
}

// Reload replaces the registry's settings, picking up key changes.
func (r *Registry) Reload(settings *domain.Settings) error {
	if settings == nil {
		return ErrSettingsRequired
	}
	r.rebuild(settings)
	return nil
}

// AvailableModels returns every model reachable with the configured
// keys, sorted.
func (r *Registry) AvailableModels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, p := range r.providers {
		out = append(out, p.models...)
	}
	sort.Strings(out)
	return out
}

// Supports reports whether model is reachable with the configured
// keys.
func (r *Registry) Supports(model string) bool {
	_, _, err := r.providerFor(model)
	return err == nil
}

func (r *Registry) providerFor(model string) (*provider, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.providers {
		if p.supports(model) {
			key, _ := r.settings.APIKey(p.name)
			return p, key, nil
		}
	}
	return nil, "", fmt.Errorf("%w: %s", ErrModelNotConfigured, model)
}

// Client builds a language model client for model.
func (r *Registry) Client(ctx context.Context, model string) (llms.Model, error) {
	p, key, err := r.providerFor(model)
	if err != nil {
		return nil, err
	}
	return p.build(ctx, key)
}

// CompleteOptions adjusts one completion call. Zero fields fall back
// to the settings defaults.
type CompleteOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Complete sends a conversation to the model and returns the reply
// text.
func (r *Registry) Complete(ctx context.Context, messages []domain.ChatMessage, opts *CompleteOptions) (string, error) {
	r.mu.RLock()
	settings := r.settings
	r.mu.RUnlock()

	model := settings.DefaultModel
	temperature := settings.DefaultTemperature
	maxTokens := settings.MaxTokens
	if opts != nil {
		if opts.Model != "" {
			model = opts.Model
		}
		if opts.Temperature > 0 {
			temperature = opts.Temperature
		}
		if opts.MaxTokens > 0 {
			maxTokens = opts.MaxTokens
		}
	}

	client, err := r.Client(ctx, model)
	if err != nil {
		return "", err
	}

	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		content = append(content, llms.TextParts(messageType(msg.Role), msg.Content))
	}

	resp, err := client.GenerateContent(ctx, content,
		llms.WithModel(model),
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("completion with %s: %w", model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion with %s: empty response", model)
	}
	return resp.Choices[0].Content, nil
}

func messageType(role string) llms.ChatMessageType {
	switch role {
	case domain.RoleSystem:
		return llms.ChatMessageTypeSystem
	case domain.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
