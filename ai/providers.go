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

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/mistral"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/quire/domain"
)

// provider knows one vendor's models and how to build a client for
// them.
type provider struct {
	name   string
	models []string
	build  func(ctx context.Context, apiKey string) (llms.Model, error)
}

// supports reports whether model belongs to this provider's catalog.
func (p *provider) supports(model string) bool {
	for _, m := range p.models {
		if m == model {
			return true
		}
	}
	return false
}

func openAIProvider() *provider {
	return &provider{
		name: domain.ProviderOpenAI,
		models: []string{
			"gpt-4o",
			"gpt-4o-mini",
			"gpt-4-turbo",
			"o1-preview",
			"o1-mini",
		},
		build: func(ctx context.Context, apiKey string) (llms.Model, error) {
			return openai.New(openai.WithToken(apiKey))
		},
	}
}

func anthropicProvider() *provider {
	return &provider{
		name: domain.ProviderAnthropic,
		models: []string{
			"claude-3-5-sonnet-20241022",
			"claude-3-5-haiku-20241022",
			"claude-3-opus-20240229",
		},
		build: func(ctx context.Context, apiKey string) (llms.Model, error) {
			return anthropic.New(anthropic.WithToken(apiKey))
		},
	}
}

func geminiProvider() *provider {
	return &provider{
		name: domain.ProviderGemini,
		models: []string{
			"gemini-1.5-pro",
			"gemini-1.5-flash",
			"gemini-1.0-pro",
		},
		build: func(ctx context.Context, apiKey string) (llms.Model, error) {
			return googleai.New(ctx, googleai.WithAPIKey(apiKey))
		},
	}
}

func mistralProvider() *provider {
	return &provider{
		name: domain.ProviderMistral,
		models: []string{
			"mistral-large-latest",
			"mistral-small-latest",
			"open-mistral-nemo",
		},
		build: func(ctx context.Context, apiKey string) (llms.Model, error) {
			return mistral.New(mistral.WithAPIKey(apiKey))
		},
	}
}
