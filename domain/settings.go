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

package domain

// Language model providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderMistral   = "mistral"
)

// Settings is the application configuration record, stored at a fixed
// id so there is exactly one per database.
type Settings struct {
	OpenAIAPIKey    string `json:"openai_api_key,omitempty"`
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty"`
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`
	MistralAPIKey   string `json:"mistral_api_key,omitempty"`

	DefaultModel       string  `json:"default_model"`
	DefaultTemperature float64 `json:"default_temperature"`
	MaxTokens          int     `json:"max_tokens"`
	EmbeddingModel     string  `json:"embedding_model"`

	SurrealURL       string `json:"surrealdb_url"`
	SurrealNamespace string `json:"surrealdb_namespace"`
	SurrealDatabase  string `json:"surrealdb_database"`
	SurrealUsername  string `json:"surrealdb_username"`
	SurrealPassword  string `json:"surrealdb_password"`
}

// DefaultSettings returns the configuration used before any settings
// record has been saved.
func DefaultSettings() *Settings {
	return &Settings{
		DefaultModel:       "gemini-1.5-pro",
		DefaultTemperature: 0.7,
		MaxTokens:          4000,
		EmbeddingModel:     "text-embedding-3-small",
		SurrealURL:         "ws://localhost:8000/rpc",
		SurrealNamespace:   "quire",
		SurrealDatabase:    "main",
		SurrealUsername:    "root",
		SurrealPassword:    "root",
	}
}

// RecordKey returns the fixed id of the settings record.
func (s *Settings) RecordKey() string { return "settings:main" }

// APIKey returns the configured key for provider, reporting whether
// one is set.
func (s *Settings) APIKey(provider string) (string, bool) {
	var key string
	switch provider {
	case ProviderOpenAI:
		key = s.OpenAIAPIKey
	case ProviderAnthropic:
		key = s.AnthropicAPIKey
	case ProviderGemini:
		key = s.GeminiAPIKey
	case ProviderMistral:
		key = s.MistralAPIKey
	}
	return key, key != ""
}

// HasAPIKey reports whether any provider key is configured.
func (s *Settings) HasAPIKey() bool {
	for _, p := range []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderMistral} {
		if _, ok := s.APIKey(p); ok {
			return true
		}
	}
	return false
}
