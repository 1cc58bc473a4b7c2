package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/quire/domain"
)

func TestNewRegistry_NilSettings(t *testing.T) {
	_, err := NewRegistry(nil)
	assert.ErrorIs(t, err, ErrSettingsRequired)
}

func TestRegistry_NoKeys(t *testing.T) {
	r, err := NewRegistry(domain.DefaultSettings())
	require.NoError(t, err)

	assert.Empty(t, r.AvailableModels())
	assert.False(t, r.Supports("gpt-4o"))
}

func TestRegistry_SingleProvider(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.AnthropicAPIKey = "ak-test"

	r, err := NewRegistry(settings)
	require.NoError(t, err)

	assert.True(t, r.Supports("claude-3-5-sonnet-20241022"))
	assert.False(t, r.Supports("gpt-4o"))
	assert.Contains(t, r.AvailableModels(), "claude-3-opus-20240229")
}

func TestRegistry_Reload(t *testing.T) {
	r, err := NewRegistry(domain.DefaultSettings())
	require.NoError(t, err)
	assert.False(t, r.Supports("mistral-large-latest"))

	updated := domain.DefaultSettings()
	updated.MistralAPIKey = "mk-test"
	require.NoError(t, r.Reload(updated))

	assert.True(t, r.Supports("mistral-large-latest"))
	assert.ErrorIs(t, r.Reload(nil), ErrSettingsRequired)
}

func TestRegistry_UnknownModel(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.OpenAIAPIKey = "sk-test"

	r, err := NewRegistry(settings)
	require.NoError(t, err)

	_, _, perr := r.providerFor("not-a-model")
	assert.ErrorIs(t, perr, ErrModelNotConfigured)
}

func TestRegistry_EmbedderNeedsOpenAIKey(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.AnthropicAPIKey = "ak-test"

	r, err := NewRegistry(settings)
	require.NoError(t, err)

	_, err = r.Embedder()
	assert.ErrorIs(t, err, ErrModelNotConfigured)
}
