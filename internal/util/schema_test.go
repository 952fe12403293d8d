package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type navigateArgs struct {
	URL     string `json:"url" description:"Target URL"`
	Timeout int    `json:"timeoutMs,omitempty"`
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(navigateArgs{})

	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)

	urlSchema, ok := props["url"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", urlSchema["type"])
	assert.Equal(t, "Target URL", urlSchema["description"])

	assert.Equal(t, []string{"url"}, schema["required"], "omitempty fields are optional")
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url":       map[string]any{"type": "string"},
			"timeoutMs": map[string]any{"type": "integer"},
		},
		"required": []any{"url"},
	}

	t.Run("valid", func(t *testing.T) {
		err := ValidateParameters(map[string]any{"url": "google.com", "timeoutMs": float64(30000)}, schema)
		assert.NoError(t, err)
	})

	t.Run("missing required", func(t *testing.T) {
		err := ValidateParameters(map[string]any{}, schema)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "url", vErr.Field)
	})

	t.Run("wrong type", func(t *testing.T) {
		err := ValidateParameters(map[string]any{"url": 42}, schema)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("required as string slice", func(t *testing.T) {
		err := ValidateParameters(map[string]any{}, CreateSchema(navigateArgs{}))
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("extra fields allowed", func(t *testing.T) {
		err := ValidateParameters(map[string]any{"url": "x", "unknown": true}, schema)
		assert.NoError(t, err)
	})
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("Step {{.Step}}: {{.History}}", map[string]any{
		"Step":    3,
		"History": "1. go to google",
	})
	require.NoError(t, err)
	assert.Equal(t, "Step 3: 1. go to google", out)
}

func TestRenderTemplate_Invalid(t *testing.T) {
	_, err := RenderTemplate("{{.Broken", nil)
	assert.Error(t, err)
}

func TestNewID(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
}
