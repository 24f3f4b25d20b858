package gemini

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleIdeaResponse = `Food Item: Galaxy Mochi Donuts
[0.0s–2s] → Top-down shot of Zesty pouring shimmering purple glaze, ASMR drizzle sound
[2s–4s] → Macro shot of glaze swirling into galaxy patterns, soft "boing"
[4s–6s] → Slow-motion sprinkle drop, upbeat music swells
[6s–8s] → Zesty presents the donut tower with a wink, overlay text "OUT OF THIS WORLD", cartoon meow`

func TestParseIdeaExtractsItemAndScript(t *testing.T) {
	script, err := ParseIdea(sampleIdeaResponse, []string{"Rainbow Boba"})
	require.NoError(t, err)

	assert.Equal(t, "Galaxy Mochi Donuts", script.FoodItem)
	assert.True(t, strings.HasPrefix(script.ScenePrompt, "[0.0s"))
	assert.Contains(t, script.ScenePrompt, "[6s–8s]")
}

func TestParseIdeaTrimsSurroundingText(t *testing.T) {
	raw := "Sure! Here is an idea:\n\n" + sampleIdeaResponse + "\n"
	script, err := ParseIdea(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Galaxy Mochi Donuts", script.FoodItem)
}

func TestParseIdeaMissingMarker(t *testing.T) {
	_, err := ParseIdea("Here is a fun video about donuts with no marker at all", nil)
	assert.ErrorIs(t, err, ErrMissingFoodItem)
}

func TestParseIdeaMarkerWithNothingAfter(t *testing.T) {
	_, err := ParseIdea("Some preamble\nFood Item:", nil)
	assert.ErrorIs(t, err, ErrMissingFoodItem)
}

func TestParseIdeaRejectsDuplicate(t *testing.T) {
	raw := "Food Item: Rainbow Boba\n[0.0s–2s] → pouring boba pearls"

	_, err := ParseIdea(raw, []string{"Rainbow Boba"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateFoodItem)
	assert.Contains(t, err.Error(), "Rainbow Boba")
}
