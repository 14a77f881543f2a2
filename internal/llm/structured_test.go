package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHighlights struct {
	Headline string   `json:"headline"`
	Drivers  []string `json:"drivers"`
}

func TestExtractJSON_Clean(t *testing.T) {
	got, err := ExtractJSON[testHighlights](`{"headline":"over","drivers":["MAT"]}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "over", got.Headline)
	assert.Equal(t, []string{"MAT"}, got.Drivers)
}

func TestExtractJSON_Fenced(t *testing.T) {
	raw := "```json\n{\"headline\":\"under\"}\n```"
	got, err := ExtractJSON[testHighlights](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "under", got.Headline)
}

func TestExtractJSON_SurroundingProse(t *testing.T) {
	raw := "Sure, here you go:\n{\"headline\":\"flat\"}\nLet me know if you need more."
	got, err := ExtractJSON[testHighlights](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "flat", got.Headline)
}

func TestExtractJSON_TopLevelArray(t *testing.T) {
	got, err := ExtractJSON[[]string]("drivers: [\"MAT\", \"PROC\"] done", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"MAT", "PROC"}, got)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	raw := `{"headline":"a {weird} \"quoted\" ]title[","drivers":[]}`
	got, err := ExtractJSON[testHighlights](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, `a {weird} "quoted" ]title[`, got.Headline)
}

func TestExtractJSON_Failures(t *testing.T) {
	cases := map[string]string{
		"no json":    "nothing structured here",
		"unbalanced": `{"headline":"x"`,
		"mismatched": `{"drivers":["a"}`,
		"bad syntax": `{"headline": x}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ExtractJSON[testHighlights](raw, nil)
			assert.ErrorIs(t, err, ErrInvalidOutput)
		})
	}
}

func TestExtractJSON_Validator(t *testing.T) {
	requireHeadline := func(h testHighlights) error {
		if h.Headline == "" {
			return errors.New("headline required")
		}
		return nil
	}

	_, err := ExtractJSON[testHighlights](`{"drivers":["MAT"]}`, requireHeadline)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "headline required")

	got, err := ExtractJSON[testHighlights](`{"headline":"ok"}`, requireHeadline)
	require.NoError(t, err)
	assert.Equal(t, "ok", got.Headline)
}
