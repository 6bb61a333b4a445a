package service

import (
	"testing"

	"github.com/pageza/reciperoulette/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecipes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		titles  []string
		wantErr bool
	}{
		{
			name:    "recipes key",
			content: `{"recipes": [{"id": 11111111, "title": "Chili"}]}`,
			titles:  []string{"Chili"},
		},
		{
			name:    "bare array",
			content: ` [{"id": 1, "title": "Chili"}, {"id": 2, "title": "Soup"}] `,
			titles:  []string{"Chili", "Soup"},
		},
		{
			name:    "other key",
			content: `{"note": "enjoy", "meals": [{"title": "Soup"}]}`,
			titles:  []string{"Soup"},
		},
		{
			name:    "untitled recipes dropped",
			content: `{"recipes": [{"id": 1, "title": " "}, {"id": 2, "title": "Soup"}]}`,
			titles:  []string{"Soup"},
		},
		{
			name:    "nothing usable",
			content: `{"recipes": [{"id": 1}]}`,
			wantErr: true,
		},
		{
			name:    "no array",
			content: `{"message": "sorry"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			content: `Here are some recipes!`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipes, err := parseRecipes(tt.content)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLLMResponse)
				return
			}
			require.NoError(t, err)

			titles := make([]string, len(recipes))
			for i, r := range recipes {
				titles[i] = r.Title
				assert.Positive(t, r.ID)
				assert.False(t, r.IsFavorited)
			}
			assert.Equal(t, tt.titles, titles)
		})
	}
}

func TestParseRecipesFillsMissingIDs(t *testing.T) {
	recipes, err := parseRecipes(`{"recipes": [{"title": "Soup"}]}`)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.GreaterOrEqual(t, recipes[0].ID, int64(10_000_000))
	assert.Less(t, recipes[0].ID, int64(100_000_000))
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(&types.GenerateRecipesRequest{
		Ingredients:      []string{"rice", "egg"},
		PrepTime:         20,
		CaloricApport:    400,
		CuisineEthnicity: []string{"Chinese", "Korean"},
		Difficulty:       "medium",
	})

	assert.Contains(t, prompt, "rice, egg")
	assert.Contains(t, prompt, "20 minutes")
	assert.Contains(t, prompt, "400 calories")
	assert.Contains(t, prompt, "these preferences: none")
	assert.Contains(t, prompt, "difficulty of medium")
	assert.Contains(t, prompt, "Chinese, Korean")
}
