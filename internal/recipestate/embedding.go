package recipestate

import (
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/reciperoulette/backend/internal/models"
)

// Embed maps text to the letter profile history search ranks by: the share of
// vowels, the share of letters from a to m, and the mean word length in tens
// of letters. The profile does not grow with the text, so a short query lands
// near the titles that read like it. Case, punctuation and repeated words do
// not change it.
//
// On postgres, Store.Search orders title and ingredient matches by the
// distance between the query's profile and each entry's stored one.
func Embed(text string) pgvector.Vector {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	var letters, vowels, early float32
	for _, word := range words {
		for _, r := range word {
			letters++
			if strings.ContainsRune("aeiou", r) {
				vowels++
			}
			if r >= 'a' && r <= 'm' {
				early++
			}
		}
	}
	if letters == 0 {
		return pgvector.NewVector([]float32{0, 0, 0})
	}

	meanWord := letters / float32(len(words))
	return pgvector.NewVector([]float32{vowels / letters, early / letters, meanWord / 10})
}

// embedRecipe profiles the title only; queries are compared against titles.
func embedRecipe(r models.Recipe) pgvector.Vector {
	return Embed(r.Title)
}
