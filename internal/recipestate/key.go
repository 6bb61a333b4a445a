package recipestate

import (
	"strconv"

	"github.com/pageza/reciperoulette/backend/internal/models"
)

// IdentityKey returns the key two recipes are compared by: the decimal id
// followed by the title, with no separator and no normalization.
//
// Distinct pairs can produce the same key, e.g. (1, "23") and (12, "3") both
// yield "123". Such recipes are treated as one.
func IdentityKey(r models.Recipe) string {
	return strconv.FormatInt(r.ID, 10) + r.Title
}
