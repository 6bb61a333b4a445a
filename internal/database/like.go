package database

import "strings"

// LikeEscape is the ESCAPE clause matching ContainsPattern's escaping
const LikeEscape = `ESCAPE '\'`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern returns a LIKE pattern matching values that contain term
// literally. Use it together with LikeEscape.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
