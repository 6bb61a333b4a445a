package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{term: "chili", want: "%chili%"},
		{term: "100%", want: `%100\%%`},
		{term: "a_b", want: `%a\_b%`},
		{term: `back\slash`, want: `%back\\slash%`},
		{term: "", want: "%%"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ContainsPattern(tt.term), tt.term)
	}
}
