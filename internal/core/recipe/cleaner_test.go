package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"amount and unit stripped", "200 g flour", "flour"},
		{"amount only", "2 onions", "onions"},
		{"range prefix", "2-3 onions", "onions"},
		{"unit with of", "2 tbsp of sugar", "sugar"},
		{"unit with trailing dot", "1 tsp. vanilla", "vanilla"},
		{"chinese unit glued to number", "2克糖", "糖"},
		{"chinese counter", "3顆蛋", "蛋"},
		{"no amount passes through", "olive oil", "olive oil"},
		{"surrounding punctuation trimmed", "- 2 carrots,", "carrots"},
		{"empty input", "", ""},
		{"only a number falls back to original", "250", "250"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanName(tt.line))
		})
	}
}
