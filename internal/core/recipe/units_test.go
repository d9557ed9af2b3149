package recipe

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUnit(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  Unit
	}{
		{"canonical value passes through", "g", UnitGram},
		{"canonical to_taste", "to_taste", UnitToTaste},
		{"english full name", "grams", UnitGram},
		{"english with trailing dot", "tbsp.", UnitTablespoon},
		{"uppercase", "ML", UnitMilliliter},
		{"cc maps to ml", "cc", UnitMilliliter},
		{"chinese gram", "公克", UnitGram},
		{"chinese teaspoon", "小匙", UnitTeaspoon},
		{"chinese to taste", "適量", UnitToTaste},
		{"chinese counter", "顆", UnitPiece},
		{"unknown falls back to pcs", "bunch", UnitPiece},
		{"empty falls back to pcs", "", UnitPiece},
		{"whitespace only", "   ", UnitPiece},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeUnit(tt.token))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantAmount    float64
		wantAmbiguous bool
	}{
		{"plain integer", "3", 3, false},
		{"plain decimal", "1.5", 1.5, false},
		{"comma decimal", "1,5", 1.5, false},
		{"hyphen range takes midpoint", "2-3", 2.5, true},
		{"integer midpoint", "3-5", 4, true},
		{"range with spaces", "2 - 3", 2.5, true},
		{"en dash range", "2–3", 2.5, true},
		{"to range", "2 to 3", 2.5, true},
		{"chinese range", "2到3", 2.5, true},
		{"decimal range rounds to two places", "1-1.25", 1.13, true},
		{"number inside text", "about 4 large", 4, false},
		{"no number", "some", 0, false},
		{"zero", "0", 0, false},
		{"negative", "-2", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, ambiguous := ParseAmount(tt.text)
			assert.InDelta(t, tt.wantAmount, amount, 0.001)
			assert.Equal(t, tt.wantAmbiguous, ambiguous)
		})
	}
}

func TestParseAmountIdempotent(t *testing.T) {
	// 將解析結果格式化後再解析，數值必須不變
	for _, raw := range []string{"2-3", "1.5", "3-5", "0.25", "10"} {
		first, _ := ParseAmount(raw)
		again, ambiguous := ParseAmount(strconv.FormatFloat(first, 'f', -1, 64))
		assert.InDelta(t, first, again, 0.001)
		assert.False(t, ambiguous)
	}
}

func TestDetectUnitFromText(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Unit
	}{
		{"english token", "200 g flour", UnitGram},
		{"english full word", "2 tablespoons butter", UnitTablespoon},
		{"chinese unit after number", "2公斤 豬肉", UnitKilogram},
		{"chinese counter", "3顆 蛋", UnitPiece},
		{"to taste context", "salt to taste", UnitToTaste},
		{"clove context", "2 cloves garlic", UnitPiece},
		{"no hint defaults to pcs", "2 onions", UnitPiece},
		{"empty defaults to pcs", "", UnitPiece},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectUnitFromText(tt.line))
		})
	}
}
