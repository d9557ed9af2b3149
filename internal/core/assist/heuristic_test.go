package assist

import (
	"testing"

	"meal-planner/internal/core/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAllowedTags = []string{"quick", "soup", "vegetarian", "dessert"}

type fixedEntropy struct{}

func (fixedEntropy) Seed() string { return "deadbeef" }

func testHeuristics() *Heuristics {
	return NewHeuristics(testAllowedTags, fixedEntropy{})
}

func TestHeuristicIngredientHints(t *testing.T) {
	h := testHeuristics()

	assert.Contains(t, h.IngredientHints("oni"), "洋蔥")
	assert.Contains(t, h.IngredientHints("蛋"), "雞蛋")
	assert.Empty(t, h.IngredientHints(""))
	assert.Empty(t, h.IngredientHints("xyzzy"))
}

func TestHeuristicTagHintsRespectsAllowList(t *testing.T) {
	h := testHeuristics()

	tags := h.TagHints("快速的味噌湯 tofu soup")
	assert.Contains(t, tags, "soup")
	assert.Contains(t, tags, "quick")
	assert.Contains(t, tags, "vegetarian")
	// noodles 有關鍵字但不在允許清單
	assert.NotContains(t, h.TagHints("拉麵 noodle"), "noodles")
	assert.Empty(t, h.TagHints(""))
}

func TestHeuristicServingsHint(t *testing.T) {
	h := testHeuristics()

	// 700g 總重約等於 2 人份
	assert.Equal(t, 2, h.ServingsHint([]recipe.Ingredient{
		{Name: "豬肉", Amount: 500, Unit: recipe.UnitGram},
		{Name: "洋蔥", Amount: 2, Unit: recipe.UnitPiece},
	}))

	// 沒有可換算的食材回預設 2 人份
	assert.Equal(t, 2, h.ServingsHint(nil))
	assert.Equal(t, 2, h.ServingsHint([]recipe.Ingredient{
		{Name: "鹽", Amount: 0, Unit: recipe.UnitToTaste},
	}))

	// 大量食材也要夾在 12 人份以內
	assert.Equal(t, 12, h.ServingsHint([]recipe.Ingredient{
		{Name: "米", Amount: 10, Unit: recipe.UnitKilogram},
	}))

	// 極少量夾到至少 1 人份
	assert.Equal(t, 1, h.ServingsHint([]recipe.Ingredient{
		{Name: "糖", Amount: 2, Unit: recipe.UnitTeaspoon},
	}))
}

func TestHeuristicPlaceholderImageDeterministic(t *testing.T) {
	h := testHeuristics()

	got := h.PlaceholderImage("Onion Soup")
	assert.Equal(t, "https://placehold.co/640x480?text=Onion+Soup&seed=deadbeef", got)
	// 空標題也要有可用網址
	assert.Contains(t, h.PlaceholderImage(""), "text=Recipe")
}

func TestHeuristicImportDraft(t *testing.T) {
	h := testHeuristics()

	draft := h.ImportDraft("tomato and egg with salt")
	require.NotNil(t, draft)
	assert.True(t, draft.HasContent())
	names := make([]string, 0, len(draft.Ingredients))
	for _, ing := range draft.Ingredients {
		names = append(names, ing.Name)
	}
	assert.Contains(t, names, "番茄")
	assert.Contains(t, names, "雞蛋")
	assert.Contains(t, names, "鹽")
	assert.Positive(t, draft.Servings)

	// 認不出任何食材時回空草稿
	empty := h.ImportDraft("qwerty")
	require.NotNil(t, empty)
	assert.False(t, empty.HasContent())
}

func TestHeuristicMenuSuggestion(t *testing.T) {
	h := testHeuristics()

	ideas := h.MenuSuggestion(3)
	require.Len(t, ideas, 3)
	assert.Equal(t, 1, ideas[0].Day)
	assert.Equal(t, 3, ideas[2].Day)
	assert.NotEmpty(t, ideas[0].Title)

	// 天數不合理時用預設值
	assert.Len(t, h.MenuSuggestion(0), 3)
	assert.Len(t, h.MenuSuggestion(99), 7)
}

func TestHeuristicAssistantHelpAlwaysAnswers(t *testing.T) {
	h := testHeuristics()

	assert.Contains(t, h.AssistantHelp("recipes", "如何匯入食譜"), "匯入")
	assert.NotEmpty(t, h.AssistantHelp("planner", "怎麼安排"))
	assert.NotEmpty(t, h.AssistantHelp("", ""))
}
