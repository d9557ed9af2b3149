package recipe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDraftFullObject(t *testing.T) {
	raw := json.RawMessage(`{
		"title": "番茄炒蛋",
		"short_description": "家常快炒",
		"instructions": "打蛋。下鍋炒熟。",
		"servings": 2,
		"time_minutes": 15,
		"tags": ["quick", "quick", "breakfast"],
		"ingredients": [
			{"name": "蛋", "amount": 3, "unit": "pcs"},
			{"name": "番茄", "amount": 2, "unit": "pcs"}
		]
	}`)

	draft := ParseDraft(raw)
	require.NotNil(t, draft)
	assert.Equal(t, "番茄炒蛋", draft.Title)
	assert.Equal(t, "家常快炒", draft.ShortDescription)
	assert.Equal(t, 2, draft.Servings)
	assert.Equal(t, 15, draft.TimeMinutes)
	assert.Equal(t, []string{"quick", "breakfast"}, draft.Tags)
	require.Len(t, draft.Ingredients, 2)
	assert.Equal(t, Ingredient{Name: "蛋", Amount: 3, Unit: UnitPiece}, draft.Ingredients[0])
}

func TestParseDraftBareStringIngredient(t *testing.T) {
	raw := json.RawMessage(`{"title":"t","ingredients":["2-3 onions"]}`)

	draft := ParseDraft(raw)
	require.NotNil(t, draft)
	require.Len(t, draft.Ingredients, 1)
	assert.Equal(t, Ingredient{
		Name:        "onions",
		Amount:      2.5,
		Unit:        UnitPiece,
		NeedsReview: true,
	}, draft.Ingredients[0])
}

func TestParseDraftRederivesFromName(t *testing.T) {
	// 結構化 amount 不可信時要從名稱重推
	raw := json.RawMessage(`{"title":"t","ingredients":[{"name":"200 g flour","amount":0,"unit":"pcs"}]}`)

	draft := ParseDraft(raw)
	require.NotNil(t, draft)
	require.Len(t, draft.Ingredients, 1)
	ing := draft.Ingredients[0]
	assert.Equal(t, "flour", ing.Name)
	assert.Equal(t, 200.0, ing.Amount)
	assert.Equal(t, UnitGram, ing.Unit)
	assert.False(t, ing.NeedsReview)
}

func TestParseDraftSeasoningForcedToTaste(t *testing.T) {
	raw := json.RawMessage(`{"title":"t","ingredients":[{"name":"salt","amount":0,"unit":"pcs"}]}`)

	draft := ParseDraft(raw)
	require.NotNil(t, draft)
	require.Len(t, draft.Ingredients, 1)
	ing := draft.Ingredients[0]
	assert.Equal(t, UnitToTaste, ing.Unit)
	assert.Equal(t, 0.0, ing.Amount)
}

func TestParseDraftToTasteZeroesAmount(t *testing.T) {
	raw := json.RawMessage(`{"title":"t","ingredients":[{"name":"soy sauce","amount":3,"unit":"to_taste"}]}`)

	draft := ParseDraft(raw)
	require.NotNil(t, draft)
	require.Len(t, draft.Ingredients, 1)
	assert.Equal(t, 0.0, draft.Ingredients[0].Amount)
	assert.Equal(t, UnitToTaste, draft.Ingredients[0].Unit)
}

func TestParseDraftZeroAmountNeedsReview(t *testing.T) {
	raw := json.RawMessage(`{"title":"t","ingredients":[{"name":"mystery herb"}]}`)

	draft := ParseDraft(raw)
	require.NotNil(t, draft)
	require.Len(t, draft.Ingredients, 1)
	assert.True(t, draft.Ingredients[0].NeedsReview)
}

func TestParseDraftInstructionsFromStepArray(t *testing.T) {
	raw := json.RawMessage(`{"title":"t","instructions":[{"step":1,"description":"切菜"},{"step":2,"description":"下鍋"}]}`)

	draft := ParseDraft(raw)
	require.NotNil(t, draft)
	assert.Contains(t, draft.Instructions, "切菜")
	assert.Contains(t, draft.Instructions, "下鍋")
}

func TestParseDraftPartialContentSurvives(t *testing.T) {
	// 欄位型別全錯也不該整筆失敗
	raw := json.RawMessage(`{"title":"t","servings":"a lot","time_minutes":-5,"ingredients":"not an array"}`)

	draft := ParseDraft(raw)
	require.NotNil(t, draft)
	assert.Equal(t, "t", draft.Title)
	assert.Zero(t, draft.Servings)
	assert.Zero(t, draft.TimeMinutes)
	assert.Empty(t, draft.Ingredients)
}

func TestParseDraftNonObject(t *testing.T) {
	assert.Nil(t, ParseDraft(json.RawMessage(`"just a string"`)))
	assert.Nil(t, ParseDraft(json.RawMessage(`[1,2,3]`)))
	assert.Nil(t, ParseDraft(nil))
}
