package recipe

import (
	"strings"

	"meal-planner/internal/pkg/common"
)

// Merge 將逐頁解析出的多份草稿合併成一份。
// 標題、描述、圖片取各部分中第一個非空值（依頁序）；作法以空行串接，
// 保留跨頁步驟順序；份量與時間取第一個正值；標籤取聯集；
// 食材依 (小寫名稱, 單位) 分組，同組數量相加、needs_review 取 OR。
// 空輸入回 nil。
func Merge(parts []*Draft) *Draft {
	var usable []*Draft
	for _, p := range parts {
		if p != nil {
			usable = append(usable, p)
		}
	}
	if len(usable) == 0 {
		return nil
	}

	merged := &Draft{}
	var instructions []string
	var tags []string

	for _, part := range usable {
		if merged.Title == "" {
			merged.Title = part.Title
		}
		if merged.ShortDescription == "" {
			merged.ShortDescription = part.ShortDescription
		}
		if merged.Image == "" {
			merged.Image = part.Image
		}
		if merged.Servings == 0 && part.Servings > 0 {
			merged.Servings = part.Servings
		}
		if merged.TimeMinutes == 0 && part.TimeMinutes > 0 {
			merged.TimeMinutes = part.TimeMinutes
		}
		if text := strings.TrimSpace(part.Instructions); text != "" {
			instructions = append(instructions, text)
		}
		tags = append(tags, part.Tags...)
	}

	merged.Instructions = strings.Join(instructions, "\n\n")
	merged.Tags = common.DedupStrings(tags)
	merged.Ingredients = mergeIngredients(usable)

	return merged
}

type ingredientKey struct {
	name string
	unit Unit
}

// mergeIngredients 依 (小寫名稱, 單位) 去重，保留首次出現的順序與寫法
func mergeIngredients(parts []*Draft) []Ingredient {
	index := make(map[ingredientKey]int)
	var result []Ingredient

	for _, part := range parts {
		for _, ing := range part.Ingredients {
			key := ingredientKey{
				name: strings.ToLower(strings.TrimSpace(ing.Name)),
				unit: ing.Unit,
			}
			if pos, ok := index[key]; ok {
				result[pos].Amount += ing.Amount
				result[pos].NeedsReview = result[pos].NeedsReview || ing.NeedsReview
				continue
			}
			index[key] = len(result)
			result = append(result, ing)
		}
	}

	return result
}
