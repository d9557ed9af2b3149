package recipe

import (
	"encoding/json"
	"strconv"
	"strings"

	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// 零數量時視為調味料、強制 to_taste 的關鍵字
var seasoningKeywords = []string{
	"salt", "pepper", "鹽", "胡椒", "味精", "白胡椒", "黑胡椒",
}

// ParseDraft 把供應商回傳的任意 JSON 物件轉成驗證過的草稿。
// 只有輸入根本不是物件時才回 nil；欄位缺漏或型別不對就盡量補救，
// 部分資料永遠勝過整筆失敗。
func ParseDraft(raw json.RawMessage) *Draft {
	if len(raw) == 0 {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := common.ParseJSONBytes(raw, &fields); err != nil {
		common.LogDebug("草稿來源不是 JSON 物件", zap.Error(err))
		return nil
	}

	draft := &Draft{
		Title:            looseString(fields, "title", "name", "dish_name"),
		ShortDescription: looseString(fields, "short_description", "shortDescription", "description", "dish_description"),
		Instructions:     looseInstructions(fields),
		Image:            looseString(fields, "image", "image_url", "imageUrl"),
		Tags:             looseStrings(fields, "tags"),
	}

	if v := loosePositiveInt(fields, "servings", "serving_size"); v > 0 {
		draft.Servings = v
	}
	if v := loosePositiveInt(fields, "time_minutes", "timeMinutes", "total_time_minutes", "cook_time_minutes"); v > 0 {
		draft.TimeMinutes = v
	}

	for _, entry := range looseArray(fields, "ingredients") {
		if ing, ok := parseIngredientEntry(entry); ok {
			draft.Ingredients = append(draft.Ingredients, ing)
		}
	}

	return draft
}

// parseIngredientEntry 解析單一食材項目：純字串走整行解析，
// 結構化物件優先用給定的 amount/unit，不可信時再從名稱重推。
func parseIngredientEntry(entry json.RawMessage) (Ingredient, bool) {
	trimmed := strings.TrimSpace(string(entry))
	if trimmed == "" {
		return Ingredient{}, false
	}

	// 純字串項目："2-3 onions"
	if strings.HasPrefix(trimmed, `"`) {
		var line string
		if err := common.ParseJSONBytes(entry, &line); err != nil {
			return Ingredient{}, false
		}
		return parseIngredientLine(line)
	}

	var fields map[string]json.RawMessage
	if err := common.ParseJSONBytes(entry, &fields); err != nil {
		return Ingredient{}, false
	}

	rawName := looseString(fields, "name", "ingredient")
	if strings.TrimSpace(rawName) == "" {
		return Ingredient{}, false
	}

	amount, ambiguous := looseAmount(fields, "amount")
	unit := NormalizeUnit(looseString(fields, "unit"))
	needsReview := looseBool(fields, "needs_review", "needsReview")

	// 結構化數量不可用時，從名稱文字重推
	if amount <= 0 {
		derived, derivedAmbiguous := ParseAmount(rawName)
		if derived > 0 {
			amount = derived
			ambiguous = ambiguous || derivedAmbiguous
		}
	}
	// 單位還是預設 pcs、但名稱文字暗示別的單位時，以名稱為準
	if unit == UnitPiece {
		if derived := DetectUnitFromText(rawName); derived != UnitPiece {
			unit = derived
		}
	}

	return finishIngredient(CleanName(rawName), amount, unit, needsReview || ambiguous)
}

// parseIngredientLine 整行解析："2-3 onions" 之類的自由文字
func parseIngredientLine(line string) (Ingredient, bool) {
	if strings.TrimSpace(line) == "" {
		return Ingredient{}, false
	}
	amount, ambiguous := ParseAmount(line)
	unit := DetectUnitFromText(line)
	return finishIngredient(CleanName(line), amount, unit, ambiguous)
}

// finishIngredient 套用共同的不變量：
// 零數量的鹽/胡椒類強制 to_taste；to_taste 一律歸零數量；
// 區間或解析不出的數量要標 needs_review。
func finishIngredient(name string, amount float64, unit Unit, needsReview bool) (Ingredient, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Ingredient{}, false
	}

	if amount == 0 && unit != UnitToTaste && isSeasoning(name) {
		unit = UnitToTaste
	}
	if unit == UnitToTaste {
		amount = 0
	} else if amount == 0 {
		// 數量解析不出來，需要人工確認
		needsReview = true
	}

	return Ingredient{
		Name:        name,
		Amount:      amount,
		Unit:        unit,
		NeedsReview: needsReview,
	}, true
}

func isSeasoning(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range seasoningKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ---------------- 寬鬆取值：欄位型別不對就靜默略過 ----------------

func looseString(fields map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := common.ParseJSONBytes(raw, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func looseStrings(fields map[string]json.RawMessage, key string) []string {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var values []string
	if err := common.ParseJSONBytes(raw, &values); err == nil {
		return common.DedupStrings(values)
	}
	// 單一字串也接受
	var single string
	if err := common.ParseJSONBytes(raw, &single); err == nil && strings.TrimSpace(single) != "" {
		return []string{strings.TrimSpace(single)}
	}
	return nil
}

func looseArray(fields map[string]json.RawMessage, key string) []json.RawMessage {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var entries []json.RawMessage
	if err := common.ParseJSONBytes(raw, &entries); err != nil {
		return nil
	}
	return entries
}

// loosePositiveInt 接受數字或數字字串，只回傳正整數，其餘都視為缺省
func loosePositiveInt(fields map[string]json.RawMessage, keys ...string) int {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var num json.Number
		if err := common.ParseJSONBytes(raw, &num); err == nil {
			if f, err := num.Float64(); err == nil && f > 0 {
				return int(f)
			}
			continue
		}
		var s string
		if err := common.ParseJSONBytes(raw, &s); err == nil {
			if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && v > 0 {
				return v
			}
			if v, _ := ParseAmount(s); v > 0 {
				return int(v)
			}
		}
	}
	return 0
}

// looseAmount 接受數字或自由文字數量，回傳 (數量, 是否含糊)
func looseAmount(fields map[string]json.RawMessage, key string) (float64, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}
	var num json.Number
	if err := common.ParseJSONBytes(raw, &num); err == nil {
		if f, err := num.Float64(); err == nil && f > 0 {
			return f, false
		}
		return 0, false
	}
	var s string
	if err := common.ParseJSONBytes(raw, &s); err == nil {
		return ParseAmount(s)
	}
	return 0, false
}

func looseBool(fields map[string]json.RawMessage, keys ...string) bool {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var b bool
		if err := common.ParseJSONBytes(raw, &b); err == nil {
			return b
		}
	}
	return false
}

// looseInstructions 作法欄位可能是字串、字串陣列或帶編號的步驟物件
func looseInstructions(fields map[string]json.RawMessage) string {
	for _, key := range []string{"instructions", "steps", "directions"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}

		var s string
		if err := common.ParseJSONBytes(raw, &s); err == nil {
			return strings.TrimSpace(s)
		}

		var lines []string
		if err := common.ParseJSONBytes(raw, &lines); err == nil {
			joined := strings.TrimSpace(strings.Join(common.DedupStrings(lines), "\n"))
			if joined != "" {
				return joined
			}
			continue
		}

		// [{"step":1,"text":"..."}] 形式
		var steps []map[string]json.RawMessage
		if err := common.ParseJSONBytes(raw, &steps); err == nil {
			var parts []string
			for _, step := range steps {
				if text := looseString(step, "text", "description", "instruction"); text != "" {
					parts = append(parts, text)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, "\n")
			}
		}
	}
	return ""
}
