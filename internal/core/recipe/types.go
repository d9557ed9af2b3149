package recipe

// Unit 封閉的單位集合
type Unit string

const (
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
	UnitPiece      Unit = "pcs"
	UnitTeaspoon   Unit = "tsp"
	UnitTablespoon Unit = "tbsp"
	UnitToTaste    Unit = "to_taste"
)

// Valid 是否屬於封閉單位集合
func (u Unit) Valid() bool {
	switch u {
	case UnitGram, UnitKilogram, UnitMilliliter, UnitLiter,
		UnitPiece, UnitTeaspoon, UnitTablespoon, UnitToTaste:
		return true
	}
	return false
}

// Ingredient 草稿中的單一食材。
// 不變量：unit 為 to_taste 時 amount 必為 0；
// needs_review 表示來源數量含糊（區間）或無法解析，需要使用者確認。
type Ingredient struct {
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	Unit        Unit    `json:"unit"`
	NeedsReview bool    `json:"needs_review"`
}

// Draft 匯入產生的食譜草稿，尚未存檔，等使用者確認。
// servings / time_minutes 只能是正整數或缺省，不會出現零或負值。
type Draft struct {
	Title            string       `json:"title"`
	ShortDescription string       `json:"short_description"`
	Instructions     string       `json:"instructions"`
	Servings         int          `json:"servings,omitempty"`
	TimeMinutes      int          `json:"time_minutes,omitempty"`
	Image            string       `json:"image"`
	Tags             []string     `json:"tags"`
	Ingredients      []Ingredient `json:"ingredients"`
}

// HasContent 草稿是否有可用內容：標題、作法、描述任一非空，或至少一項食材
func (d *Draft) HasContent() bool {
	if d == nil {
		return false
	}
	return d.Title != "" || d.Instructions != "" || d.ShortDescription != "" || len(d.Ingredients) > 0
}
