package assist

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"meal-planner/internal/core/recipe"
	"meal-planner/internal/pkg/common"
)

// gramsPerServing 估算份量用的每人份重量基準
const gramsPerServing = 350.0

// maxHeuristicHints 後援食材提示的數量上限
const maxHeuristicHints = 8

// knownProduct 啟發式後援認得的常見食材，中英文別名共用一筆
type knownProduct struct {
	name    string
	unit    recipe.Unit
	amount  float64
	aliases []string
}

var knownProducts = []knownProduct{
	{name: "雞蛋", unit: recipe.UnitPiece, amount: 2, aliases: []string{"egg", "eggs", "蛋", "雞蛋"}},
	{name: "洋蔥", unit: recipe.UnitPiece, amount: 1, aliases: []string{"onion", "onions", "洋蔥"}},
	{name: "大蒜", unit: recipe.UnitPiece, amount: 2, aliases: []string{"garlic", "蒜", "大蒜", "蒜頭"}},
	{name: "番茄", unit: recipe.UnitPiece, amount: 2, aliases: []string{"tomato", "tomatoes", "番茄", "西紅柿"}},
	{name: "馬鈴薯", unit: recipe.UnitPiece, amount: 2, aliases: []string{"potato", "potatoes", "馬鈴薯", "土豆"}},
	{name: "胡蘿蔔", unit: recipe.UnitPiece, amount: 1, aliases: []string{"carrot", "carrots", "胡蘿蔔", "紅蘿蔔"}},
	{name: "雞肉", unit: recipe.UnitGram, amount: 300, aliases: []string{"chicken", "雞肉", "雞胸", "雞腿"}},
	{name: "豬肉", unit: recipe.UnitGram, amount: 300, aliases: []string{"pork", "豬肉", "五花肉"}},
	{name: "牛肉", unit: recipe.UnitGram, amount: 300, aliases: []string{"beef", "牛肉"}},
	{name: "米", unit: recipe.UnitGram, amount: 200, aliases: []string{"rice", "米", "白米", "米飯"}},
	{name: "麵條", unit: recipe.UnitGram, amount: 200, aliases: []string{"noodle", "noodles", "pasta", "麵", "麵條", "義大利麵"}},
	{name: "豆腐", unit: recipe.UnitGram, amount: 300, aliases: []string{"tofu", "豆腐"}},
	{name: "牛奶", unit: recipe.UnitMilliliter, amount: 200, aliases: []string{"milk", "牛奶", "鮮奶"}},
	{name: "醬油", unit: recipe.UnitTablespoon, amount: 1, aliases: []string{"soy sauce", "醬油"}},
	{name: "鹽", unit: recipe.UnitToTaste, amount: 0, aliases: []string{"salt", "鹽", "食鹽"}},
	{name: "胡椒", unit: recipe.UnitToTaste, amount: 0, aliases: []string{"pepper", "胡椒", "黑胡椒"}},
	{name: "糖", unit: recipe.UnitTeaspoon, amount: 1, aliases: []string{"sugar", "糖", "砂糖"}},
	{name: "橄欖油", unit: recipe.UnitTablespoon, amount: 1, aliases: []string{"olive oil", "橄欖油", "油"}},
}

// tagKeywords 後援標籤對照：標籤名必須同時在允許清單內才會回傳
var tagKeywords = map[string][]string{
	"vegetarian": {"vegetarian", "素食", "蔬食", "tofu", "豆腐"},
	"quick":      {"quick", "快速", "15 min", "10 min", "便當"},
	"soup":       {"soup", "湯", "stew", "燉"},
	"dessert":    {"dessert", "甜點", "cake", "蛋糕", "cookie", "餅乾"},
	"breakfast":  {"breakfast", "早餐", "pancake", "吐司"},
	"spicy":      {"spicy", "辣", "麻辣", "chili"},
	"seafood":    {"seafood", "海鮮", "fish", "魚", "蝦", "shrimp"},
	"noodles":    {"noodle", "麵", "pasta", "拉麵"},
	"rice":       {"rice", "米", "飯", "丼"},
	"baking":     {"bake", "烤", "oven", "烘焙"},
}

// Heuristics 全離線的後援邏輯：供應商全部失敗時仍要給出可用的結果
type Heuristics struct {
	allowedTags []string
	entropy     EntropySource
}

// NewHeuristics 創建啟發式後援
func NewHeuristics(allowedTags []string, entropy EntropySource) *Heuristics {
	if entropy == nil {
		entropy = UUIDEntropy{}
	}
	return &Heuristics{allowedTags: allowedTags, entropy: entropy}
}

// IngredientHints 從部分輸入比對已知食材名稱，當作自動完成的後援
func (h *Heuristics) IngredientHints(partial string) []string {
	query := strings.ToLower(strings.TrimSpace(partial))
	if query == "" {
		return nil
	}

	var hints []string
	for _, product := range knownProducts {
		for _, alias := range product.aliases {
			if strings.Contains(alias, query) || strings.Contains(query, alias) {
				hints = append(hints, product.name)
				break
			}
		}
		if len(hints) >= maxHeuristicHints {
			break
		}
	}
	return common.DedupStrings(hints)
}

// TagHints 關鍵字掃描出候選標籤，只回允許清單內的
func (h *Heuristics) TagHints(text string) []string {
	lower := strings.ToLower(text)
	allowed := make(map[string]bool, len(h.allowedTags))
	for _, tag := range h.allowedTags {
		allowed[strings.ToLower(tag)] = true
	}

	var tags []string
	for tag, keywords := range tagKeywords {
		if !allowed[tag] {
			continue
		}
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				tags = append(tags, tag)
				break
			}
		}
	}
	return common.DedupStrings(tags)
}

// ServingsHint 以食材總重估人份：換算成公克加總後除以每人份基準，
// 夾在 1 到 12 之間，完全沒有可換算的食材時回預設 2 人份。
func (h *Heuristics) ServingsHint(ingredients []recipe.Ingredient) int {
	var totalGrams float64
	for _, ing := range ingredients {
		totalGrams += approximateGrams(ing)
	}
	if totalGrams <= 0 {
		return 2
	}
	servings := int(math.Round(totalGrams / gramsPerServing))
	if servings < 1 {
		servings = 1
	}
	if servings > 12 {
		servings = 12
	}
	return servings
}

func approximateGrams(ing recipe.Ingredient) float64 {
	switch ing.Unit {
	case recipe.UnitGram:
		return ing.Amount
	case recipe.UnitKilogram:
		return ing.Amount * 1000
	case recipe.UnitMilliliter:
		return ing.Amount
	case recipe.UnitLiter:
		return ing.Amount * 1000
	case recipe.UnitPiece:
		return ing.Amount * 100
	case recipe.UnitTeaspoon:
		return ing.Amount * 5
	case recipe.UnitTablespoon:
		return ing.Amount * 15
	default:
		return 0
	}
}

// PlaceholderImage 產生確定可用的佔位圖網址，seed 讓同名食譜不共用同一張
func (h *Heuristics) PlaceholderImage(title string) string {
	text := strings.TrimSpace(title)
	if text == "" {
		text = "Recipe"
	}
	return fmt.Sprintf("https://placehold.co/640x480?text=%s&seed=%s",
		url.QueryEscape(common.TruncateString(text, 40)), h.entropy.Seed())
}

// ImportDraft 供應商全部失敗時的最後骨架：能從文字認出食材就給部分草稿，
// 什麼都認不出來時回空草稿讓呼叫端以 null 處理。
func (h *Heuristics) ImportDraft(text string) *recipe.Draft {
	lower := strings.ToLower(text)
	var ingredients []recipe.Ingredient
	seen := make(map[string]bool)
	for _, product := range knownProducts {
		if seen[product.name] || !matchesAlias(lower, product.aliases) {
			continue
		}
		seen[product.name] = true
		ingredients = append(ingredients, recipe.Ingredient{
			Name:   product.name,
			Amount: product.amount,
			Unit:   product.unit,
		})
	}

	if len(ingredients) == 0 {
		return &recipe.Draft{}
	}
	return &recipe.Draft{
		Title:       "未命名食譜",
		Tags:        h.TagHints(text),
		Servings:    h.ServingsHint(ingredients),
		Ingredients: ingredients,
	}
}

// MenuSuggestion 固定的後援菜單，依天數輪替
func (h *Heuristics) MenuSuggestion(days int) []MenuIdea {
	if days < 1 {
		days = 3
	}
	if days > 7 {
		days = 7
	}
	rotation := []MenuIdea{
		{Title: "番茄炒蛋", Note: "家常快炒，備料十分鐘"},
		{Title: "蒜香清炒時蔬", Note: "用冰箱現有的綠色蔬菜搭配蒜末"},
		{Title: "味噌豆腐湯", Note: "十分鐘就能完成的暖胃湯品"},
		{Title: "醬油雞腿飯", Note: "一鍋到底，適合平日晚餐"},
		{Title: "義大利麵", Note: "以現有醬料與蔬菜簡單變化"},
		{Title: "馬鈴薯燉肉", Note: "可一次做兩天份"},
		{Title: "胡蘿蔔炊飯", Note: "電鍋料理，省時省力"},
	}

	ideas := make([]MenuIdea, 0, days)
	for i := 0; i < days; i++ {
		idea := rotation[i%len(rotation)]
		idea.Day = i + 1
		ideas = append(ideas, idea)
	}
	return ideas
}

// AssistantHelp 固定決策樹：依頁面與問題關鍵字回覆操作指引
func (h *Heuristics) AssistantHelp(page, question string) string {
	lower := strings.ToLower(question)
	switch {
	case strings.Contains(lower, "匯入") || strings.Contains(lower, "import"):
		return "您可以在食譜頁面點選「匯入」，貼上網址或上傳食譜照片，系統會自動整理成草稿。"
	case strings.Contains(lower, "份量") || strings.Contains(lower, "servings") || strings.Contains(lower, "人份"):
		return "在編輯食譜時調整「人份」欄位，食材份量會依比例換算。"
	case strings.Contains(lower, "標籤") || strings.Contains(lower, "tag"):
		return "標籤可在食譜編輯頁底部選取，方便之後依分類篩選食譜。"
	case strings.Contains(lower, "刪除") || strings.Contains(lower, "delete"):
		return "開啟該筆食譜後從右上角選單選擇「刪除」，刪除後無法復原。"
	}

	switch strings.ToLower(strings.TrimSpace(page)) {
	case "recipes", "recipe", "食譜":
		return "這裡是食譜清單，您可以新增、匯入或搜尋食譜，點選任一食譜可查看與編輯。"
	case "planner", "plan", "週計畫":
		return "在週計畫頁面把食譜拖曳到日期格即可安排當週菜單。"
	case "shopping", "購物清單":
		return "購物清單會彙整週計畫中所有食材，勾選即可標記已購買。"
	default:
		return "您可以描述想完成的操作，例如「如何匯入食譜」，我會提供對應的步驟說明。"
	}
}

func matchesAlias(lowerText string, aliases []string) bool {
	for _, alias := range aliases {
		if strings.Contains(lowerText, alias) {
			return true
		}
	}
	return false
}
