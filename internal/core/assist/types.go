package assist

import (
	"context"

	"meal-planner/internal/core/ai"
	"meal-planner/internal/core/recipe"
	"meal-planner/internal/pkg/common"
)

// CompletionGateway 文字/視覺補全供應商
type CompletionGateway interface {
	Complete(ctx context.Context, systemPrompt, userPayload string, images []string) ai.Result
}

// OCRGateway 文字辨識供應商
type OCRGateway interface {
	Submit(ctx context.Context, imageURLs []string, multiPage bool) ai.Result
	Fetch(ctx context.Context, pollURL string) ai.Result
}

// ImageGenGateway 圖片生成供應商
type ImageGenGateway interface {
	Models(ctx context.Context) ai.Result
	Run(ctx context.Context, modelID string, params map[string]interface{}) ai.Result
	Status(ctx context.Context, uuid string) ai.Result
}

// PhotoNormalizer 照片前處理
type PhotoNormalizer interface {
	NormalizePhotos(photos []string, limit int) ([]string, error)
}

// EntropySource 只用於佔位圖網址的 cache-busting，
// 抽成介面讓測試可以注入固定值。
type EntropySource interface {
	Seed() string
}

// UUIDEntropy 預設亂數來源
type UUIDEntropy struct{}

// Seed 取 UUID 前八碼
func (UUIDEntropy) Seed() string {
	return common.GenerateUUID()[:8]
}

// ImportOutcome 匯入動作對外的最終結果。
// Issues 已去重，且絕不含供應商原始診斷文字。
type ImportOutcome struct {
	Recipe  *recipe.Draft `json:"recipe"`
	Message string        `json:"message"`
	Issues  []string      `json:"issues"`
}

// IngredientHintsResult 食材名稱提示結果
type IngredientHintsResult struct {
	Hints   []string `json:"hints"`
	Message string   `json:"message"`
}

// TagHintsResult 標籤提示結果，只含允許清單內的標籤
type TagHintsResult struct {
	SuggestedTags []string `json:"suggestedTags"`
	Message       string   `json:"message"`
}

// ServingsHintResult 份量估算結果
type ServingsHintResult struct {
	Servings int    `json:"servings"`
	Message  string `json:"message"`
}

// RecipeImageResult 食譜圖片結果：生成圖或佔位圖網址
type RecipeImageResult struct {
	Image   string `json:"image"`
	Message string `json:"message"`
}

// MenuIdea 單日菜單建議
type MenuIdea struct {
	Day   int    `json:"day"`
	Title string `json:"title"`
	Note  string `json:"note,omitempty"`
}

// MenuSuggestionResult 菜單建議結果
type MenuSuggestionResult struct {
	Suggestions []MenuIdea `json:"suggestions"`
	Message     string     `json:"message"`
}

// AssistantHelpResult 使用說明問答結果
type AssistantHelpResult struct {
	Answer  string `json:"answer"`
	Message string `json:"message"`
}
