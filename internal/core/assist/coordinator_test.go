package assist

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"meal-planner/internal/core/ai"
	"meal-planner/internal/core/recipe"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompletion struct {
	fn    func(systemPrompt, userPayload string, images []string) ai.Result
	calls int
}

func (s *stubCompletion) Complete(ctx context.Context, systemPrompt, userPayload string, images []string) ai.Result {
	s.calls++
	return s.fn(systemPrompt, userPayload, images)
}

type stubOCR struct {
	submit     ai.Result
	fetch      ai.Result
	fetchCalls int
}

func (s *stubOCR) Submit(ctx context.Context, imageURLs []string, multiPage bool) ai.Result {
	return s.submit
}

func (s *stubOCR) Fetch(ctx context.Context, pollURL string) ai.Result {
	s.fetchCalls++
	return s.fetch
}

type stubImageGen struct {
	models ai.Result
	run    ai.Result
	status ai.Result
}

func (s *stubImageGen) Models(ctx context.Context) ai.Result { return s.models }
func (s *stubImageGen) Run(ctx context.Context, modelID string, params map[string]interface{}) ai.Result {
	return s.run
}
func (s *stubImageGen) Status(ctx context.Context, id string) ai.Result { return s.status }

type passthroughPhotos struct{}

func (passthroughPhotos) NormalizePhotos(photos []string, limit int) ([]string, error) {
	if limit > 0 && len(photos) > limit {
		photos = photos[:limit]
	}
	return photos, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Assist.MaxPhotos = 8
	cfg.Assist.CombinedPhotoLimit = 5
	cfg.Assist.OCRTextLimit = 20000
	cfg.Assist.AllowedTags = []string{"quick", "soup", "vegetarian", "dessert"}
	cfg.Poll.OCR.Attempts = 2
	cfg.Poll.OCR.Delay = time.Millisecond
	cfg.Poll.ImageGen.Attempts = 2
	cfg.Poll.ImageGen.Delay = time.Millisecond
	return cfg
}

func newTestService(completion *stubCompletion, ocr *stubOCR, gen *stubImageGen) *Service {
	if ocr == nil {
		ocr = &stubOCR{submit: ai.Fail(ai.ErrorAuth), fetch: ai.Fail(ai.ErrorAuth)}
	}
	if gen == nil {
		gen = &stubImageGen{
			models: ai.Fail(ai.ErrorAuth),
			run:    ai.Fail(ai.ErrorAuth),
			status: ai.Fail(ai.ErrorAuth),
		}
	}
	return NewService(testConfig(), completion, ocr, gen, passthroughPhotos{}, fixedEntropy{})
}

func TestImportFromURLParsesRangeIngredient(t *testing.T) {
	completion := &stubCompletion{fn: func(systemPrompt, userPayload string, images []string) ai.Result {
		return ai.Ok(json.RawMessage(`{
			"title": "Onion soup",
			"instructions": "Slice onions. Simmer.",
			"ingredients": ["2-3 onions"]
		}`))
	}}

	outcome := newTestService(completion, nil, nil).ImportFromURL(context.Background(), "https://example.com/soup")

	require.NotNil(t, outcome.Recipe)
	assert.Equal(t, "Onion soup", outcome.Recipe.Title)
	require.Len(t, outcome.Recipe.Ingredients, 1)
	assert.Equal(t, recipe.Ingredient{
		Name:        "onions",
		Amount:      2.5,
		Unit:        recipe.UnitPiece,
		NeedsReview: true,
	}, outcome.Recipe.Ingredients[0])
	assert.Empty(t, outcome.Issues)
}

func TestImportFromPhotosAllProvidersDown(t *testing.T) {
	completion := &stubCompletion{fn: func(systemPrompt, userPayload string, images []string) ai.Result {
		return ai.Fail(ai.ErrorRateLimited)
	}}

	outcome := newTestService(completion, nil, nil).ImportFromPhotos(context.Background(), []string{"p1", "p2"})

	// 最壞情況：null 草稿加上固定訊息，絕不外洩原始診斷
	assert.Nil(t, outcome.Recipe)
	assert.Equal(t, common.MsgHeuristicFallback, outcome.Message)
	assert.ElementsMatch(t, []string{
		common.MsgProviderAuth,
		common.MsgOCRFallback,
		common.MsgProviderRateLimited,
		common.MsgHeuristicFallback,
	}, outcome.Issues)
	// 整批一次加上每頁各一次
	assert.Equal(t, 3, completion.calls)
}

func TestImportFromPhotosCombinedVisionSucceeds(t *testing.T) {
	completion := &stubCompletion{fn: func(systemPrompt, userPayload string, images []string) ai.Result {
		return ai.Ok(json.RawMessage(`{"title":"滷肉飯","instructions":"滷一小時"}`))
	}}

	outcome := newTestService(completion, nil, nil).ImportFromPhotos(context.Background(), []string{"p1"})

	require.NotNil(t, outcome.Recipe)
	assert.Equal(t, "滷肉飯", outcome.Recipe.Title)
	// OCR 失敗留下的訊息仍要保留
	assert.Contains(t, outcome.Issues, common.MsgOCRFallback)
	// 整批成功就不會逐頁重試
	assert.Equal(t, 1, completion.calls)
}

func TestImportFromPhotosPageMergeFallback(t *testing.T) {
	pages := []string{
		`{"title":"咖哩飯","ingredients":[{"name":"flour","amount":100,"unit":"g"}]}`,
		`{"instructions":"燉煮","ingredients":[{"name":"flour","amount":50,"unit":"g"}]}`,
	}
	call := 0
	completion := &stubCompletion{fn: func(systemPrompt, userPayload string, images []string) ai.Result {
		call++
		if call == 1 {
			// 整批嘗試失敗
			return ai.Fail(ai.ErrorUnavailable)
		}
		return ai.Ok(json.RawMessage(pages[call-2]))
	}}

	outcome := newTestService(completion, nil, nil).ImportFromPhotos(context.Background(), []string{"p1", "p2"})

	require.NotNil(t, outcome.Recipe)
	assert.Equal(t, "咖哩飯", outcome.Recipe.Title)
	assert.Equal(t, "燉煮", outcome.Recipe.Instructions)
	require.Len(t, outcome.Recipe.Ingredients, 1)
	assert.Equal(t, 150.0, outcome.Recipe.Ingredients[0].Amount)
}

func TestImportFiltersTagsAgainstAllowList(t *testing.T) {
	completion := &stubCompletion{fn: func(systemPrompt, userPayload string, images []string) ai.Result {
		return ai.Ok(json.RawMessage(`{"title":"t","instructions":"i","tags":["Quick","unknown","soup","soup"]}`))
	}}

	outcome := newTestService(completion, nil, nil).ImportFromURL(context.Background(), "https://example.com")

	require.NotNil(t, outcome.Recipe)
	assert.Equal(t, []string{"quick", "soup"}, outcome.Recipe.Tags)
}

func TestImportFromPhotosOCRTierSucceeds(t *testing.T) {
	ocr := &stubOCR{
		submit: ai.Ok(json.RawMessage(`{"status_url":"https://ocr.example/job/1"}`)),
		fetch: ai.Ok(json.RawMessage(`{
			"status": "COMPLETED",
			"result": {"pages": [{"text": "咖哩飯 洋蔥 2 顆"}]}
		}`)),
	}
	completion := &stubCompletion{fn: func(systemPrompt, userPayload string, images []string) ai.Result {
		// 結構化呼叫會帶 OCR 文字
		assert.Contains(t, userPayload, "咖哩飯")
		assert.Empty(t, images)
		return ai.Ok(json.RawMessage(`{"title":"咖哩飯","instructions":"煮"}`))
	}}

	outcome := newTestService(completion, ocr, nil).ImportFromPhotos(context.Background(), []string{"p1"})

	require.NotNil(t, outcome.Recipe)
	assert.Equal(t, "咖哩飯", outcome.Recipe.Title)
	assert.Empty(t, outcome.Issues)
	assert.Equal(t, 1, completion.calls)
}

func TestRecipeImageFallsBackToPlaceholder(t *testing.T) {
	completion := &stubCompletion{fn: func(systemPrompt, userPayload string, images []string) ai.Result {
		return ai.Fail(ai.ErrorUnavailable)
	}}

	result := newTestService(completion, nil, nil).RecipeImage(context.Background(), "Onion Soup")

	assert.Equal(t, "https://placehold.co/640x480?text=Onion+Soup&seed=deadbeef", result.Image)
	assert.NotEmpty(t, result.Message)
}

func TestRecipeImageGeneratedPath(t *testing.T) {
	gen := &stubImageGen{
		models: ai.Ok(json.RawMessage(`[{"id":"model-1"}]`)),
		run:    ai.Ok(json.RawMessage(`{"uuid":"job-9"}`)),
		status: ai.Ok(json.RawMessage(`{"status":"COMPLETED","images":["data:image/jpeg;base64,abc"]}`)),
	}
	completion := &stubCompletion{fn: func(systemPrompt, userPayload string, images []string) ai.Result {
		return ai.Fail(ai.ErrorUnavailable)
	}}

	result := newTestService(completion, nil, gen).RecipeImage(context.Background(), "滷肉飯")

	assert.Equal(t, "data:image/jpeg;base64,abc", result.Image)
	assert.Empty(t, result.Message)
}

func TestTagHintsProviderTagsFiltered(t *testing.T) {
	completion := &stubCompletion{fn: func(systemPrompt, userPayload string, images []string) ai.Result {
		return ai.Ok(json.RawMessage(`{"suggested_tags":["quick","spicy"]}`))
	}}

	result := newTestService(completion, nil, nil).TagHints(context.Background(), "十分鐘炒飯", "")

	assert.Equal(t, []string{"quick"}, result.SuggestedTags)
	assert.Empty(t, result.Message)
}

func TestTagHintsFallbackFiltersAllowList(t *testing.T) {
	completion := &stubCompletion{fn: func(systemPrompt, userPayload string, images []string) ai.Result {
		return ai.Fail(ai.ErrorAuth)
	}}

	result := newTestService(completion, nil, nil).TagHints(context.Background(), "味噌湯", "快速湯品")

	assert.Contains(t, result.SuggestedTags, "soup")
	assert.NotEmpty(t, result.Message)
}
