package assist

import (
	"context"
	"encoding/json"
	"testing"

	"meal-planner/internal/core/ai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMineTextProviderShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{
			"result holds the text directly",
			`{"status":"done","result":"洋蔥湯\n洋蔥 2 顆"}`,
			"洋蔥湯\n洋蔥 2 顆",
		},
		{
			"output holds the text directly",
			`{"status":"done","output":"洋蔥湯\n洋蔥 2 顆"}`,
			"洋蔥湯\n洋蔥 2 顆",
		},
		{
			"response wraps a text field",
			`{"response":{"text":"番茄湯"}}`,
			"番茄湯",
		},
		{
			"result wraps pages",
			`{"status":"done","result":{"pages":[{"text":"第一頁"},{"text":"第二頁"}]}}`,
			"第一頁\n第二頁",
		},
		{
			"urls and unknown keys are skipped",
			`{"status_url":"https://ocr.example/job/1","note":"忽略我","text":"保留我"}`,
			"保留我",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mineText(json.RawMessage(tt.payload), 0))
		})
	}
}

func TestMineTextStableOrder(t *testing.T) {
	payload := json.RawMessage(`{"text":"丙","content":"甲","markdown":"乙"}`)

	// 同層鍵依字母序走訪，重複挖掘必須得到同一串文字
	first := mineText(payload, 0)
	assert.Equal(t, "甲\n乙\n丙", first)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, mineText(payload, 0))
	}
}

func TestImportFromPhotosOCRInlineResult(t *testing.T) {
	// 送出回應直接附結果且沒有輪詢網址，不應降級也不應輪詢
	ocr := &stubOCR{
		submit: ai.Ok(json.RawMessage(`{"status":"done","result":{"pages":[{"text":"番茄炒蛋 蛋 3 顆"}]}}`)),
		fetch:  ai.Fail(ai.ErrorUnavailable),
	}
	completion := &stubCompletion{fn: func(systemPrompt, userPayload string, images []string) ai.Result {
		assert.Contains(t, userPayload, "番茄炒蛋")
		return ai.Ok(json.RawMessage(`{"title":"番茄炒蛋","instructions":"炒"}`))
	}}

	outcome := newTestService(completion, ocr, nil).ImportFromPhotos(context.Background(), []string{"p1"})

	require.NotNil(t, outcome.Recipe)
	assert.Equal(t, "番茄炒蛋", outcome.Recipe.Title)
	assert.Empty(t, outcome.Issues)
	assert.Zero(t, ocr.fetchCalls)
}
