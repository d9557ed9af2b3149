package completion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"meal-planner/internal/core/ai"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client 文字/視覺補全供應商客戶端
type Client struct {
	cfg    *config.Config
	client *resty.Client
}

// NewClient 創建補全客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.Completion.BaseURL).
		SetTimeout(cfg.Completion.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Completion.APIKey)).
		SetHeader("HTTP-Referer", "https://meal-planner.app").
		SetHeader("X-Title", "Meal Planner")

	return &Client{
		cfg:    cfg,
		client: client,
	}
}

// Configured 是否已設定憑證
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.cfg.Completion.APIKey) != ""
}

// Complete 發送一次補全請求：系統提示 + 使用者內容 + 0..N 張圖片。
// 回傳的 Payload 是從模型文字回覆中取出的第一個合法 JSON 物件。
func (c *Client) Complete(ctx context.Context, systemPrompt, userPayload string, images []string) ai.Result {
	// 未設定憑證時直接短路，不發任何網路請求
	if !c.Configured() {
		common.LogDebug("補全供應商未設定，略過調用")
		return ai.Fail(ai.ErrorAuth)
	}

	msgContent := []map[string]interface{}{
		{
			"type": "text",
			"text": userPayload,
		},
	}
	for _, img := range images {
		url := img
		if !strings.HasPrefix(img, "data:image/") && !strings.HasPrefix(img, "http") {
			url = fmt.Sprintf("data:image/jpeg;base64,%s", img)
		}
		msgContent = append(msgContent, map[string]interface{}{
			"type": "image_url",
			"image_url": map[string]string{
				"url": url,
			},
		})
	}

	// 構建請求
	req := map[string]interface{}{
		"model": c.cfg.Completion.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "system",
				"content": systemPrompt,
			},
			{
				"role":    "user",
				"content": msgContent,
			},
		},
		"max_tokens": c.cfg.Completion.MaxTokens,
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	common.LogProviderCall("completion", time.Since(start), err)

	if err != nil {
		return ai.Fail(ai.ErrorUnavailable)
	}

	if resp.IsError() {
		// 原始回應只進日誌，對外只給分類後的固定句子
		common.LogError("補全供應商回傳錯誤狀態",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", c.cfg.Completion.Model),
			zap.String("response", common.TruncateString(resp.String(), 500)),
		)
		return ai.Fail(ai.ClassifyStatus(resp.StatusCode()))
	}

	// 解析回應
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		common.LogError("補全回應解析失敗", zap.Error(err))
		return ai.Fail(ai.ErrorUnavailable)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		common.LogError("補全回應內容為空", zap.String("model", c.cfg.Completion.Model))
		return ai.Fail(ai.ErrorUnavailable)
	}

	content := result.Choices[0].Message.Content
	payload := common.ExtractJSONObject(content)
	if payload == nil {
		common.LogWarn("補全回應中找不到合法 JSON 物件",
			zap.Int("content_length", len(content)),
		)
		return ai.Fail(ai.ErrorUnavailable)
	}

	common.LogDebug("補全請求成功",
		zap.String("model", c.cfg.Completion.Model),
		zap.Int("content_length", len(content)),
		zap.Int("images", len(images)),
	)

	return ai.Ok(payload)
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
