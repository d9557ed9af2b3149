package imagegen

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

// Client 圖片生成供應商客戶端。
// 協議分兩步：先查可用模型，再送出生成任務，之後以 uuid 輪詢狀態。
type Client struct {
	cfg    *config.Config
	client *resty.Client
}

// NewClient 創建圖片生成客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.ImageGen.BaseURL).
		SetTimeout(30 * time.Second).
		SetHeader("X-Key", fmt.Sprintf("Key %s", cfg.ImageGen.APIKey)).
		SetHeader("X-Secret", fmt.Sprintf("Secret %s", cfg.ImageGen.SecretKey))

	return &Client{
		cfg:    cfg,
		client: client,
	}
}

// Configured 兩個憑證欄位都要有值才算已設定
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.cfg.ImageGen.APIKey) != "" &&
		strings.TrimSpace(c.cfg.ImageGen.SecretKey) != ""
}

// Models 查詢可用模型清單
func (c *Client) Models(ctx context.Context) ai.Result {
	if !c.Configured() {
		common.LogDebug("圖片生成供應商未設定，略過調用")
		return ai.Fail(ai.ErrorAuth)
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/key/api/v1/models")
	common.LogProviderCall("imagegen", time.Since(start), err)

	return c.toResult(resp, err)
}

// Run 送出生成任務。params 以 JSON 形式放進 multipart 表單。
func (c *Client) Run(ctx context.Context, modelID string, params map[string]interface{}) ai.Result {
	if !c.Configured() {
		return ai.Fail(ai.ErrorAuth)
	}

	paramsJSON, err := common.ToJSON(params)
	if err != nil {
		common.LogError("圖片生成參數序列化失敗", zap.Error(err))
		return ai.Fail(ai.ErrorBadInput)
	}

	start := time.Now()
	resp, respErr := c.client.R().
		SetContext(ctx).
		SetMultipartField("model_id", "", "text/plain", strings.NewReader(modelID)).
		SetMultipartField("params", "", "application/json", strings.NewReader(paramsJSON)).
		Post("/key/api/v1/text2image/run")
	common.LogProviderCall("imagegen", time.Since(start), respErr)

	return c.toResult(resp, respErr)
}

// Status 查詢生成任務狀態，回應含 status / images / errorDescription
func (c *Client) Status(ctx context.Context, uuid string) ai.Result {
	if !c.Configured() {
		return ai.Fail(ai.ErrorAuth)
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/key/api/v1/text2image/status/%s", uuid))
	common.LogProviderCall("imagegen", time.Since(start), err)

	return c.toResult(resp, err)
}

func (c *Client) toResult(resp *resty.Response, err error) ai.Result {
	if err != nil {
		return ai.Fail(ai.ErrorUnavailable)
	}
	if resp.IsError() {
		common.LogError("圖片生成供應商回傳錯誤狀態",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("response", common.TruncateString(resp.String(), 500)),
		)
		return ai.Fail(ai.ClassifyStatus(resp.StatusCode()))
	}

	payload := common.ExtractJSONObject(resp.String())
	if payload == nil {
		// 模型清單端點可能直接回傳 JSON 陣列
		trimmed := strings.TrimSpace(resp.String())
		if strings.HasPrefix(trimmed, "[") {
			return ai.Ok([]byte(trimmed))
		}
		common.LogError("圖片生成回應不是合法 JSON",
			zap.Int("body_length", len(resp.Body())),
		)
		return ai.Fail(ai.ErrorUnavailable)
	}

	return ai.Ok(payload)
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
