package ocr

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"meal-planner/internal/core/ai"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client OCR 供應商客戶端。
// 認證有兩種 header 形式：先用 Bearer，收到 401/403 時換用 X-API-Key
// 重試一次。固定只嘗試兩次，不多不少。
type Client struct {
	cfg    *config.Config
	client *resty.Client
}

// NewClient 創建 OCR 客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.OCR.BaseURL).
		SetTimeout(30 * time.Second)

	return &Client{
		cfg:    cfg,
		client: client,
	}
}

// Configured 是否已設定憑證
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.cfg.OCR.APIKey) != ""
}

// Submit 送出辨識任務。Payload 是供應商的原始 JSON 回應，
// 可能內含 status_url / response_url 供輪詢。
func (c *Client) Submit(ctx context.Context, imageURLs []string, multiPage bool) ai.Result {
	if !c.Configured() {
		common.LogDebug("OCR 供應商未設定，略過調用")
		return ai.Fail(ai.ErrorAuth)
	}

	body := map[string]interface{}{
		"input": map[string]interface{}{
			"image_urls": imageURLs,
			"language":   c.cfg.OCR.Language,
			"multi_page": multiPage,
		},
	}

	return c.do(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.SetBody(body).Post("/enqueue")
	})
}

// Fetch 以輪詢 URL 取得任務狀態
func (c *Client) Fetch(ctx context.Context, pollURL string) ai.Result {
	if !c.Configured() {
		return ai.Fail(ai.ErrorAuth)
	}

	return c.do(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.Get(pollURL)
	})
}

// do 執行請求並套用雙重認證：Bearer 失敗（401/403）時換 X-API-Key 再試一次
func (c *Client) do(ctx context.Context, send func(*resty.Request) (*resty.Response, error)) ai.Result {
	start := time.Now()
	resp, err := send(c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", c.cfg.OCR.APIKey)))

	if err == nil && (resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden) {
		common.LogDebug("OCR Bearer 認證被拒，改用 X-API-Key 重試",
			zap.Int("status_code", resp.StatusCode()),
		)
		resp, err = send(c.client.R().
			SetContext(ctx).
			SetHeader("X-API-Key", c.cfg.OCR.APIKey))
	}
	common.LogProviderCall("ocr", time.Since(start), err)

	if err != nil {
		return ai.Fail(ai.ErrorUnavailable)
	}
	if resp.IsError() {
		common.LogError("OCR 供應商回傳錯誤狀態",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("response", common.TruncateString(resp.String(), 500)),
		)
		return ai.Fail(ai.ClassifyStatus(resp.StatusCode()))
	}

	payload := common.ExtractJSONObject(resp.String())
	if payload == nil {
		common.LogError("OCR 回應不是合法 JSON",
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
