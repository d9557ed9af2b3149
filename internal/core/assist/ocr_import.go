package assist

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"meal-planner/internal/core/poll"
	"meal-planner/internal/core/recipe"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// mineTextMaxDepth OCR 回應挖掘的巢狀深度上限，避免惡意或異常回應造成深遞迴
const mineTextMaxDepth = 6

// importViaOCR 第一層匯入策略：送 OCR、輪詢結果、挖出文字、
// 再交給補全供應商整理成草稿。任何一步失敗都回 nil 草稿讓上層降級。
func (s *Service) importViaOCR(ctx context.Context, photos []string) (*recipe.Draft, []string) {
	submit := s.ocr.Submit(ctx, photos, len(photos) > 1)
	if !submit.Success {
		common.LogWarn("OCR 任務送出失敗", zap.String("reason", submit.ErrorMessage))
		return nil, []string{submit.ErrorMessage, common.MsgOCRFallback}
	}

	// 送出回應可能直接附帶結果，也可能給輪詢網址；沒有網址就直接挖送出結果
	final := submit.Payload
	if pollURL := findPollURL(submit.Payload); pollURL != "" {
		polled, ok := s.pollOCR(ctx, pollURL)
		if !ok {
			return nil, []string{common.MsgOCRFallback}
		}
		final = polled
	}

	text := mineText(final, s.cfg.Assist.OCRTextLimit)
	if strings.TrimSpace(text) == "" {
		common.LogWarn("OCR 結果沒有可用文字")
		return nil, []string{common.MsgOCRFallback}
	}

	common.LogInfo("OCR 文字擷取完成", zap.Int("text_length", len(text)))

	result := s.completion.Complete(ctx, promptStructureOCR, text, nil)
	if !result.Success {
		return nil, []string{result.ErrorMessage, common.MsgStructureFallback}
	}

	draft := recipe.ParseDraft(result.Payload)
	if !draft.HasContent() {
		return nil, []string{common.MsgStructureFallback}
	}
	return draft, nil
}

// pollOCR 依設定的上限輪詢 OCR 任務直到完成或放棄
func (s *Service) pollOCR(ctx context.Context, pollURL string) (json.RawMessage, bool) {
	status := poll.Run(ctx, func(ctx context.Context) poll.Status {
		fetch := s.ocr.Fetch(ctx, pollURL)
		if !fetch.Success {
			return poll.Failed(fetch.ErrorMessage)
		}
		switch jobStatus(fetch.Payload) {
		case "completed", "done", "succeeded", "success":
			return poll.Done(fetch.Payload)
		case "failed", "error", "cancelled", "canceled":
			return poll.Failed("OCR job reported failure")
		default:
			return poll.Pending()
		}
	}, s.cfg.Poll.OCR.Attempts, s.cfg.Poll.OCR.Delay)

	if status.State != poll.StateDone {
		common.LogWarn("OCR 輪詢未完成", zap.String("reason", status.Reason))
		return nil, false
	}
	return status.Payload, true
}

// findPollURL 從送出回應中找輪詢網址，相容 status_url 與 response_url 兩種欄位
func findPollURL(payload json.RawMessage) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	for _, key := range []string{"status_url", "response_url", "polling_url", "url"} {
		if raw, ok := body[key]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && strings.HasPrefix(s, "http") {
				return s
			}
		}
	}
	return ""
}

// jobStatus 取出狀態欄位並轉小寫，找不到時回空字串
func jobStatus(payload json.RawMessage) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	for _, key := range []string{"status", "state"} {
		if raw, ok := body[key]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil {
				return strings.ToLower(strings.TrimSpace(s))
			}
		}
	}
	return ""
}

// mineText 遞迴收集 OCR 回應裡的文字內容。只認白名單鍵與
// result/output 前綴的容器鍵，跳過看起來像網址的值，去重後截斷。
func mineText(payload json.RawMessage, limit int) string {
	var root interface{}
	if err := json.Unmarshal(payload, &root); err != nil {
		return ""
	}

	var pieces []string
	seen := make(map[string]bool)
	collect := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			return
		}
		if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			return
		}
		seen[s] = true
		pieces = append(pieces, s)
	}

	var walk func(node interface{}, key string, depth int)
	walk = func(node interface{}, key string, depth int) {
		if depth > mineTextMaxDepth {
			return
		}
		switch v := node.(type) {
		case string:
			if textBearingKey(key) {
				collect(v)
			}
		case []interface{}:
			for _, item := range v {
				walk(item, key, depth+1)
			}
		case map[string]interface{}:
			// 依鍵排序走訪，確保同一份回應每次都組出同樣的文字
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if textBearingKey(k) || containerKey(k) {
					walk(v[k], k, depth+1)
				}
			}
		}
	}
	walk(root, "", 0)

	text := strings.Join(pieces, "\n")
	if limit > 0 && len(text) > limit {
		text = common.TruncateString(text, limit)
	}
	return text
}

func textBearingKey(key string) bool {
	lower := strings.ToLower(key)
	switch lower {
	case "text", "ocr_text", "content", "markdown", "raw_text", "full_text":
		return true
	}
	// 有些供應商把整段文字直接放在 result 或 output 欄位裡
	return strings.HasPrefix(lower, "result") || strings.HasPrefix(lower, "output")
}

func containerKey(key string) bool {
	lower := strings.ToLower(key)
	switch lower {
	case "pages", "data", "blocks", "lines", "paragraphs", "response":
		return true
	}
	return strings.HasPrefix(lower, "result") || strings.HasPrefix(lower, "output")
}
