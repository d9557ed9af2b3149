package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"meal-planner/internal/core/poll"
	"meal-planner/internal/core/recipe"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// msgHeuristicHint 供應商失敗改用內建建議時附帶的說明
const msgHeuristicHint = "AI 建議暫時無法使用，以下為內建建議"

// IngredientHints 食材名稱自動完成：優先問補全供應商，失敗走內建字典
func (s *Service) IngredientHints(ctx context.Context, partial string) IngredientHintsResult {
	result := s.completion.Complete(ctx, promptIngredientHints, partial, nil)
	if result.Success {
		var parsed struct {
			Hints []string `json:"hints"`
		}
		if json.Unmarshal(result.Payload, &parsed) == nil && len(parsed.Hints) > 0 {
			return IngredientHintsResult{Hints: common.DedupStrings(parsed.Hints)}
		}
	}

	common.LogWarn("食材提示改用內建字典", zap.String("reason", result.ErrorMessage))
	return IngredientHintsResult{
		Hints:   s.heur.IngredientHints(partial),
		Message: msgHeuristicHint,
	}
}

// TagHints 標籤建議：供應商回覆一律再過一次允許清單
func (s *Service) TagHints(ctx context.Context, title, description string) TagHintsResult {
	text := strings.TrimSpace(title + "\n" + description)

	result := s.completion.Complete(ctx, promptTagHints(s.cfg.Assist.AllowedTags), text, nil)
	if result.Success {
		var parsed struct {
			SuggestedTags []string `json:"suggested_tags"`
		}
		if json.Unmarshal(result.Payload, &parsed) == nil {
			if tags := s.filterTags(parsed.SuggestedTags); len(tags) > 0 {
				return TagHintsResult{SuggestedTags: tags}
			}
		}
	}

	common.LogWarn("標籤提示改用關鍵字掃描", zap.String("reason", result.ErrorMessage))
	return TagHintsResult{
		SuggestedTags: s.heur.TagHints(text),
		Message:       msgHeuristicHint,
	}
}

// ServingsHint 份量估算：供應商回覆必須落在 1 到 12，否則改用重量估算
func (s *Service) ServingsHint(ctx context.Context, ingredients []recipe.Ingredient) ServingsHintResult {
	payload, err := json.Marshal(map[string]interface{}{"ingredients": ingredients})
	if err == nil {
		result := s.completion.Complete(ctx, promptServingsHint, string(payload), nil)
		if result.Success {
			var parsed struct {
				Servings int `json:"servings"`
			}
			if json.Unmarshal(result.Payload, &parsed) == nil && parsed.Servings >= 1 && parsed.Servings <= 12 {
				return ServingsHintResult{Servings: parsed.Servings}
			}
		}
		common.LogWarn("份量估算改用重量估算", zap.String("reason", result.ErrorMessage))
	}

	return ServingsHintResult{
		Servings: s.heur.ServingsHint(ingredients),
		Message:  msgHeuristicHint,
	}
}

// RecipeImage 食譜圖片：嘗試圖片生成供應商，任何一步失敗都回佔位圖。
// 流程是先列模型、送出 text2image 任務、再輪詢任務結果。
func (s *Service) RecipeImage(ctx context.Context, title string) RecipeImageResult {
	image, issue := s.generateImage(ctx, title)
	if image != "" {
		return RecipeImageResult{Image: image}
	}

	common.LogWarn("食譜圖片改用佔位圖", zap.String("reason", issue))
	return RecipeImageResult{
		Image:   s.heur.PlaceholderImage(title),
		Message: issue,
	}
}

func (s *Service) generateImage(ctx context.Context, title string) (string, string) {
	models := s.imagegen.Models(ctx)
	if !models.Success {
		return "", models.ErrorMessage
	}
	modelID := firstModelID(models.Payload)
	if modelID == "" {
		return "", common.MsgProviderUnavailable
	}

	run := s.imagegen.Run(ctx, modelID, map[string]interface{}{
		"prompt":      fmt.Sprintf("appetizing food photography of %s, natural light, overhead shot", title),
		"num_images":  1,
		"enhance":     true,
		"safe_filter": true,
	})
	if !run.Success {
		return "", run.ErrorMessage
	}
	jobID := stringField(run.Payload, "uuid", "job_id", "id")
	if jobID == "" {
		return "", common.MsgProviderUnavailable
	}

	status := poll.Run(ctx, func(ctx context.Context) poll.Status {
		check := s.imagegen.Status(ctx, jobID)
		if !check.Success {
			return poll.Failed(check.ErrorMessage)
		}
		switch jobStatus(check.Payload) {
		case "completed", "done", "succeeded", "success":
			return poll.Done(check.Payload)
		case "failed", "error":
			return poll.Failed("image job reported failure")
		default:
			return poll.Pending()
		}
	}, s.cfg.Poll.ImageGen.Attempts, s.cfg.Poll.ImageGen.Delay)

	var image string
	if status.State == poll.StateDone {
		image = firstGeneratedImage(status.Payload)
	}
	if status.State != poll.StateDone || image == "" {
		reason := status.Reason
		if reason == "" || reason == "timeout" || reason == "canceled" {
			reason = common.MsgProviderUnavailable
		}
		return "", reason
	}
	return image, ""
}

// MenuSuggestion 菜單建議：失敗時回內建輪替菜單
func (s *Service) MenuSuggestion(ctx context.Context, ingredients []string, days int) MenuSuggestionResult {
	if days < 1 {
		days = 3
	}
	payload, err := json.Marshal(map[string]interface{}{"ingredients": ingredients, "days": days})
	if err == nil {
		result := s.completion.Complete(ctx, promptMenuSuggestion, string(payload), nil)
		if result.Success {
			var parsed struct {
				Suggestions []MenuIdea `json:"suggestions"`
			}
			if json.Unmarshal(result.Payload, &parsed) == nil && len(parsed.Suggestions) > 0 {
				return MenuSuggestionResult{Suggestions: parsed.Suggestions}
			}
		}
		common.LogWarn("菜單建議改用內建輪替", zap.String("reason", result.ErrorMessage))
	}

	return MenuSuggestionResult{
		Suggestions: s.heur.MenuSuggestion(days),
		Message:     msgHeuristicHint,
	}
}

// AssistantHelp 使用說明問答：失敗時回固定決策樹的答案
func (s *Service) AssistantHelp(ctx context.Context, page, question string) AssistantHelpResult {
	payload := fmt.Sprintf("目前頁面：%s\n問題：%s", page, question)

	result := s.completion.Complete(ctx, promptAssistantHelp, payload, nil)
	if result.Success {
		var parsed struct {
			Answer string `json:"answer"`
		}
		if json.Unmarshal(result.Payload, &parsed) == nil && strings.TrimSpace(parsed.Answer) != "" {
			return AssistantHelpResult{Answer: parsed.Answer}
		}
	}

	common.LogWarn("使用說明問答改用內建答案", zap.String("reason", result.ErrorMessage))
	return AssistantHelpResult{
		Answer:  s.heur.AssistantHelp(page, question),
		Message: msgHeuristicHint,
	}
}

// firstModelID 從模型清單回應取第一個模型編號，相容陣列與包一層的物件
func firstModelID(payload json.RawMessage) string {
	var list []map[string]json.RawMessage
	if err := json.Unmarshal(payload, &list); err != nil {
		var wrapper map[string]json.RawMessage
		if json.Unmarshal(payload, &wrapper) != nil {
			return ""
		}
		for _, key := range []string{"models", "data"} {
			if raw, ok := wrapper[key]; ok {
				if json.Unmarshal(raw, &list) == nil {
					break
				}
			}
		}
	}
	if len(list) == 0 {
		return ""
	}
	for _, key := range []string{"id", "model_id", "uuid"} {
		if raw, ok := list[0][key]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && s != "" {
				return s
			}
			var n json.Number
			if json.Unmarshal(raw, &n) == nil {
				return n.String()
			}
		}
	}
	return ""
}

// firstGeneratedImage 從任務結果取第一張圖，可能是網址或 base64 內容
func firstGeneratedImage(payload json.RawMessage) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	for _, key := range []string{"images", "output", "result"} {
		raw, ok := body[key]
		if !ok {
			continue
		}
		var images []string
		if json.Unmarshal(raw, &images) == nil && len(images) > 0 {
			return images[0]
		}
		var nested map[string]json.RawMessage
		if json.Unmarshal(raw, &nested) == nil {
			if inner, ok := nested["images"]; ok && json.Unmarshal(inner, &images) == nil && len(images) > 0 {
				return images[0]
			}
		}
	}
	return ""
}

// stringField 依序嘗試多個鍵取出字串欄位
func stringField(payload json.RawMessage, keys ...string) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	for _, key := range keys {
		if raw, ok := body[key]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && s != "" {
				return s
			}
		}
	}
	return ""
}
