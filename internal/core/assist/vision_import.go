package assist

import (
	"context"

	"meal-planner/internal/core/recipe"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// importViaVisionCombined 第二層匯入策略：把多張照片一次交給多模態補全，
// 照片數超過整批上限時只取前幾張。
func (s *Service) importViaVisionCombined(ctx context.Context, photos []string) (*recipe.Draft, []string) {
	if len(photos) == 0 {
		return nil, nil
	}

	batch := capPhotos(photos, s.cfg.Assist.CombinedPhotoLimit)
	result := s.completion.Complete(ctx, promptVisionImport, visionCombinedPayload(len(batch)), batch)
	if !result.Success {
		common.LogWarn("整批視覺匯入失敗", zap.String("reason", result.ErrorMessage), zap.Int("photos", len(batch)))
		return nil, []string{result.ErrorMessage}
	}

	draft := recipe.ParseDraft(result.Payload)
	if !draft.HasContent() {
		common.LogWarn("整批視覺結果沒有可用內容", zap.Int("photos", len(batch)))
		return nil, []string{common.MsgStructureFallback}
	}
	return draft, nil
}

// importViaVisionPages 第三層匯入策略：逐頁呼叫多模態補全，
// 收集每頁的部分草稿交給上層合併。單頁失敗不終止其餘頁。
func (s *Service) importViaVisionPages(ctx context.Context, photos []string) ([]*recipe.Draft, []string) {
	var parts []*recipe.Draft
	var issues []string

	for i, photo := range photos {
		if err := ctx.Err(); err != nil {
			common.LogWarn("逐頁視覺匯入中止", zap.Error(err), zap.Int("page", i+1))
			break
		}

		result := s.completion.Complete(ctx, promptVisionImport, visionPagePayload(i+1, len(photos)), []string{photo})
		if !result.Success {
			common.LogWarn("單頁視覺匯入失敗", zap.Int("page", i+1), zap.String("reason", result.ErrorMessage))
			issues = append(issues, result.ErrorMessage)
			continue
		}

		draft := recipe.ParseDraft(result.Payload)
		if !draft.HasContent() {
			issues = append(issues, common.MsgStructureFallback)
			continue
		}
		parts = append(parts, draft)
	}

	common.LogInfo("逐頁視覺匯入結束", zap.Int("photos", len(photos)), zap.Int("parts", len(parts)))
	return parts, issues
}
