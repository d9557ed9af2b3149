package assist

import (
	"context"
	"fmt"
	"strings"

	"meal-planner/internal/core/recipe"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

const msgImportOK = "已產生食譜草稿，請確認內容後儲存"

// Service 匯入協調器：依序嘗試 OCR、整批視覺、逐頁視覺、啟發式後援，
// 每一層失敗都只累積 issue 繼續往下，匯入動作永遠不對使用者硬性失敗。
type Service struct {
	cfg        *config.Config
	completion CompletionGateway
	ocr        OCRGateway
	imagegen   ImageGenGateway
	photos     PhotoNormalizer
	heur       *Heuristics
}

// NewService 創建匯入協調器
func NewService(cfg *config.Config, completion CompletionGateway, ocr OCRGateway, imagegen ImageGenGateway, photos PhotoNormalizer, entropy EntropySource) *Service {
	if entropy == nil {
		entropy = UUIDEntropy{}
	}
	return &Service{
		cfg:        cfg,
		completion: completion,
		ocr:        ocr,
		imagegen:   imagegen,
		photos:     photos,
		heur:       NewHeuristics(cfg.Assist.AllowedTags, entropy),
	}
}

// ImportFromPhotos 照片匯入主流程。照片依呼叫端給的順序逐層處理：
// OCR → 整批視覺 → 逐頁視覺＋合併 → 啟發式後援。
func (s *Service) ImportFromPhotos(ctx context.Context, photos []string) ImportOutcome {
	var issues []string

	normalized, err := s.photos.NormalizePhotos(photos, s.cfg.Assist.MaxPhotos)
	if err != nil {
		common.LogWarn("照片前處理失敗，改用原始內容", zap.Error(err), zap.Int("photos", len(photos)))
		issues = append(issues, common.MsgProviderBadInput)
		normalized = capPhotos(photos, s.cfg.Assist.MaxPhotos)
	}

	// 第一層：OCR
	draft, ocrIssues := s.importViaOCR(ctx, normalized)
	issues = append(issues, ocrIssues...)
	if draft.HasContent() {
		common.LogInfo("照片匯入完成", zap.String("tier", "ocr"), zap.Int("photos", len(normalized)))
		return s.finish(draft, msgImportOK, issues)
	}

	// 第二層：整批視覺
	draft, combinedIssues := s.importViaVisionCombined(ctx, normalized)
	issues = append(issues, combinedIssues...)
	if draft.HasContent() {
		common.LogInfo("照片匯入完成", zap.String("tier", "vision_combined"), zap.Int("photos", len(normalized)))
		return s.finish(draft, msgImportOK, issues)
	}

	// 第三層：逐頁視覺＋合併。只有整批完全沒有解析結果時才走到這裡。
	parts, pageIssues := s.importViaVisionPages(ctx, normalized)
	issues = append(issues, pageIssues...)
	if merged := recipe.Merge(parts); merged.HasContent() {
		common.LogInfo("照片匯入完成", zap.String("tier", "vision_pages"), zap.Int("photos", len(normalized)), zap.Int("parts", len(parts)))
		return s.finish(merged, msgImportOK, issues)
	}

	// 最後一層：啟發式後援
	issues = append(issues, common.MsgHeuristicFallback)
	fallback := s.heur.ImportDraft("")
	common.LogWarn("照片匯入走到啟發式後援", zap.Int("photos", len(photos)))
	return s.finish(fallback, common.MsgHeuristicFallback, issues)
}

// ImportFromURL 網址匯入：補全供應商 → 草稿解析 → 啟發式後援，
// 不經過 OCR 與照片相關分支。
func (s *Service) ImportFromURL(ctx context.Context, url string) ImportOutcome {
	var issues []string

	result := s.completion.Complete(ctx, promptURLImport, fmt.Sprintf("食譜網址：%s", url), nil)
	if result.Success {
		if draft := recipe.ParseDraft(result.Payload); draft.HasContent() {
			common.LogInfo("網址匯入完成", zap.String("tier", "completion"))
			return s.finish(draft, msgImportOK, issues)
		}
		issues = append(issues, common.MsgStructureFallback)
	} else {
		issues = append(issues, result.ErrorMessage)
	}

	issues = append(issues, common.MsgHeuristicFallback)
	fallback := s.heur.ImportDraft(url)
	common.LogWarn("網址匯入走到啟發式後援", zap.Int("url_length", len(url)))
	return s.finish(fallback, common.MsgHeuristicFallback, issues)
}

// finish 組最終結果：過濾標籤、去重 issues。
// 草稿完全沒有內容時 recipe 欄位回 null。
func (s *Service) finish(draft *recipe.Draft, message string, issues []string) ImportOutcome {
	if !draft.HasContent() {
		draft = nil
	}
	if draft != nil {
		draft.Tags = s.filterTags(draft.Tags)
	}
	return ImportOutcome{
		Recipe:  draft,
		Message: message,
		Issues:  common.DedupStrings(issues),
	}
}

// filterTags 只保留允許清單內的標籤（不分大小寫），其餘靜默丟棄
func (s *Service) filterTags(tags []string) []string {
	allowed := make(map[string]string, len(s.cfg.Assist.AllowedTags))
	for _, tag := range s.cfg.Assist.AllowedTags {
		allowed[strings.ToLower(tag)] = tag
	}

	var result []string
	for _, tag := range tags {
		if canonical, ok := allowed[strings.ToLower(strings.TrimSpace(tag))]; ok {
			result = append(result, canonical)
		}
	}
	return common.DedupStrings(result)
}

func capPhotos(photos []string, limit int) []string {
	if limit > 0 && len(photos) > limit {
		return photos[:limit]
	}
	return photos
}
