package assist

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	assistService "meal-planner/internal/core/assist"
	"meal-planner/internal/core/recipe"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssistRequest 統一的助手請求：單一端點依 action 分派
type AssistRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// ingredientHintsPayload 食材名稱提示
type ingredientHintsPayload struct {
	Partial string `json:"partial"`
}

// tagHintsPayload 標籤提示
type tagHintsPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// servingsHintPayload 份量估算
type servingsHintPayload struct {
	Ingredients []recipe.Ingredient `json:"ingredients"`
}

// recipeImagePayload 食譜圖片
type recipeImagePayload struct {
	Title string `json:"title"`
}

// menuSuggestionPayload 菜單建議
type menuSuggestionPayload struct {
	Ingredients []string `json:"ingredients"`
	Days        int      `json:"days"`
}

// assistantHelpPayload 使用說明問答
type assistantHelpPayload struct {
	Page     string `json:"page"`
	Question string `json:"question"`
}

// importURLPayload 網址匯入
type importURLPayload struct {
	URL string `json:"url"`
}

// importPhotoPayload 照片匯入，photos 是網址或 base64/data URI
type importPhotoPayload struct {
	Photos []string `json:"photos"`
}

// Handler 助手端點處理器
type Handler struct {
	service *assistService.Service
}

// NewHandler 創建助手處理器
func NewHandler(service *assistService.Service) *Handler {
	return &Handler{service: service}
}

// HandleAssist POST /assist 的動作分派入口
func (h *Handler) HandleAssist(c *gin.Context) {
	start := time.Now()
	requestID := c.GetHeader("X-Request-ID")

	var req AssistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("Invalid assist request body",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	action := strings.TrimSpace(req.Action)
	if action == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action is required"})
		return
	}

	common.LogInfo("Assist request received",
		zap.String("action", action),
		zap.String("request_id", requestID),
	)

	ctx := c.Request.Context()

	switch action {
	case "ingredient_hints":
		var payload ingredientHintsPayload
		if !bindPayload(c, req.Payload, &payload) {
			return
		}
		c.JSON(http.StatusOK, h.service.IngredientHints(ctx, payload.Partial))

	case "tag_hints":
		var payload tagHintsPayload
		if !bindPayload(c, req.Payload, &payload) {
			return
		}
		c.JSON(http.StatusOK, h.service.TagHints(ctx, payload.Title, payload.Description))

	case "servings_hint":
		var payload servingsHintPayload
		if !bindPayload(c, req.Payload, &payload) {
			return
		}
		c.JSON(http.StatusOK, h.service.ServingsHint(ctx, payload.Ingredients))

	case "recipe_image":
		var payload recipeImagePayload
		if !bindPayload(c, req.Payload, &payload) {
			return
		}
		c.JSON(http.StatusOK, h.service.RecipeImage(ctx, payload.Title))

	case "menu_suggestion":
		var payload menuSuggestionPayload
		if !bindPayload(c, req.Payload, &payload) {
			return
		}
		c.JSON(http.StatusOK, h.service.MenuSuggestion(ctx, payload.Ingredients, payload.Days))

	case "assistant_help":
		var payload assistantHelpPayload
		if !bindPayload(c, req.Payload, &payload) {
			return
		}
		c.JSON(http.StatusOK, h.service.AssistantHelp(ctx, payload.Page, payload.Question))

	case "import_recipe_url":
		var payload importURLPayload
		if !bindPayload(c, req.Payload, &payload) {
			return
		}
		if strings.TrimSpace(payload.URL) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
			return
		}
		c.JSON(http.StatusOK, h.service.ImportFromURL(ctx, payload.URL))

	case "import_recipe_photo":
		var payload importPhotoPayload
		if !bindPayload(c, req.Payload, &payload) {
			return
		}
		if len(payload.Photos) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "photos are required"})
			return
		}
		c.JSON(http.StatusOK, h.service.ImportFromPhotos(ctx, payload.Photos))

	default:
		common.LogWarn("Unknown assist action",
			zap.String("action", action),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}

	common.LogInfo("Assist request completed",
		zap.String("action", action),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID),
	)
}

// bindPayload 解析 action 專屬的 payload，失敗時直接回 400
func bindPayload(c *gin.Context, raw json.RawMessage, out interface{}) bool {
	if len(raw) == 0 {
		return true
	}
	if err := json.Unmarshal(raw, out); err != nil {
		common.LogWarn("Invalid assist payload",
			zap.Error(err),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return false
	}
	return true
}
