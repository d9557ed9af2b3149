package ai

import (
	"encoding/json"
	"net/http"

	"meal-planner/internal/pkg/common"
)

// ErrorKind 供應商錯誤的粗分類，對應固定的使用者訊息
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	ErrorRateLimited
	ErrorBadInput
	ErrorAuth
	ErrorUnavailable
)

// Result 所有供應商調用的統一回傳形狀。
// 呼叫端只依 Success 分支；ErrorMessage 一律是固定句子，不含原始診斷。
type Result struct {
	Success      bool            `json:"success"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Kind         ErrorKind       `json:"-"`
}

// Ok 建立成功結果
func Ok(payload json.RawMessage) Result {
	return Result{Success: true, Payload: payload}
}

// Fail 建立失敗結果，附上對應的固定訊息
func Fail(kind ErrorKind) Result {
	return Result{Success: false, Kind: kind, ErrorMessage: MessageFor(kind)}
}

// MessageFor 取得錯誤分類對應的固定使用者訊息
func MessageFor(kind ErrorKind) string {
	switch kind {
	case ErrorRateLimited:
		return common.MsgProviderRateLimited
	case ErrorBadInput:
		return common.MsgProviderBadInput
	case ErrorAuth:
		return common.MsgProviderAuth
	default:
		return common.MsgProviderUnavailable
	}
}

// ClassifyStatus 將非 2xx 狀態碼映射成錯誤分類
func ClassifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorRateLimited
	case status == http.StatusBadRequest ||
		status == http.StatusRequestEntityTooLarge ||
		status == http.StatusUnprocessableEntity:
		return ErrorBadInput
	case status == http.StatusUnauthorized ||
		status == http.StatusForbidden ||
		status == http.StatusPaymentRequired ||
		status == http.StatusServiceUnavailable:
		return ErrorAuth
	default:
		return ErrorUnavailable
	}
}
