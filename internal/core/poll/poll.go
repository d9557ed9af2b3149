package poll

import (
	"context"
	"encoding/json"
	"time"
)

// State 輪詢狀態
type State int

const (
	StatePending State = iota
	StateDone
	StateFailed
)

// Status 一次檢查的結果
type Status struct {
	State   State
	Payload json.RawMessage
	Reason  string
}

// Pending 任務還在處理中
func Pending() Status {
	return Status{State: StatePending}
}

// Done 任務完成
func Done(payload json.RawMessage) Status {
	return Status{State: StateDone, Payload: payload}
}

// Failed 任務失敗
func Failed(reason string) Status {
	return Status{State: StateFailed, Reason: reason}
}

// CheckFunc 查詢一次任務狀態
type CheckFunc func(ctx context.Context) Status

// Run 固定間隔、固定次數的輪詢迴圈。
// 觀察到非 Pending 狀態就立即回傳；次數用盡仍是 Pending 則回傳
// Failed("timeout")。次數與間隔由呼叫端從設定帶入，不在這裡寫死。
func Run(ctx context.Context, check CheckFunc, maxAttempts int, delay time.Duration) Status {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return Failed("canceled")
			case <-timer.C:
			}
		}

		if ctx.Err() != nil {
			return Failed("canceled")
		}

		status := check(ctx)
		if status.State != StatePending {
			return status
		}
	}

	return Failed("timeout")
}
