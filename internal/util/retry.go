package util

import (
	"context"
	"fmt"
	"time"
)

// maxBackoff 单次等待的上限。
const maxBackoff = 30 * time.Second

// Retry 最多执行 attempts 次 fn，两次尝试之间按指数退避等待。
// 最后一次失败后不再等待，返回的错误包装了最后一次的错误。
func Retry(ctx context.Context, attempts int, backoff time.Duration, fn func() error) error {
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		backoff = min(backoff*2, maxBackoff)
	}
	return fmt.Errorf("重试 %d 次后仍失败: %w", attempts, err)
}
