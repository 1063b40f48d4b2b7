package usage

import (
	"context"
	"time"
)

// Store 는 일별 토큰 사용량 집계를 보관한다. DB_USAGE_ENABLED 가 꺼져 있으면 구현이 주입되지 않는다.
type Store interface {
	// RecordUsage: usageDate 의 날짜 행에 값을 더합니다. 행이 없으면 만듭니다.
	RecordUsage(ctx context.Context, inputTokens int64, outputTokens int64, requestCount int64, usageDate time.Time) error
	// GetDailyUsage: 기록이 없는 날이면 nil, nil 입니다.
	GetDailyUsage(ctx context.Context, usageDate time.Time) (*DailyUsage, error)
	GetRecentUsage(ctx context.Context, days int) ([]DailyUsage, error)
	GetTotalUsage(ctx context.Context, days int) (DailyUsage, error)
	Close()
}

var _ Store = (*Repository)(nil)
