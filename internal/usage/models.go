package usage

import "time"

// TokenUsage: 일자별 토큰 사용량 집계를 저장하는 DB 모델입니다.
type TokenUsage struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UsageDate    time.Time `gorm:"column:usage_date;type:date;not null;uniqueIndex:idx_emoji_token_usage_date"`
	InputTokens  int64     `gorm:"column:input_tokens;not null;default:0"`
	OutputTokens int64     `gorm:"column:output_tokens;not null;default:0"`
	RequestCount int64     `gorm:"column:request_count;not null;default:0"`
}

// TableName: GORM 테이블명을 반환합니다.
func (TokenUsage) TableName() string {
	return "emoji_token_usage"
}

// DailyUsage: API 응답용 일자별 사용량 뷰 모델입니다.
type DailyUsage struct {
	UsageDate    time.Time `json:"usage_date"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	RequestCount int64     `json:"request_count"`
}

// TotalTokens: 입력+출력 토큰 합계를 반환합니다.
func (d DailyUsage) TotalTokens() int64 {
	return d.InputTokens + d.OutputTokens
}

func toDailyUsage(row TokenUsage) DailyUsage {
	return DailyUsage{
		UsageDate:    row.UsageDate,
		InputTokens:  row.InputTokens,
		OutputTokens: row.OutputTokens,
		RequestCount: row.RequestCount,
	}
}
