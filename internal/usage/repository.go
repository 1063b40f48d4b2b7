package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/park285/llm-kakao-bots/emoji-llm-server-go/internal/config"
)

// Repository: usage DB 접근을 담당합니다. 연결은 첫 사용 시점에 엽니다.
type Repository struct {
	cfg    *config.Config
	logger *slog.Logger
	open   func() (gorm.Dialector, error)
	mu     sync.Mutex
	db     *gorm.DB
	sqlDB  *sql.DB
}

// NewRepository: Postgres 기반 usage 저장소를 생성합니다.
func NewRepository(cfg *config.Config, logger *slog.Logger) *Repository {
	repo := &Repository{cfg: cfg, logger: logger}
	repo.open = func() (gorm.Dialector, error) {
		if repo.cfg == nil {
			return nil, errors.New("database config is nil")
		}
		return postgres.Open(repo.cfg.Database.DSN()), nil
	}
	return repo
}

// NewRepositoryWithDialector: 임의의 GORM 드라이버로 저장소를 생성합니다.
func NewRepositoryWithDialector(dialector gorm.Dialector, logger *slog.Logger) *Repository {
	return &Repository{
		logger: logger,
		open: func() (gorm.Dialector, error) {
			return dialector, nil
		},
	}
}

// RecordUsage: 지정한 날짜(또는 오늘)의 토큰 사용량을 누적 저장합니다.
func (r *Repository) RecordUsage(
	ctx context.Context,
	inputTokens int64,
	outputTokens int64,
	requestCount int64,
	usageDate time.Time,
) error {
	if requestCount <= 0 && inputTokens <= 0 && outputTokens <= 0 {
		return nil
	}

	db, err := r.getDB(ctx)
	if err != nil {
		return err
	}

	row := TokenUsage{
		UsageDate:    dateOrToday(usageDate),
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		RequestCount: requestCount,
	}

	table := row.TableName()
	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "usage_date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"input_tokens":  gorm.Expr(table + ".input_tokens + excluded.input_tokens"),
			"output_tokens": gorm.Expr(table + ".output_tokens + excluded.output_tokens"),
			"request_count": gorm.Expr(table + ".request_count + excluded.request_count"),
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert usage: %w", err)
	}
	return nil
}

// GetDailyUsage: 특정 날짜(또는 오늘)의 사용량을 조회합니다. 기록이 없으면 nil 입니다.
func (r *Repository) GetDailyUsage(ctx context.Context, usageDate time.Time) (*DailyUsage, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, err
	}

	var row TokenUsage
	result := db.WithContext(ctx).Where("usage_date = ?", dateOrToday(usageDate)).First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("query daily usage: %w", result.Error)
	}

	daily := toDailyUsage(row)
	return &daily, nil
}

// GetRecentUsage: 최근 N일 사용량을 최신순으로 조회합니다.
func (r *Repository) GetRecentUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 7
	}

	var rows []TokenUsage
	if err := db.WithContext(ctx).Order("usage_date desc").Limit(days).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query recent usage: %w", err)
	}

	usages := make([]DailyUsage, 0, len(rows))
	for _, row := range rows {
		usages = append(usages, toDailyUsage(row))
	}
	return usages, nil
}

// GetTotalUsage: 최근 N일 합계를 조회합니다.
func (r *Repository) GetTotalUsage(ctx context.Context, days int) (DailyUsage, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return DailyUsage{}, err
	}
	if days <= 0 {
		days = 30
	}

	today := todayDate()
	since := today.AddDate(0, 0, -(days - 1))

	var result struct {
		InputTokens  int64
		OutputTokens int64
		RequestCount int64
	}
	err = db.WithContext(ctx).
		Model(&TokenUsage{}).
		Select(
			"COALESCE(SUM(input_tokens), 0) AS input_tokens, " +
				"COALESCE(SUM(output_tokens), 0) AS output_tokens, " +
				"COALESCE(SUM(request_count), 0) AS request_count",
		).
		Where("usage_date >= ?", since).
		Scan(&result).Error
	if err != nil {
		return DailyUsage{}, fmt.Errorf("query total usage: %w", err)
	}

	return DailyUsage{
		UsageDate:    today,
		InputTokens:  result.InputTokens,
		OutputTokens: result.OutputTokens,
		RequestCount: result.RequestCount,
	}, nil
}

// Close: DB 연결을 닫습니다.
func (r *Repository) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sqlDB == nil {
		return
	}
	_ = r.sqlDB.Close()
	r.sqlDB = nil
	r.db = nil
}

func (r *Repository) getDB(ctx context.Context) (*gorm.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		return r.db, nil
	}
	if r.open == nil {
		return nil, errors.New("usage repository not configured")
	}

	dialector, err := r.open()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open usage db: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&TokenUsage{}); err != nil {
		return nil, fmt.Errorf("prepare usage db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get usage db handle: %w", err)
	}
	if r.cfg != nil {
		sqlDB.SetMaxOpenConns(r.cfg.Database.MaxPool)
		sqlDB.SetMaxIdleConns(r.cfg.Database.MaxPool)
		if r.cfg.Database.ConnMaxLifetimeMinutes > 0 {
			sqlDB.SetConnMaxLifetime(time.Duration(r.cfg.Database.ConnMaxLifetimeMinutes) * time.Minute)
		}
		if r.logger != nil {
			r.logger.Info("usage_db_connected", "host", r.cfg.Database.Host, "name", r.cfg.Database.Name)
		}
	}

	r.db = db
	r.sqlDB = sqlDB
	return db, nil
}

func dateOrToday(value time.Time) time.Time {
	if value.IsZero() {
		return todayDate()
	}
	v := value.UTC()
	return time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
}

func todayDate() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
