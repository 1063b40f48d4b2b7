package config

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// ProviderOllama: Ollama 호환 HTTP 백엔드입니다.
	ProviderOllama = "ollama"
	// ProviderGemini: Google Gemini 백엔드입니다.
	ProviderGemini = "gemini"
)

// LLMConfig: 언어 모델 백엔드 설정입니다.
type LLMConfig struct {
	Provider        string
	BaseURL         string
	DefaultModel    string
	ModerationModel string
	APIKeys         []string
	Temperature     float64
	MaxTokens       int
	TimeoutSeconds  int
}

// PrimaryKey: 기본 API 키를 반환합니다.
func (l LLMConfig) PrimaryKey() string {
	if len(l.APIKeys) == 0 {
		return ""
	}
	return l.APIKeys[0]
}

// ModelForTask: 작업 유형별 모델을 반환합니다.
func (l LLMConfig) ModelForTask(task string) string {
	if task == "moderation" && l.ModerationModel != "" {
		return l.ModerationModel
	}
	return l.DefaultModel
}

// Timeout: 백엔드 호출 타임아웃을 반환합니다.
func (l LLMConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// ModerationConfig: 콘텐츠 검열 설정입니다.
type ModerationConfig struct {
	Enabled bool
}

// MessageConfig: 입력 메시지 길이 제한입니다.
type MessageConfig struct {
	MinLength int
	MaxLength int
}

// GuardConfig: 입력 검증 설정입니다.
type GuardConfig struct {
	Enabled         bool
	Threshold       float64
	RulepacksDir    string
	CacheMaxSize    int
	CacheTTLSeconds int
}

// LoggingConfig: 로깅 설정입니다.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPConfig: HTTP 서버 설정입니다.
type HTTPConfig struct {
	Host            string
	Port            int
	HTTP2Enabled    bool
	GzipEnabled     bool
	DevelopmentMode bool
}

// HTTPAuthConfig: API 키 인증 설정입니다.
type HTTPAuthConfig struct {
	APIKey string
}

// HTTPRateLimitConfig: 요청 제한 설정입니다.
// StoreURL 이 비어 있으면 프로세스 메모리 카운터를 사용합니다.
type HTTPRateLimitConfig struct {
	RequestsPerMinute int
	CacheSize         int
	CacheTTLSeconds   int
	StoreURL          string
}

// CORSConfig: CORS 허용 설정입니다.
type CORSConfig struct {
	AllowOrigins []string
}

// AllowAll: 모든 출처를 허용하는지 여부입니다.
func (c CORSConfig) AllowAll() bool {
	if len(c.AllowOrigins) == 0 {
		return true
	}
	for _, origin := range c.AllowOrigins {
		if strings.TrimSpace(origin) == "*" {
			return true
		}
	}
	return false
}

// DatabaseConfig: 사용량 DB 연결 설정입니다.
type DatabaseConfig struct {
	UsageEnabled           bool
	Host                   string
	Port                   int
	Name                   string
	User                   string
	Password               string
	MaxPool                int
	ConnMaxLifetimeMinutes int
}

// DSN: DB 접속 문자열을 반환합니다.
func (d DatabaseConfig) DSN() string {
	host := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	u := &url.URL{
		Scheme: "postgresql",
		Host:   host,
		Path:   "/" + d.Name,
	}
	if d.Password == "" {
		u.User = url.User(d.User)
	} else {
		u.User = url.UserPassword(d.User, d.Password)
	}
	return u.String()
}

// TelemetryConfig: OpenTelemetry 설정입니다.
type TelemetryConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	OTLPInsecure   bool
	SampleRate     float64
}

// Config: 애플리케이션 전체 설정입니다.
type Config struct {
	LLM           LLMConfig
	Moderation    ModerationConfig
	Message       MessageConfig
	Guard         GuardConfig
	Logging       LoggingConfig
	HTTP          HTTPConfig
	HTTPAuth      HTTPAuthConfig
	HTTPRateLimit HTTPRateLimitConfig
	CORS          CORSConfig
	Database      DatabaseConfig
	Telemetry     TelemetryConfig
}
