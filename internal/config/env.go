package config

import (
	"os"
	"strconv"
	"strings"
)

// envValue: 비어 있지 않은 환경 변수를 parse 로 변환합니다. 없거나 변환에 실패하면 def 를 반환합니다.
func envValue[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	parsed, err := parse(raw)
	if err != nil {
		return def
	}
	return parsed
}

func getEnvString(key string, def string) string {
	return envValue(key, def, func(raw string) (string, error) { return raw, nil })
}

func getEnvInt(key string, def int) int {
	return envValue(key, def, strconv.Atoi)
}

// getEnvNonNegativeInt: 음수는 0 으로 올립니다.
func getEnvNonNegativeInt(key string, def int) int {
	return max(0, getEnvInt(key, def))
}

func getEnvFloat(key string, def float64) float64 {
	return envValue(key, def, func(raw string) (float64, error) {
		return strconv.ParseFloat(raw, 64)
	})
}

// getEnvBool: true/1/yes/y/on 은 참, 그 밖의 값은 거짓입니다.
func getEnvBool(key string, def bool) bool {
	return envValue(key, def, func(raw string) (bool, error) {
		switch strings.ToLower(raw) {
		case "true", "1", "yes", "y", "on":
			return true, nil
		default:
			return false, nil
		}
	})
}

// parseAPIKeys: GOOGLE_API_KEYS 목록이 우선이고, 없으면 GOOGLE_API_KEY 단일 값을 씁니다.
func parseAPIKeys() []string {
	if keys := splitList(getEnvString("GOOGLE_API_KEYS", "")); len(keys) > 0 {
		return keys
	}
	if key := getEnvString("GOOGLE_API_KEY", ""); key != "" {
		return []string{key}
	}
	return nil
}

// splitList: 쉼표 또는 공백으로 구분된 목록을 나눕니다.
func splitList(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

// maskSecret: 로그용으로 앞뒤 두 글자만 남깁니다.
func maskSecret(value string) string {
	switch n := len(value); {
	case n == 0:
		return "<missing>"
	case n <= 4:
		return strings.Repeat("*", n)
	default:
		return value[:2] + "***" + value[n-2:]
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func readTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:        getEnvBool("OTEL_ENABLED", false),
		ServiceName:    getEnvString("OTEL_SERVICE_NAME", "emoji-llm-server"),
		ServiceVersion: getEnvString("OTEL_SERVICE_VERSION", "1.0.0"),
		Environment:    getEnvString("OTEL_ENVIRONMENT", "production"),
		OTLPEndpoint:   getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "jaeger:4317"),
		OTLPInsecure:   getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		SampleRate:     getEnvFloat("OTEL_SAMPLE_RATE", 1.0),
	}
}
