package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/matchsight/matchsight/internal/platform/logging"
)

// Config stores runtime configuration for the extraction pipeline.
// Env parsing fails fast on malformed values; cross-field rules live in
// the validate tags and run once over the assembled struct.
type Config struct {
	AppEnv                     string `validate:"required,oneof=dev stage prod"`
	ServiceName                string `validate:"required"`
	ServiceVersion             string `validate:"required"`
	MatchStore                 string `validate:"required,oneof=memory postgres"`
	DBURL                      string `validate:"required_if=MatchStore postgres"`
	DBDisablePreparedBinary    bool
	SeedOnStart                bool
	Seasons                    []string
	RowLimit                   int      `validate:"gte=0"`
	Columns                    []string `validate:"min=1"`
	TeamColumns                []string
	Mode                       string
	StrictKeepers              bool
	MaxWorkers                 int `validate:"gte=0"`
	ExportPath                 string
	ExportToStore              bool
	ReportEnabled              bool
	ReportPositiveCutoff       float64 `validate:"gte=0,lte=1"`
	ReportNegativeCutoff       float64 `validate:"gte=-1,lte=0"`
	CacheEnabled               bool
	CacheTTL                   time.Duration `validate:"gt=0"`
	PprofEnabled               bool
	PprofAddr                  string `validate:"required_if=PprofEnabled true"`
	UptraceEnabled             bool
	UptraceDSN                 string `validate:"required_if=UptraceEnabled true"`
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string `validate:"required_if=PyroscopeEnabled true,omitempty,url"`
	PyroscopeAppName           string `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration `validate:"gt=0"`
	LogLevel                   logging.Level
}

func Load() (Config, error) {
	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	seedOnStart, err := strconv.ParseBool(getEnv("DB_SEED_ON_START", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_SEED_ON_START: %w", err)
	}

	rowLimit, err := getEnvAsInt("EXTRACT_ROW_LIMIT", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse EXTRACT_ROW_LIMIT: %w", err)
	}

	maxWorkers, err := getEnvAsInt("EXTRACT_MAX_WORKERS", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse EXTRACT_MAX_WORKERS: %w", err)
	}

	strictKeepers, err := strconv.ParseBool(getEnv("EXTRACT_STRICT_GOALKEEPERS", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EXTRACT_STRICT_GOALKEEPERS: %w", err)
	}

	exportToStore, err := strconv.ParseBool(getEnv("EXPORT_TO_DB", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EXPORT_TO_DB: %w", err)
	}

	reportEnabled, err := strconv.ParseBool(getEnv("REPORT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REPORT_ENABLED: %w", err)
	}

	reportPositiveCutoff, err := getEnvAsFloat("REPORT_POSITIVE_CUTOFF", 0.5)
	if err != nil {
		return Config{}, fmt.Errorf("parse REPORT_POSITIVE_CUTOFF: %w", err)
	}

	reportNegativeCutoff, err := getEnvAsFloat("REPORT_NEGATIVE_CUTOFF", -0.5)
	if err != nil {
		return Config{}, fmt.Errorf("parse REPORT_NEGATIVE_CUTOFF: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}

	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}

	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	serviceName := getEnv("APP_SERVICE_NAME", "matchsight-export")

	cfg := Config{
		AppEnv:                     strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", EnvDev))),
		ServiceName:                serviceName,
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		MatchStore:                 strings.ToLower(strings.TrimSpace(getEnv("MATCH_STORE", StoreMemory))),
		DBURL:                      strings.TrimSpace(os.Getenv("DB_URL")),
		DBDisablePreparedBinary:    dbDisablePreparedBinary,
		SeedOnStart:                seedOnStart,
		Seasons:                    splitCSV(getEnv("EXTRACT_SEASONS", "")),
		RowLimit:                   rowLimit,
		Columns:                    splitCSV(getEnv("EXTRACT_COLUMNS", "overall_rating")),
		TeamColumns:                splitCSV(getEnv("EXTRACT_TEAM_COLUMNS", "")),
		Mode:                       strings.ToLower(strings.TrimSpace(getEnv("EXTRACT_MODE", "all"))),
		StrictKeepers:              strictKeepers,
		MaxWorkers:                 maxWorkers,
		ExportPath:                 getEnv("EXPORT_PATH", "-"),
		ExportToStore:              exportToStore,
		ReportEnabled:              reportEnabled,
		ReportPositiveCutoff:       reportPositiveCutoff,
		ReportNegativeCutoff:       reportNegativeCutoff,
		CacheEnabled:               cacheEnabled,
		CacheTTL:                   cacheTTL,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceLogsEnabled:         uptraceLogsEnabled,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAppName:           strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", serviceName)),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		LogLevel:                   logLevel,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)
