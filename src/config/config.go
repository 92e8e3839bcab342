package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port         string
	DatabasePath string
	LogLevel     string

	// BaseCurrency is the ledger's accounting currency. All amount_base
	// values are expressed in it.
	BaseCurrency        string
	HistoricalRatesPath string

	FxPrimaryURL        string
	FxSecondaryURL      string
	FxRequestTimeout    time.Duration
	FxRequestsPerSecond float64

	MaxUploadSizeBytes int64
}

var Cfg *AppConfig

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: no .env file found, relying on OS environment variables and defaults.")
	}

	fxTimeoutStr := getEnv("FX_REQUEST_TIMEOUT", "15s")
	fxTimeout, err := time.ParseDuration(fxTimeoutStr)
	if err != nil {
		log.Printf("WARNING: invalid FX_REQUEST_TIMEOUT %q, using default 15s. Error: %v", fxTimeoutStr, err)
		fxTimeout = 15 * time.Second
	}

	fxRPSStr := getEnv("FX_REQUESTS_PER_SECOND", "4")
	fxRPS, err := strconv.ParseFloat(fxRPSStr, 64)
	if err != nil || fxRPS <= 0 {
		log.Printf("WARNING: invalid FX_REQUESTS_PER_SECOND %q, using default 4. Error: %v", fxRPSStr, err)
		fxRPS = 4
	}

	maxUploadStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760")
	maxUpload, err := strconv.ParseInt(maxUploadStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: invalid MAX_UPLOAD_SIZE_BYTES %q, using default 10MB. Error: %v", maxUploadStr, err)
		maxUpload = 10 * 1024 * 1024
	}

	Cfg = &AppConfig{
		Port:                getEnv("PORT", "8080"),
		DatabasePath:        getEnv("DATABASE_PATH", "./portfolion.db"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		BaseCurrency:        getEnv("BASE_CURRENCY", "CZK"),
		HistoricalRatesPath: getEnv("HISTORICAL_RATES_PATH", "data/historicalExchangeRates.json"),
		FxPrimaryURL:        getEnv("FX_PRIMARY_URL", "https://api.frankfurter.app"),
		FxSecondaryURL:      getEnv("FX_SECONDARY_URL", "https://api.exchangerate.host"),
		FxRequestTimeout:    fxTimeout,
		FxRequestsPerSecond: fxRPS,
		MaxUploadSizeBytes:  maxUpload,
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, BaseCurrency=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.BaseCurrency)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
