package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string

	KeywordLimit int // ключевых слов из вакансии
	BatchWorkers int

	ReaderProxy  string // прокси-читалка для вакансий, пусто = posting.DefaultReaderProxy
	FetchDirect  bool   // качать страницу напрямую, без прокси
	FetchTimeout time.Duration
	FetchRPS     float64
	FetchBurst   int

	S3Region    string
	S3Endpoint  string // для R2/MinIO
	S3AccessKey string
	S3SecretKey string
}

func Load() Config {
	// .env необязателен
	_ = godotenv.Load()

	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         getint("PORT", 8083),
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		MaxUploadMB:  getint("MAX_UPLOAD_MB", 20),
		LogFile:      getenv("LOG_FILE", "logs/cv-tailor.log"),

		KeywordLimit: getint("POSTING_KEYWORD_LIMIT", 16),
		BatchWorkers: getint("BATCH_WORKERS", 4),

		ReaderProxy:  os.Getenv("READER_PROXY"),
		FetchDirect:  getbool("FETCH_DIRECT", false),
		FetchTimeout: getdur("FETCH_TIMEOUT", 15*time.Second),
		FetchRPS:     getfloat("FETCH_RPS", 1),
		FetchBurst:   getint("FETCH_BURST", 3),

		S3Region:    getenv("S3_REGION", "auto"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v, err := strconv.Atoi(getenv(k, ""))
	if err != nil {
		return def
	}
	return v
}

func getfloat(k string, def float64) float64 {
	v, err := strconv.ParseFloat(getenv(k, ""), 64)
	if err != nil {
		return def
	}
	return v
}

func getbool(k string, def bool) bool {
	v, err := strconv.ParseBool(getenv(k, ""))
	if err != nil {
		return def
	}
	return v
}

func getdur(k string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(getenv(k, ""))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
