package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"kisan_bazaar/models"
)

const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Config struct {
	AppID        string
	Collection   string
	Backend      string
	Supabase     SupabaseConfig
	DBPath       string
	Auth         AuthConfig
	UserLocation string
	FetchTimeout time.Duration
	Scheduler    SchedulerConfig
	S3           S3Config
	LogLevel     string
	LogFile      string
	Categories   []models.Category
}

type SupabaseConfig struct {
	URL     string
	AnonKey string
	DBURL   string
}

type AuthConfig struct {
	Token     string
	JWTSecret string
}

type SchedulerConfig struct {
	Interval time.Duration
	Cron     string
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppID:      os.Getenv("APP_ID"),
		Collection: getEnv("COLLECTION", "listings"),
		Backend:    strings.ToLower(getEnv("STORAGE_BACKEND", BackendSupabase)),
		Supabase: SupabaseConfig{
			URL:     os.Getenv("SUPABASE_URL"),
			AnonKey: os.Getenv("SUPABASE_ANON_KEY"),
			DBURL:   os.Getenv("SUPABASE_DB_URL"),
		},
		DBPath: getEnv("DB_PATH", "kisan.db"),
		Auth: AuthConfig{
			Token:     os.Getenv("AUTH_TOKEN"),
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		},
		UserLocation: os.Getenv("USER_LOCATION"),
		FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
		Scheduler: SchedulerConfig{
			Cron:     os.Getenv("REFRESH_CRON"),
			Interval: getEnvDuration("REFRESH_INTERVAL", 0),
		},
		S3: S3Config{
			Bucket:          os.Getenv("S3_BUCKET"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		},
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFile:    getEnv("LOG_FILE", "kisan.log"),
		Categories: models.DefaultCategories,
	}

	if path := os.Getenv("CATEGORIES_FILE"); path != "" {
		cats, err := LoadCategories(path)
		if err != nil {
			return nil, err
		}
		cfg.Categories = cats
	}

	return cfg, nil
}

// Missing returns the name of the first unset setting the selected backend needs,
// or "" when the configuration is complete.
func (c *Config) Missing() string {
	if c.AppID == "" {
		return "APP_ID"
	}
	switch c.Backend {
	case BackendSupabase:
		if c.Supabase.URL == "" {
			return "SUPABASE_URL"
		}
		if c.Supabase.AnonKey == "" {
			return "SUPABASE_ANON_KEY"
		}
	case BackendPostgres:
		if c.Supabase.DBURL == "" {
			return "SUPABASE_DB_URL"
		}
	case BackendSQLite:
		if c.DBPath == "" {
			return "DB_PATH"
		}
	default:
		return "STORAGE_BACKEND"
	}
	return ""
}

// CollectionPath is the document collection every read and write is scoped to.
func (c *Config) CollectionPath() string {
	return fmt.Sprintf("artifacts/%s/public/data/%s", c.AppID, c.Collection)
}

type categoriesFile struct {
	Categories []models.Category `yaml:"categories"`
}

// LoadCategories reads a category table from YAML. The "all" sentinel is always
// kept as the first entry.
func LoadCategories(path string) ([]models.Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}

	var f categoriesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}

	cats := []models.Category{models.DefaultCategories[0]}
	for _, c := range f.Categories {
		if c.Value == "" || c.Label == "" {
			return nil, fmt.Errorf("category entry needs value and label: %+v", c)
		}
		if c.Value == models.CategoryAll {
			continue
		}
		if c.Icon == "" {
			c.Icon = models.UnknownCropIcon
		}
		cats = append(cats, c)
	}
	return cats, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if secs := getEnvInt(key, -1); secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}
