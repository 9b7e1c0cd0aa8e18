package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Groq      GroqConfig
	Sarvam    SarvamConfig
	Drive     DriveConfig
	Manim     ManimConfig
	Grade     GradeConfig
}

type ServerConfig struct {
	Port      string
	Env       string
	LogLevel  string
	ApiDomain string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration int // hours
}

type RateLimitConfig struct {
	GeneratePerHour int
	ComposePerMin   int
	LibraryPerMin   int
	SearchPerMin    int
}

type GroqConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// SarvamConfig configures the Hindi speech-synthesis service.
type SarvamConfig struct {
	APIKey     string
	BaseURL    string
	Speaker    string
	Model      string
	SampleRate int
}

// DriveConfig configures Google Drive storage. Credentials are a service
// account JSON document, inline or via DRIVE_CREDENTIALS_JSON_FILE.
type DriveConfig struct {
	CredentialsJSON string
	OutputFolderID  string
	// NCERTFolders maps grade ("6".."10") to the Drive folder holding that
	// grade's textbooks.
	NCERTFolders map[string]string
}

// ManimConfig configures the external animation renderer.
type ManimConfig struct {
	Binary         string // python interpreter running manim
	Quality        string // low | medium | high
	TimeoutSeconds int    // render budget
	OutputDir      string // where finished artifacts are copied
}

type GradeConfig struct {
	Min int
	Max int
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("GROQ_API_KEY")
	readSecret("SARVAM_API_KEY")
	readSecret("DRIVE_CREDENTIALS_JSON")
	readSecret("JWT_SECRET")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("server.api_domain", "API_DOMAIN")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("jwt.secret", "JWT_SECRET")
	_ = viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	_ = viper.BindEnv("groq.api_key", "GROQ_API_KEY")
	_ = viper.BindEnv("groq.base_url", "GROQ_BASE_URL")
	_ = viper.BindEnv("groq.model", "GROQ_MODEL")
	_ = viper.BindEnv("sarvam.api_key", "SARVAM_API_KEY")
	_ = viper.BindEnv("sarvam.base_url", "SARVAM_BASE_URL")
	_ = viper.BindEnv("sarvam.speaker", "SARVAM_SPEAKER")
	_ = viper.BindEnv("sarvam.model", "SARVAM_MODEL")
	_ = viper.BindEnv("sarvam.sample_rate", "SARVAM_SAMPLE_RATE")
	_ = viper.BindEnv("drive.credentials_json", "DRIVE_CREDENTIALS_JSON")
	_ = viper.BindEnv("drive.output_folder_id", "DRIVE_OUTPUT_FOLDER_ID")
	_ = viper.BindEnv("manim.binary", "MANIM_BINARY")
	_ = viper.BindEnv("manim.quality", "MANIM_QUALITY")
	_ = viper.BindEnv("manim.timeout_seconds", "MANIM_TIMEOUT_SECONDS")
	_ = viper.BindEnv("manim.output_dir", "MANIM_OUTPUT_DIR")
	_ = viper.BindEnv("grade.min", "GRADE_MIN")
	_ = viper.BindEnv("grade.max", "GRADE_MAX")

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expiration", 24)
	viper.SetDefault("ratelimit.generate_per_hour", 5)
	viper.SetDefault("ratelimit.compose_per_min", 20)
	viper.SetDefault("ratelimit.library_per_min", 60)
	viper.SetDefault("ratelimit.search_per_min", 30)

	// Groq defaults
	viper.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("groq.model", "llama-3.3-70b-versatile")

	// Sarvam defaults
	viper.SetDefault("sarvam.base_url", "https://api.sarvam.ai")
	viper.SetDefault("sarvam.speaker", "anushka")
	viper.SetDefault("sarvam.model", "bulbul:v1")
	viper.SetDefault("sarvam.sample_rate", 22050)

	// Manim defaults
	viper.SetDefault("manim.binary", "python3")
	viper.SetDefault("manim.quality", "high")
	viper.SetDefault("manim.timeout_seconds", 300)
	viper.SetDefault("manim.output_dir", "./videos")

	// Grade defaults
	viper.SetDefault("grade.min", 6)
	viper.SetDefault("grade.max", 10)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:      viper.GetString("server.port"),
			Env:       viper.GetString("server.env"),
			LogLevel:  viper.GetString("server.log_level"),
			ApiDomain: viper.GetString("server.api_domain"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("jwt.secret"),
			Expiration: viper.GetInt("jwt.expiration"),
		},
		RateLimit: RateLimitConfig{
			GeneratePerHour: viper.GetInt("ratelimit.generate_per_hour"),
			ComposePerMin:   viper.GetInt("ratelimit.compose_per_min"),
			LibraryPerMin:   viper.GetInt("ratelimit.library_per_min"),
			SearchPerMin:    viper.GetInt("ratelimit.search_per_min"),
		},
		Groq: GroqConfig{
			APIKey:  viper.GetString("groq.api_key"),
			BaseURL: viper.GetString("groq.base_url"),
			Model:   viper.GetString("groq.model"),
		},
		Sarvam: SarvamConfig{
			APIKey:     viper.GetString("sarvam.api_key"),
			BaseURL:    viper.GetString("sarvam.base_url"),
			Speaker:    viper.GetString("sarvam.speaker"),
			Model:      viper.GetString("sarvam.model"),
			SampleRate: viper.GetInt("sarvam.sample_rate"),
		},
		Drive: DriveConfig{
			CredentialsJSON: viper.GetString("drive.credentials_json"),
			OutputFolderID:  viper.GetString("drive.output_folder_id"),
			NCERTFolders:    viper.GetStringMapString("drive.ncert_folders"),
		},
		Manim: ManimConfig{
			Binary:         viper.GetString("manim.binary"),
			Quality:        viper.GetString("manim.quality"),
			TimeoutSeconds: viper.GetInt("manim.timeout_seconds"),
			OutputDir:      viper.GetString("manim.output_dir"),
		},
		Grade: GradeConfig{
			Min: viper.GetInt("grade.min"),
			Max: viper.GetInt("grade.max"),
		},
	}

	return cfg, nil
}
