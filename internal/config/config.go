package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Image   ImageConfig   `mapstructure:"image"`
	Storage StorageConfig `mapstructure:"storage"`
	Video   VideoConfig   `mapstructure:"video"`
	Reels   ReelsConfig   `mapstructure:"reels"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Batch   BatchConfig   `mapstructure:"batch"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORS            CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type StorageConfig struct {
	Type        string `mapstructure:"type"`
	Endpoint    string `mapstructure:"endpoint"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	UseSSL      bool   `mapstructure:"use_ssl"`
	Bucket      string `mapstructure:"bucket"`
	Region      string `mapstructure:"region"`
	PublicURL   string `mapstructure:"public_url"`
	ImageFolder string `mapstructure:"image_folder"`
	VideoFolder string `mapstructure:"video_folder"`
}

// Enabled reports whether enough is configured to talk to object storage.
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

type CacheConfig struct {
	Capacity int `mapstructure:"capacity"`
}

type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

// Load reads configuration from the optional file, .env, environment and flags.
// Parameters:
//   - configPath: explicit config file path; empty searches ./configs and the working dir.
//   - flags: parsed command line flags to bind over file values; may be nil.
//
// Returns:
//   - *Config: merged configuration.
//   - error: non-nil if the file exists but cannot be parsed or validation fails.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnv(v)

	if flags != nil {
		if f := flags.Lookup("host"); f != nil {
			_ = v.BindPFlag("server.host", f)
		}
		if f := flags.Lookup("port"); f != nil {
			_ = v.BindPFlag("server.port", f)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})

	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4.1-mini")
	v.SetDefault("llm.temperature", 0.8)
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.structured_output", true)

	v.SetDefault("image.deployment", "gpt-image-1")
	v.SetDefault("image.api_version", "2025-04-01-preview")
	v.SetDefault("image.size", "1024x1024")
	v.SetDefault("image.quality", "medium")
	v.SetDefault("image.output_format", "jpeg")
	v.SetDefault("image.timeout", "120s")

	v.SetDefault("storage.type", "")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.image_folder", "image-gen")
	v.SetDefault("storage.video_folder", "video-gen")

	v.SetDefault("video.audio_file", "./assets/audio.mp3")
	v.SetDefault("video.ffmpeg_path", "ffmpeg")
	v.SetDefault("video.width", 1080)
	v.SetDefault("video.height", 1920)
	v.SetDefault("video.fps", 24)
	v.SetDefault("video.fade_in_delay", 9.0)
	v.SetDefault("video.fade_in_duration", 4.0)
	v.SetDefault("video.max_duration", 30.0)
	v.SetDefault("video.default_title", "Daily Vibe")
	v.SetDefault("video.background_color", "0x141414")
	v.SetDefault("video.banner_y", 300)
	v.SetDefault("video.banner_height", 160)
	v.SetDefault("video.timeout", "5m")

	v.SetDefault("reels.base_url", "https://graph.facebook.com/v21.0")
	v.SetDefault("reels.poll_interval", "60s")
	v.SetDefault("reels.max_wait", "5m")
	v.SetDefault("reels.timeout", "30s")

	v.SetDefault("cache.capacity", 500)
	v.SetDefault("batch.workers", 3)
}

// bindEnv binds the environment variable names used in deployments.
func bindEnv(v *viper.Viper) {
	v.BindEnv("llm.api_key", "OPENAI_API_KEY")
	v.BindEnv("llm.base_url", "OPENAI_API_BASE")
	v.BindEnv("llm.model", "LLM_MODEL")

	v.BindEnv("image.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("image.api_key", "AZURE_OPENAI_API_KEY")
	v.BindEnv("image.deployment", "DEPLOYMENT_NAME")
	v.BindEnv("image.api_version", "OPENAI_API_VERSION")

	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("storage.bucket", "STORAGE_BUCKET")
	v.BindEnv("storage.region", "STORAGE_REGION")
	v.BindEnv("storage.public_url", "STORAGE_PUBLIC_URL")
	v.BindEnv("storage.image_folder", "STORAGE_IMAGE_FOLDER")
	v.BindEnv("storage.video_folder", "STORAGE_VIDEO_FOLDER")

	v.BindEnv("video.audio_file", "DEFAULT_AUDIO_FILE")
	v.BindEnv("video.ffmpeg_path", "FFMPEG_PATH")

	v.BindEnv("reels.base_url", "GRAPH_BASE_URL")
	v.BindEnv("reels.access_token", "INSTAGRAM_ACCESS_TOKEN")
	v.BindEnv("reels.ig_user_id", "INSTAGRAM_USER_ID")

	v.BindEnv("cache.capacity", "QUOTE_CACHE_CAPACITY")
}

// Validate checks ranges that would otherwise fail late at request time.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Cache.Capacity <= 0 {
		return fmt.Errorf("cache.capacity must be positive")
	}
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = 1
	}
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Video.Validate(); err != nil {
		return err
	}
	return c.Reels.Validate()
}
