package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Upload  UploadConfig  `yaml:"upload"`
	Storage StorageConfig `yaml:"storage"`
	Model   ModelConfig   `yaml:"model"`
	Jobs    JobsConfig    `yaml:"jobs"`
	CORS    CORSConfig    `yaml:"cors"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type UploadConfig struct {
	MaxSizeMB int `yaml:"max_size_mb"`
}

// StorageConfig selects where uploaded files live while a job is in flight.
// Backend is "local" (temp directory) or "minio".
type StorageConfig struct {
	Backend string      `yaml:"backend"`
	TempDir string      `yaml:"temp_dir"`
	Minio   MinioConfig `yaml:"minio"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type ModelConfig struct {
	BaseURL        string  `yaml:"base_url"`
	APIKey         string  `yaml:"api_key"`
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MaxRetries     int     `yaml:"max_retries"`
}

type JobsConfig struct {
	RetentionMinutes     int `yaml:"retention_minutes"`
	ProcessingTimeoutMin int `yaml:"processing_timeout_minutes"`
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
	MaxJobs              int `yaml:"max_jobs"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5001
	}
	if c.Upload.MaxSizeMB == 0 {
		c.Upload.MaxSizeMB = 10
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "local"
	}
	if c.Storage.TempDir == "" {
		c.Storage.TempDir = os.TempDir()
	}
	if c.Model.BaseURL == "" {
		c.Model.BaseURL = "https://openrouter.ai/api/v1"
	}
	if c.Model.Model == "" {
		c.Model.Model = "anthropic/claude-3.5-haiku-20241022:beta"
	}
	if c.Model.TimeoutSeconds == 0 {
		c.Model.TimeoutSeconds = 60
	}
	if c.Model.MaxRetries == 0 {
		c.Model.MaxRetries = 2
	}
	if c.Jobs.RetentionMinutes == 0 {
		c.Jobs.RetentionMinutes = 5
	}
	if c.Jobs.ProcessingTimeoutMin == 0 {
		c.Jobs.ProcessingTimeoutMin = 3
	}
	if c.Jobs.SweepIntervalSeconds == 0 {
		c.Jobs.SweepIntervalSeconds = 30
	}
	if c.Jobs.MaxJobs == 0 {
		c.Jobs.MaxJobs = 100
	}
}

// applyEnvOverrides lets credentials and endpoints come from the environment
// so they never have to live in the config file. OPENROUTER_KEY is honored
// for compatibility with older deployments.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MODEL_API_KEY"); v != "" {
		c.Model.APIKey = v
	}
	if v := os.Getenv("OPENROUTER_KEY"); v != "" && c.Model.APIKey == "" {
		c.Model.APIKey = v
	}
	if v := os.Getenv("MODEL_BASE_URL"); v != "" {
		c.Model.BaseURL = v
	}
	if v := os.Getenv("MODEL_NAME"); v != "" {
		c.Model.Model = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Storage.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Storage.Minio.SecretKey = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		c.CORS.AllowedOrigins = origins
	}
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxSizeMB) * 1024 * 1024
}
