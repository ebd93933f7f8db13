package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	Server     ServerConfig      `yaml:"server" toml:"server"`
	Storage    StorageConfig     `yaml:"storage" toml:"storage"`
	Conversion ConversionConfig  `yaml:"conversion" toml:"conversion"`
	HFCache    HFCacheConfig     `yaml:"hf_cache" toml:"hf_cache"`
	Auth       AuthConfig        `yaml:"auth" toml:"auth"`
	Events     EventsConfig      `yaml:"events" toml:"events"`
	Archive    ArchiveConfig     `yaml:"archive" toml:"archive"`
	Pretrained []PretrainedModel `yaml:"pretrained,omitempty" toml:"pretrained,omitempty"`
}

type ServerConfig struct {
	Host            string `yaml:"host" toml:"host"`
	Port            string `yaml:"port" toml:"port"`
	Environment     string `yaml:"environment" toml:"environment"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec,omitempty" toml:"read_timeout_sec,omitempty"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec,omitempty" toml:"write_timeout_sec,omitempty"`
	IdleTimeoutSec  int    `yaml:"idle_timeout_sec,omitempty" toml:"idle_timeout_sec,omitempty"`
	MaxUploadMB     int    `yaml:"max_upload_mb,omitempty" toml:"max_upload_mb,omitempty"`

	// CORSOrigins lists browser origins allowed to call the API. Empty allows any origin.
	CORSOrigins []string `yaml:"cors_origins,omitempty" toml:"cors_origins,omitempty"`
}

// StorageConfig describes the on-disk layout. Empty directories derive from BaseDir.
type StorageConfig struct {
	BaseDir      string `yaml:"base_dir" toml:"base_dir"`
	ModelsDir    string `yaml:"models_dir,omitempty" toml:"models_dir,omitempty"`
	WeightsDir   string `yaml:"weights_dir,omitempty" toml:"weights_dir,omitempty"`
	LogsDir      string `yaml:"logs_dir,omitempty" toml:"logs_dir,omitempty"`
	TempDir      string `yaml:"temp_dir,omitempty" toml:"temp_dir,omitempty"`
	WatchWeights bool   `yaml:"watch_weights" toml:"watch_weights"`
}

type ConversionConfig struct {
	MockMode         string `yaml:"mock_mode" toml:"mock_mode"`
	MockTrainDelayMs int    `yaml:"mock_train_delay_ms" toml:"mock_train_delay_ms"`
	Device           string `yaml:"device,omitempty" toml:"device,omitempty"`
	PythonBin        string `yaml:"python_bin" toml:"python_bin"`
	InferTimeoutSec  int    `yaml:"infer_timeout_sec" toml:"infer_timeout_sec"`
	XTTSURL          string `yaml:"xtts_url,omitempty" toml:"xtts_url,omitempty"`
	XTTSModel        string `yaml:"xtts_model" toml:"xtts_model"`
	XTTSBin          string `yaml:"xtts_bin" toml:"xtts_bin"`
	XTTSLanguage     string `yaml:"xtts_language" toml:"xtts_language"`
	XTTSTimeoutSec   int    `yaml:"xtts_timeout_sec" toml:"xtts_timeout_sec"`
}

type HFCacheConfig struct {
	Enabled    bool   `yaml:"enabled" toml:"enabled"`
	Endpoint   string `yaml:"endpoint" toml:"endpoint"`
	Token      string `yaml:"token,omitempty" toml:"token,omitempty"`
	TimeoutSec int    `yaml:"timeout_sec" toml:"timeout_sec"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret,omitempty" toml:"jwt_secret,omitempty"`
}

type EventsConfig struct {
	NATSURL       string `yaml:"nats_url,omitempty" toml:"nats_url,omitempty"`
	SubjectPrefix string `yaml:"subject_prefix" toml:"subject_prefix"`
}

type ArchiveConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty" toml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty" toml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty" toml:"secret_key,omitempty"`
	Bucket    string `yaml:"bucket" toml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl" toml:"use_ssl"`
}

// PretrainedModel is a catalog entry announced at startup.
type PretrainedModel struct {
	ID   string `yaml:"id" toml:"id"`
	Name string `yaml:"name" toml:"name"`
	Type string `yaml:"type" toml:"type"`
}

// Default returns a configuration populated with defaults.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			Environment:     DefaultEnvironment,
			ReadTimeoutSec:  DefaultReadTimeoutSec,
			WriteTimeoutSec: DefaultWriteTimeoutSec,
			IdleTimeoutSec:  DefaultIdleTimeoutSec,
			MaxUploadMB:     DefaultMaxUploadMB,
		},
		Storage: StorageConfig{
			BaseDir:      DefaultBaseDir,
			WatchWeights: true,
		},
		Conversion: ConversionConfig{
			MockMode:         DefaultMockMode,
			MockTrainDelayMs: DefaultMockTrainDelayMs,
			PythonBin:        DefaultPythonBin,
			InferTimeoutSec:  DefaultInferTimeoutSec,
			XTTSModel:        DefaultXTTSModel,
			XTTSBin:          DefaultXTTSBin,
			XTTSLanguage:     DefaultXTTSLanguage,
			XTTSTimeoutSec:   DefaultXTTSTimeoutSec,
		},
		HFCache: HFCacheConfig{
			Enabled:    true,
			Endpoint:   DefaultHFEndpoint,
			TimeoutSec: DefaultHFTimeoutSec,
		},
		Events: EventsConfig{
			SubjectPrefix: DefaultSubjectPrefix,
		},
		Archive: ArchiveConfig{
			Bucket: DefaultMinioBucket,
		},
	}
	cfg.setDefaults()
	return cfg
}

// Load builds the configuration from defaults, an optional YAML or TOML file, and the environment.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	configPath = os.ExpandEnv(configPath)
	if configPath != "" {
		if err := cfg.loadFile(configPath); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse TOML: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file extension: %s", filepath.Ext(configPath))
	}
	return nil
}

// applyEnv overrides file values with any environment variables that are set.
func (c *Config) applyEnv() {
	setString(&c.Server.Host, "RVC_HOST")
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.Environment, "RVC_ENV")
	setInt(&c.Server.MaxUploadMB, "MAX_UPLOAD_MB")
	setList(&c.Server.CORSOrigins, "CORS_ALLOW_ORIGINS")

	if v, ok := os.LookupEnv("RVC_BASE_DIR"); ok && v != "" {
		c.Storage.BaseDir = v
		c.Storage.ModelsDir, c.Storage.WeightsDir, c.Storage.LogsDir, c.Storage.TempDir = "", "", "", ""
	}
	setString(&c.Storage.WeightsDir, "WEIGHTS_DIR")
	setString(&c.Storage.TempDir, "TEMP_DIR")
	setBool(&c.Storage.WatchWeights, "WATCH_WEIGHTS")

	setString(&c.Conversion.MockMode, "MOCK_MODE")
	setInt(&c.Conversion.MockTrainDelayMs, "MOCK_TRAIN_DELAY_MS")
	setString(&c.Conversion.Device, "DEVICE")
	setString(&c.Conversion.PythonBin, "PYTHON_BIN")
	setInt(&c.Conversion.InferTimeoutSec, "INFER_TIMEOUT_SEC")
	setString(&c.Conversion.XTTSURL, "XTTS_URL")
	setString(&c.Conversion.XTTSModel, "XTTS_MODEL")
	setString(&c.Conversion.XTTSBin, "XTTS_BIN")
	setString(&c.Conversion.XTTSLanguage, "XTTS_LANGUAGE")

	setBool(&c.HFCache.Enabled, "HF_CACHE_ENABLED")
	setString(&c.HFCache.Endpoint, "HF_ENDPOINT")
	setString(&c.HFCache.Token, "HF_TOKEN")

	setString(&c.Auth.JWTSecret, "AUTH_JWT_SECRET")

	setString(&c.Events.NATSURL, "NATS_URL")
	setString(&c.Events.SubjectPrefix, "NATS_SUBJECT_PREFIX")

	setString(&c.Archive.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Archive.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Archive.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Archive.Bucket, "MINIO_BUCKET")
	setBool(&c.Archive.UseSSL, "MINIO_USE_SSL")
}

func (c *Config) setDefaults() {
	if c.Storage.BaseDir == "" {
		c.Storage.BaseDir = DefaultBaseDir
	}
	if c.Storage.ModelsDir == "" {
		c.Storage.ModelsDir = filepath.Join(c.Storage.BaseDir, ModelsDirName)
	}
	if c.Storage.WeightsDir == "" {
		c.Storage.WeightsDir = filepath.Join(c.Storage.BaseDir, WeightsDirName)
	}
	if c.Storage.LogsDir == "" {
		c.Storage.LogsDir = filepath.Join(c.Storage.BaseDir, LogsDirName)
	}
	if c.Storage.TempDir == "" {
		c.Storage.TempDir = filepath.Join(c.Storage.BaseDir, TempDirName)
	}
	c.Conversion.MockMode = strings.ToLower(strings.TrimSpace(c.Conversion.MockMode))
	if c.Conversion.MockMode == "" {
		c.Conversion.MockMode = DefaultMockMode
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = DefaultMaxUploadMB
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if err := ValidatePort(c.Server.Port, "server"); err != nil {
		return err
	}
	if err := ValidateMockMode(c.Conversion.MockMode); err != nil {
		return err
	}
	if err := ValidateTimeout(c.InferTimeout(), "inference"); err != nil {
		return err
	}
	if c.Conversion.MockTrainDelayMs < 0 {
		return fmt.Errorf("mock train delay cannot be negative")
	}
	if c.Conversion.XTTSURL != "" {
		if err := ValidateURL(c.Conversion.XTTSURL, "XTTS"); err != nil {
			return err
		}
	}
	if c.HFCache.Enabled {
		if err := ValidateURL(c.HFCache.Endpoint, "HF endpoint"); err != nil {
			return err
		}
	}
	for i, p := range c.Pretrained {
		if p.ID == "" {
			return fmt.Errorf("pretrained model %d has no id", i)
		}
	}
	return nil
}

// HFCacheDir is where downloaded repositories are stored.
func (c *Config) HFCacheDir() string {
	return filepath.Join(c.Storage.ModelsDir, HFCacheDirName)
}

// Dirs lists every directory the service expects to exist.
func (c *Config) Dirs() []string {
	return []string{c.Storage.ModelsDir, c.Storage.WeightsDir, c.Storage.LogsDir, c.Storage.TempDir}
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSec) * time.Second
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeoutSec) * time.Second
}

func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeoutSec) * time.Second
}

func (c *Config) InferTimeout() time.Duration {
	return time.Duration(c.Conversion.InferTimeoutSec) * time.Second
}

func (c *Config) XTTSTimeout() time.Duration {
	return time.Duration(c.Conversion.XTTSTimeoutSec) * time.Second
}

func (c *Config) HFTimeout() time.Duration {
	return time.Duration(c.HFCache.TimeoutSec) * time.Second
}

func (c *Config) MockTrainDelay() time.Duration {
	return time.Duration(c.Conversion.MockTrainDelayMs) * time.Millisecond
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		var out []string
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		*dst = out
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*dst = b
		}
	}
}
