package config

// Service default configuration constants
const (
	// Server defaults
	DefaultHost            = "0.0.0.0"
	DefaultPort            = "5000"
	DefaultEnvironment     = "development"
	DefaultReadTimeoutSec  = 60
	DefaultWriteTimeoutSec = 600
	DefaultIdleTimeoutSec  = 120
	DefaultMaxUploadMB     = 10

	// Storage layout, relative to the base dir
	DefaultBaseDir = "rvc"
	ModelsDirName  = "models"
	WeightsDirName = "weights"
	LogsDirName    = "logs"
	TempDirName    = "temp"
	HFCacheDirName = "hf"

	// Conversion defaults
	DefaultMockMode         = ModeAuto
	DefaultMockTrainDelayMs = 2000
	DefaultPythonBin        = "python3"
	DefaultInferTimeoutSec  = 600
	DefaultXTTSModel        = "tts_models/multilingual/multi-dataset/xtts_v2"
	DefaultXTTSBin          = "tts"
	DefaultXTTSLanguage     = "en"
	DefaultXTTSTimeoutSec   = 300

	// HF cache defaults
	DefaultHFEndpoint   = "https://huggingface.co"
	DefaultHFTimeoutSec = 1800

	DefaultSubjectPrefix = "rvc"
	DefaultMinioBucket   = "rvc-voice-samples"
)

// Mock mode switch values
const (
	ModeAuto  = "auto"
	ModeTrue  = "true"
	ModeFalse = "false"
)
