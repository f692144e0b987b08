package appconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/stevecastle/parallax/platform"
)

// DepthModelConfig points at the ONNX depth network and runtime.
type DepthModelConfig struct {
	ModelPath            string `json:"modelPath"`
	ConfigPath           string `json:"configPath"`
	ORTSharedLibraryPath string `json:"ortSharedLibraryPath"`
	Backend              string `json:"backend"`
}

// PipelineDefaults are the default run parameters; each is clamped to its
// documented range when a run starts.
type PipelineDefaults struct {
	TargetFps           int `json:"targetFps"`
	MaxFrameWidth       int `json:"maxFrameWidth"`
	DisparityStrengthPx int `json:"disparityStrengthPx"`
	MaxFrames           int `json:"maxFrames"`
}

// Config holds application configuration including database path, workspace
// location, ffmpeg override, and depth model paths.
type Config struct {
	DBPath string `json:"dbPath"`

	// Workspace for per-run intermediate frames
	WorkDir string `json:"workDir"`

	// Optional explicit ffmpeg binary; if empty, PATH is searched
	FFmpegPath string `json:"ffmpegPath"`

	DepthModel DepthModelConfig `json:"depthModel"`

	Pipeline PipelineDefaults `json:"pipeline"`
}

var (
	cfgMu sync.RWMutex
	cfg   Config
)

// DefaultDBPath returns the default database path.
// Uses the platform-specific data directory.
func DefaultDBPath() string {
	return filepath.Join(platform.GetDataDir(), "runs.db")
}

// DefaultConfigDir returns the default config directory path.
// Uses the platform-specific data directory.
func DefaultConfigDir() string {
	return platform.GetDataDir()
}

// defaultModelDir returns the default location of the depth model bundle.
func defaultModelDir() string {
	return filepath.Join(platform.GetDataDir(), "midas")
}

// defaultConfig returns a Config populated with sensible defaults.
func defaultConfig() Config {
	modelDir := defaultModelDir()
	return Config{
		DBPath:  DefaultDBPath(),
		WorkDir: platform.GetWorkDir(),
		DepthModel: DepthModelConfig{
			ModelPath:            filepath.Join(modelDir, "model.onnx"),
			ConfigPath:           filepath.Join(modelDir, "config.json"),
			ORTSharedLibraryPath: filepath.Join(modelDir, "onnxruntime"+platform.SharedLibExtension()),
			Backend:              "cpu",
		},
		Pipeline: PipelineDefaults{
			TargetFps:           10,
			MaxFrameWidth:       960,
			DisparityStrengthPx: 12,
			MaxFrames:           900,
		},
	}
}

// Get returns a copy of the current in-memory config.
func Get() Config {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return cfg
}

// Set replaces the in-memory config.
func Set(c Config) {
	cfgMu.Lock()
	cfg = c
	cfgMu.Unlock()
}

func isJSONObject(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func deepMergeJSON(dst, src map[string]json.RawMessage) {
	for k, v := range src {
		if existing, ok := dst[k]; ok && isJSONObject(existing) && isJSONObject(v) {
			var dstObj map[string]json.RawMessage
			var srcObj map[string]json.RawMessage
			if err := json.Unmarshal(existing, &dstObj); err != nil {
				dst[k] = v
				continue
			}
			if err := json.Unmarshal(v, &srcObj); err != nil {
				dst[k] = v
				continue
			}
			deepMergeJSON(dstObj, srcObj)
			merged, err := json.Marshal(dstObj)
			if err != nil {
				dst[k] = v
				continue
			}
			dst[k] = merged
			continue
		}
		dst[k] = v
	}
}

// getConfigPath returns the full path to the config.json file.
func getConfigPath() (string, error) {
	configDir := DefaultConfigDir()
	return filepath.Join(configDir, "config.json"), nil
}

// Load reads the config from disk and updates the in-memory config. It returns the config and path.
// If the config file doesn't exist, it creates one with default values.
// This function safely handles missing directories and creates them as needed.
func Load() (Config, string, error) {
	path, err := getConfigPath()
	if err != nil {
		return Config{}, "", err
	}

	// Ensure config directory exists
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return Config{}, "", fmt.Errorf("failed to create config directory %s: %v", configDir, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file doesn't exist - create it with defaults
			def := defaultConfig()

			dbDir := filepath.Dir(def.DBPath)
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				return Config{}, "", fmt.Errorf("failed to create database directory %s: %v", dbDir, err)
			}

			savedPath, saveErr := Save(def)
			if saveErr != nil {
				return Config{}, path, fmt.Errorf("failed to create default config file: %v", saveErr)
			}
			Set(def)
			return def, savedPath, nil
		}
		return Config{}, path, fmt.Errorf("failed to read config file at %s: %v", path, err)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, path, fmt.Errorf("failed to parse config JSON: %v", err)
	}

	// Merge defaults for any missing fields
	def := defaultConfig()
	needsSave := false

	if c.DBPath == "" {
		c.DBPath = def.DBPath
		needsSave = true
	}
	if c.WorkDir == "" {
		c.WorkDir = def.WorkDir
	}
	if c.DepthModel.ModelPath == "" {
		c.DepthModel.ModelPath = def.DepthModel.ModelPath
	}
	if c.DepthModel.ConfigPath == "" {
		c.DepthModel.ConfigPath = def.DepthModel.ConfigPath
	}
	if c.DepthModel.ORTSharedLibraryPath == "" {
		c.DepthModel.ORTSharedLibraryPath = def.DepthModel.ORTSharedLibraryPath
	}
	if c.DepthModel.Backend == "" {
		c.DepthModel.Backend = def.DepthModel.Backend
	}
	if c.Pipeline.TargetFps == 0 {
		c.Pipeline.TargetFps = def.Pipeline.TargetFps
	}
	if c.Pipeline.MaxFrameWidth == 0 {
		c.Pipeline.MaxFrameWidth = def.Pipeline.MaxFrameWidth
	}
	if c.Pipeline.DisparityStrengthPx == 0 {
		c.Pipeline.DisparityStrengthPx = def.Pipeline.DisparityStrengthPx
	}
	if c.Pipeline.MaxFrames == 0 {
		c.Pipeline.MaxFrames = def.Pipeline.MaxFrames
	}

	// Ensure the database directory exists
	dbDir := filepath.Dir(c.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return Config{}, path, fmt.Errorf("failed to create database directory %s: %v", dbDir, err)
	}

	// Save config if we had to fill in critical missing fields
	if needsSave {
		if _, saveErr := Save(c); saveErr != nil {
			// Log but don't fail - we can continue with the in-memory config
			fmt.Printf("Warning: failed to save updated config: %v\n", saveErr)
		}
	}

	Set(c)
	return c, path, nil
}

// Save writes the config to disk, creating the directory as needed. Returns the path.
func Save(c Config) (string, error) {
	path, err := getConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return path, fmt.Errorf("failed to create config directory: %v", err)
	}
	base := map[string]json.RawMessage{}
	if existing, readErr := os.ReadFile(path); readErr == nil {
		var tmp map[string]json.RawMessage
		if err := json.Unmarshal(existing, &tmp); err == nil {
			base = tmp
		}
	}

	marshaled, err := json.Marshal(c)
	if err != nil {
		return path, fmt.Errorf("failed to marshal config: %v", err)
	}
	incoming := map[string]json.RawMessage{}
	if err := json.Unmarshal(marshaled, &incoming); err != nil {
		return path, fmt.Errorf("failed to map config JSON: %v", err)
	}

	deepMergeJSON(base, incoming)

	mergedData, err := json.MarshalIndent(base, "", "  ")
	if err != nil {
		return path, fmt.Errorf("failed to marshal merged config: %v", err)
	}
	if err := os.WriteFile(path, mergedData, 0644); err != nil {
		return path, fmt.Errorf("failed to write config file: %v", err)
	}
	Set(c)
	return path, nil
}
