package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del análisis.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	API      APIConfig      `yaml:"api"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Storage  StorageConfig  `yaml:"storage"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
}

// AnalysisConfig controla el muestreo y los filtros del pipeline.
type AnalysisConfig struct {
	PreGameOffsetMinutes int     `yaml:"pre_game_offset_minutes"` // cuánto antes del kickoff se muestrea
	LookbackWeeks        int     `yaml:"lookback_weeks"`          // ventana de histórico por token
	MinVolume            float64 `yaml:"min_volume"`              // legs con volumen ≤ esto se descartan
}

// APIConfig contiene los base URLs de las APIs.
type APIConfig struct {
	CLOBBase  string `yaml:"clob_base"`
	GammaBase string `yaml:"gamma_base"`
}

// CatalogConfig apunta al catálogo de equipos. Sin path se usa el catálogo
// EPL embebido.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// StorageConfig controla dónde se persisten los datos y la cache.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// OutputConfig controla el export tabular.
type OutputConfig struct {
	CSVPath string `yaml:"csv_path"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// PreGameOffset devuelve el offset pre-partido como time.Duration.
func (c *Config) PreGameOffset() time.Duration {
	return time.Duration(c.Analysis.PreGameOffsetMinutes) * time.Minute
}

// Lookback devuelve la ventana de histórico como time.Duration.
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.Analysis.LookbackWeeks) * 7 * 24 * time.Hour
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Analysis.PreGameOffsetMinutes <= 0 {
		cfg.Analysis.PreGameOffsetMinutes = 5
	}
	if cfg.Analysis.LookbackWeeks <= 0 {
		cfg.Analysis.LookbackWeeks = 4
	}
	if cfg.Analysis.MinVolume <= 0 {
		cfg.Analysis.MinVolume = 0.01
	}
	if cfg.API.CLOBBase == "" {
		cfg.API.CLOBBase = "https://clob.polymarket.com"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "pregame.db"
	}
	if cfg.Output.CSVPath == "" {
		cfg.Output.CSVPath = "epl_matches.csv"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
