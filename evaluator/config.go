package evaluator

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/leaf/pkg/errors"
)

// Config は Evaluator の構築時設定。YAML から読み込める。
type Config struct {
	// ExplanationSamples は各説明手法のサンプル数（LIMEの摂動数、SHAPの連合数）
	ExplanationSamples int `yaml:"explanation_samples"`
	// BackgroundSize は層化抽出する背景サンプルの行数
	BackgroundSize int `yaml:"background_size"`
	// Seed は背景抽出・近傍・各反復の乱数系列を決める
	Seed uint64 `yaml:"seed"`
	// Explain は ExplainInstance の既定値
	Explain ExplainConfig `yaml:"explain"`
}

// ExplainConfig は ExplainInstance 1回分の設定
type ExplainConfig struct {
	NumReps             int    `yaml:"num_reps"`
	NumFeatures         int    `yaml:"num_features"`
	NeighborhoodSamples int    `yaml:"neighborhood_samples"`
	UseCovMatrix        bool   `yaml:"use_cov_matrix"`
	Verbose             bool   `yaml:"verbose"`
	FigureDir           string `yaml:"figure_dir"`
	Workers             int    `yaml:"workers"`
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		ExplanationSamples: 5000,
		BackgroundSize:     100,
		Seed:               10,
		Explain: ExplainConfig{
			NumReps:             50,
			NumFeatures:         4,
			NeighborhoodSamples: 10000,
			Workers:             1,
		},
	}
}

// LoadConfig は YAML を読み込み、指定のない項目はデフォルト値のままにする
//
// 例:
//
//	explanation_samples: 2000
//	explain:
//	  num_reps: 20
//	  num_features: 3
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "leaf: decoding config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は設定値を検証する
func (c Config) Validate() error {
	if c.ExplanationSamples < 2 {
		return errors.NewValidationError("explanation_samples", "must be at least 2", c.ExplanationSamples)
	}
	if c.BackgroundSize < 1 {
		return errors.NewValidationError("background_size", "must be positive", c.BackgroundSize)
	}
	return c.Explain.Validate()
}

// Validate は反復設定を検証する。特徴量数の上限は ExplainInstance で検査する。
func (c ExplainConfig) Validate() error {
	switch {
	case c.NumReps < 1:
		return errors.NewValidationError("num_reps", "must be positive", c.NumReps)
	case c.NumFeatures < 1:
		return errors.NewValidationError("num_features", "must be positive", c.NumFeatures)
	case c.NeighborhoodSamples < 1:
		return errors.NewValidationError("neighborhood_samples", "must be positive", c.NeighborhoodSamples)
	case c.Workers < 1:
		return errors.NewValidationError("workers", "must be positive", c.Workers)
	}
	return nil
}
