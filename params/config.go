package params

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "dssm.yaml"

func setDefaults(v *viper.Viper) {
	v.SetDefault("window_size", Config.WindowSize)
	v.SetDefault("total_letter_grams", Config.TotalLetterGrams)
	v.SetDefault("k", Config.K)
	v.SetDefault("l", Config.L)
	v.SetDefault("j", Config.J)
	v.SetDefault("filter_length", Config.FilterLength)

	v.SetDefault("learning_rate", Config.LearningRate)
	v.SetDefault("adam_beta1", Config.AdamBeta1)
	v.SetDefault("adam_beta2", Config.AdamBeta2)
	v.SetDefault("adam_eps", Config.AdamEps)
	v.SetDefault("grad_clip", Config.GradClip)
	v.SetDefault("weight_decay", Config.WeightDecay)

	v.SetDefault("cosine_eps", Config.CosineEps)

	v.SetDefault("epochs", Config.Epochs)
	v.SetDefault("sample_size", Config.SampleSize)
	v.SetDefault("min_seq_len", Config.MinSeqLen)
	v.SetDefault("max_seq_len", Config.MaxSeqLen)
	v.SetDefault("seed", Config.Seed)

	v.SetDefault("train_log_path", Config.TrainLogPath)
}

// Load reads the configuration from path (optional), layered under DSSM_*
// environment variables and on top of the package defaults. An empty path
// means defaults + environment only; a missing explicit file is an error.
func Load(path string) (TrainingConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DSSM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return TrainingConfig{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg TrainingConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return TrainingConfig{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return TrainingConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// WriteDefault writes a starter YAML config with the package defaults.
// Refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if path == "" {
		path = DefaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := yaml.Marshal(Config)
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
