package params

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.K != Config.K || cfg.L != Config.L || cfg.J != Config.J {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.WordDepth() != Config.WindowSize*Config.TotalLetterGrams {
		t.Fatalf("WordDepth=%d, want %d", cfg.WordDepth(), Config.WindowSize*Config.TotalLetterGrams)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DSSM_EPOCHS", "9")
	t.Setenv("DSSM_LEARNING_RATE", "0.5")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Epochs != 9 {
		t.Fatalf("Epochs=%d, want 9", cfg.Epochs)
	}
	if cfg.LearningRate != 0.5 {
		t.Fatalf("LearningRate=%g, want 0.5", cfg.LearningRate)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dssm.yaml")
	content := "k: 7\nl: 3\nj: 2\ntotal_letter_grams: 11\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.K != 7 || cfg.L != 3 || cfg.J != 2 || cfg.TotalLetterGrams != 11 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	// untouched keys keep their defaults
	if cfg.WindowSize != Config.WindowSize {
		t.Fatalf("WindowSize=%d, want default %d", cfg.WindowSize, Config.WindowSize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dssm.yaml")
	if err := os.WriteFile(path, []byte("j: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for j=0")
	}
}

func TestValidate(t *testing.T) {
	good := Config
	if err := good.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*TrainingConfig)
	}{
		{"zero window", func(c *TrainingConfig) { c.WindowSize = 0 }},
		{"zero buckets", func(c *TrainingConfig) { c.TotalLetterGrams = 0 }},
		{"zero k", func(c *TrainingConfig) { c.K = 0 }},
		{"zero l", func(c *TrainingConfig) { c.L = 0 }},
		{"zero j", func(c *TrainingConfig) { c.J = 0 }},
		{"wide filter", func(c *TrainingConfig) { c.FilterLength = 3 }},
		{"bad cosine eps", func(c *TrainingConfig) { c.CosineEps = 0 }},
		{"bad seq range", func(c *TrainingConfig) { c.MinSeqLen = 5; c.MaxSeqLen = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dssm.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Config {
		t.Fatalf("round-tripped config differs: %+v", cfg)
	}
	if err := WriteDefault(path); err == nil {
		t.Fatal("expected an error when the file already exists")
	}
}
