package params

import "fmt"

// TrainingConfig collects every constant shared by the encoders, the scoring
// head and the training loop. WordDepth is derived, never set directly.
type TrainingConfig struct {
	// Input feature space
	WindowSize       int `mapstructure:"window_size" yaml:"window_size"`               // words per contextual window
	TotalLetterGrams int `mapstructure:"total_letter_grams" yaml:"total_letter_grams"` // trigram hash buckets per word

	// Model widths
	K            int `mapstructure:"k" yaml:"k"` // per-position conv features
	L            int `mapstructure:"l" yaml:"l"` // semantic embedding width
	J            int `mapstructure:"j" yaml:"j"` // negative documents per example
	FilterLength int `mapstructure:"filter_length" yaml:"filter_length"`

	// Optimizer
	LearningRate float64 `mapstructure:"learning_rate" yaml:"learning_rate"`
	AdamBeta1    float64 `mapstructure:"adam_beta1" yaml:"adam_beta1"`
	AdamBeta2    float64 `mapstructure:"adam_beta2" yaml:"adam_beta2"`
	AdamEps      float64 `mapstructure:"adam_eps" yaml:"adam_eps"`
	GradClip     float64 `mapstructure:"grad_clip" yaml:"grad_clip"`       // <=0 disables
	WeightDecay  float64 `mapstructure:"weight_decay" yaml:"weight_decay"` // weights only, never biases or gamma

	// Numerical guards
	CosineEps float64 `mapstructure:"cosine_eps" yaml:"cosine_eps"` // cosine denominator clamp

	// Training loop
	Epochs     int   `mapstructure:"epochs" yaml:"epochs"`
	SampleSize int   `mapstructure:"sample_size" yaml:"sample_size"` // synthetic examples per epoch
	MinSeqLen  int   `mapstructure:"min_seq_len" yaml:"min_seq_len"`
	MaxSeqLen  int   `mapstructure:"max_seq_len" yaml:"max_seq_len"`
	Seed       int64 `mapstructure:"seed" yaml:"seed"`

	TrainLogPath string `mapstructure:"train_log_path" yaml:"train_log_path"`
}

// WordDepth is the width of one input position: a window of WindowSize words,
// each hashed into TotalLetterGrams trigram buckets.
func (c TrainingConfig) WordDepth() int {
	return c.WindowSize * c.TotalLetterGrams
}

// Validate rejects configurations the model cannot be built from.
func (c TrainingConfig) Validate() error {
	switch {
	case c.WindowSize < 1:
		return fmt.Errorf("window_size must be >= 1, got %d", c.WindowSize)
	case c.TotalLetterGrams < 1:
		return fmt.Errorf("total_letter_grams must be >= 1, got %d", c.TotalLetterGrams)
	case c.K < 1:
		return fmt.Errorf("k must be >= 1, got %d", c.K)
	case c.L < 1:
		return fmt.Errorf("l must be >= 1, got %d", c.L)
	case c.J < 1:
		return fmt.Errorf("j must be >= 1, got %d", c.J)
	case c.FilterLength != 1:
		// The "convolution" is a width-1 per-position transform; wider
		// filters are not implemented.
		return fmt.Errorf("filter_length must be 1, got %d", c.FilterLength)
	case c.CosineEps <= 0:
		return fmt.Errorf("cosine_eps must be > 0, got %g", c.CosineEps)
	case c.MinSeqLen < 1 || c.MaxSeqLen < c.MinSeqLen:
		return fmt.Errorf("bad sequence length range [%d, %d]", c.MinSeqLen, c.MaxSeqLen)
	}
	return nil
}

// Reasonable defaults for small experiments. K/L/J follow the usual DSSM
// paper numbers; the letter-gram space is kept small so the synthetic demo
// trains in seconds.
var Config = TrainingConfig{
	WindowSize:       3,
	TotalLetterGrams: 1000,
	K:                300,
	L:                128,
	J:                4,
	FilterLength:     1,

	LearningRate: 0.001,
	AdamBeta1:    0.9,
	AdamBeta2:    0.999,
	AdamEps:      1e-8,
	GradClip:     1.0,
	WeightDecay:  0.0,

	CosineEps: 1e-8,

	Epochs:     5,
	SampleSize: 64,
	MinSeqLen:  1,
	MaxSeqLen:  10,
	Seed:       42,

	TrainLogPath: "training_log.csv",
}
