package audit

import "fmt"

// Config holds the thresholds used by the audit checks. The defaults are
// empirically chosen and kept overridable.
type Config struct {
	// OptionCount is the canonical number of options per question.
	OptionCount int `yaml:"option_count"`

	// MaxOptions is the largest option count tolerated without an issue.
	// Counts above it are reported as HIGH.
	MaxOptions int `yaml:"max_options"`

	// MinPromptLength is the hard floor for trimmed prompt length (CRITICAL).
	MinPromptLength int `yaml:"min_prompt_length"`

	// ShortPromptLength is the upper bound of the HIGH "short prompt" band.
	ShortPromptLength int `yaml:"short_prompt_length"`

	// Placeholders are case-insensitive substrings that mark unfinished text.
	Placeholders []string `yaml:"placeholders"`

	// MinExplanationLength is the minimum trimmed explanation length.
	MinExplanationLength int `yaml:"min_explanation_length"`

	// StandoutMinLength is the absolute floor the correct option must exceed
	// before the length-standout check applies.
	StandoutMinLength int `yaml:"standout_min_length"`

	// StandoutMultiplier is how many times longer than the distractor mean
	// the correct option must be to be flagged.
	StandoutMultiplier float64 `yaml:"standout_multiplier"`

	// NearDuplicatePunctuation is the set of characters stripped before
	// comparing options for near-duplicates.
	NearDuplicatePunctuation string `yaml:"near_duplicate_punctuation"`

	// NearDuplicateMinLength: normalized options must be longer than this.
	NearDuplicateMinLength int `yaml:"near_duplicate_min_length"`

	// DuplicateTextMinLength excludes shorter prompts from duplicate-text
	// detection.
	DuplicateTextMinLength int `yaml:"duplicate_text_min_length"`

	// BiasMinRecords is the smallest exam the answer-bias check considers.
	BiasMinRecords int `yaml:"bias_min_records"`

	// BiasThreshold is the share of records (strictly exceeded) a single
	// correct-answer position may hold.
	BiasThreshold float64 `yaml:"bias_threshold"`
}

// DefaultConfig returns the standard audit thresholds.
func DefaultConfig() Config {
	return Config{
		OptionCount:              4,
		MaxOptions:               5,
		MinPromptLength:          15,
		ShortPromptLength:        30,
		Placeholders:             []string{"todo", "placeholder", "lorem ipsum", "fixme"},
		MinExplanationLength:     20,
		StandoutMinLength:        50,
		StandoutMultiplier:       3.0,
		NearDuplicatePunctuation: `.,;:!?'"()-`,
		NearDuplicateMinLength:   2,
		DuplicateTextMinLength:   20,
		BiasMinRecords:           20,
		BiasThreshold:            0.40,
	}
}

// Validate reports the first inconsistent threshold.
func (c Config) Validate() error {
	switch {
	case c.OptionCount < 2:
		return fmt.Errorf("option_count must be >= 2, got %d", c.OptionCount)
	case c.MaxOptions < c.OptionCount:
		return fmt.Errorf("max_options (%d) must be >= option_count (%d)", c.MaxOptions, c.OptionCount)
	case c.MinPromptLength < 0 || c.ShortPromptLength < c.MinPromptLength:
		return fmt.Errorf("prompt bands invalid: min %d, short %d", c.MinPromptLength, c.ShortPromptLength)
	case c.StandoutMultiplier <= 0:
		return fmt.Errorf("standout_multiplier must be > 0, got %g", c.StandoutMultiplier)
	case c.BiasThreshold <= 0 || c.BiasThreshold > 1:
		return fmt.Errorf("bias_threshold must be in (0, 1], got %g", c.BiasThreshold)
	}
	return nil
}
