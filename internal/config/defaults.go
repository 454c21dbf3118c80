package config

import (
	"time"
)

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			QuickMode:       false,
			SectionDeadline: 10 * time.Minute,
		},
		Data: DataConfig{
			Path: "data",
		},
		LLM: LLMConfig{
			Provider:    "google",
			Model:       "gemini-2.0-flash-lite",
			QuickModel:  "llama-3.1-8b-instant",
			Temperature: 0,
			MaxTokens:   0,
		},
		Search: SearchConfig{
			Endpoint:   "https://api.tavily.com/search",
			MaxResults: 5,
			FetchPages: false,
			Timeout:    30 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts:      3,
			BaseDelay:        5 * time.Second,
			AttemptTimeout:   2 * time.Minute,
			QuickMaxAttempts: 2,
			QuickBaseDelay:   2 * time.Second,
		},
		Scheduler: SchedulerConfig{
			Strategy:     "parallel",
			MaxParallel:  10,
			TaskPause:    5 * time.Second,
			SectionPause: 10 * time.Second,
		},
		Lifecycle: LifecycleConfig{
			HeapCeilingMB: 4096,
			Cooldown:      5 * time.Second,
		},
		Report: ReportConfig{
			OutputDir: "reports",
			Title:     "Marketing Report",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Tracing: TracingConfig{
			Enabled:    false,
			SampleRate: 1,
		},
	}
}

// EffectiveRetry resolves the retry settings for the active mode.
func (c *Config) EffectiveRetry() (maxAttempts int, baseDelay time.Duration) {
	if c.Core.QuickMode {
		return c.Retry.QuickMaxAttempts, c.Retry.QuickBaseDelay
	}
	return c.Retry.MaxAttempts, c.Retry.BaseDelay
}

// EffectiveModel resolves the model name for the active mode.
func (c *Config) EffectiveModel() string {
	if c.Core.QuickMode && c.LLM.QuickModel != "" {
		return c.LLM.QuickModel
	}
	return c.LLM.Model
}
