package config

import (
	"time"
)

// Config is the root configuration for the Market-Lens report engine.
type Config struct {
	Core      CoreConfig      `mapstructure:"core" yaml:"core" validate:"required"`
	Data      DataConfig      `mapstructure:"data" yaml:"data" validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm" yaml:"llm"`
	Search    SearchConfig    `mapstructure:"search" yaml:"search"`
	Retry     RetryConfig     `mapstructure:"retry" yaml:"retry"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
	Lifecycle LifecycleConfig `mapstructure:"lifecycle" yaml:"lifecycle"`
	Report    ReportConfig    `mapstructure:"report" yaml:"report"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Tracing   TracingConfig   `mapstructure:"tracing" yaml:"tracing"`
}

// CoreConfig contains core application settings.
type CoreConfig struct {
	// QuickMode trades answer quality for speed: shorter retry delays and a
	// faster, smaller underlying model.
	QuickMode bool `mapstructure:"quick_mode" yaml:"quick_mode"`

	// SectionDeadline bounds one full section run; worker slots still open when
	// it expires are recorded as timeout failures and compilation proceeds on
	// the partial state.
	SectionDeadline time.Duration `mapstructure:"section_deadline" yaml:"section_deadline" validate:"min=1s"`

	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// DataConfig contains dataset configuration. Path may point at a single CSV
// file or a directory of CSV files, each becoming one table.
type DataConfig struct {
	Path string `mapstructure:"path" yaml:"path" validate:"required"`
}

// LLMConfig contains LLM provider configuration.
type LLMConfig struct {
	// Provider selects the backend: "google", "groq", "ollama" or "mock".
	Provider string `mapstructure:"provider" yaml:"provider" validate:"oneof=google groq ollama mock"`

	// APIKey for the selected provider. Supports ${ENV_VAR} interpolation.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// Model overrides the provider's default model.
	Model string `mapstructure:"model" yaml:"model"`

	// QuickModel is used instead of Model when quick mode is active.
	QuickModel string `mapstructure:"quick_model" yaml:"quick_model"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible backends).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	Temperature float64 `mapstructure:"temperature" yaml:"temperature" validate:"min=0,max=2"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens" validate:"min=0"`
}

// SearchConfig contains web search configuration for the market worker.
type SearchConfig struct {
	// Endpoint is the search API endpoint.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// APIKey for the search API. Supports ${ENV_VAR} interpolation.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`

	// MaxResults caps the number of results included per query.
	MaxResults int `mapstructure:"max_results" yaml:"max_results" validate:"min=1,max=20"`

	// FetchPages enables retrieving each result page and extracting its text.
	FetchPages bool `mapstructure:"fetch_pages" yaml:"fetch_pages"`

	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"min=1s"`
}

// RetryConfig contains retry policy settings for worker invocations.
// Backoff is linear: after failed attempt n the controller waits base_delay * n,
// matching observed rate-limit recovery windows of the upstream APIs.
type RetryConfig struct {
	MaxAttempts    int           `mapstructure:"max_attempts" yaml:"max_attempts" validate:"min=1,max=10"`
	BaseDelay      time.Duration `mapstructure:"base_delay" yaml:"base_delay" validate:"min=1ms"`
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout" yaml:"attempt_timeout" validate:"min=1s"`

	// Quick-mode overrides.
	QuickMaxAttempts int           `mapstructure:"quick_max_attempts" yaml:"quick_max_attempts" validate:"min=1,max=10"`
	QuickBaseDelay   time.Duration `mapstructure:"quick_base_delay" yaml:"quick_base_delay" validate:"min=1ms"`
}

// SchedulerConfig contains execution strategy settings.
type SchedulerConfig struct {
	// Strategy selects the execution strategy: "sequential" or "parallel".
	Strategy string `mapstructure:"strategy" yaml:"strategy" validate:"oneof=sequential parallel"`

	// MaxParallel limits concurrently executing worker nodes under the
	// parallel strategy.
	MaxParallel int `mapstructure:"max_parallel" yaml:"max_parallel" validate:"min=1,max=100"`

	// TaskPause is the pause between worker invocations under the sequential
	// strategy, to respect external rate limits.
	TaskPause time.Duration `mapstructure:"task_pause" yaml:"task_pause"`

	// SectionPause is the pause inserted between sections in a batch run.
	SectionPause time.Duration `mapstructure:"section_pause" yaml:"section_pause"`
}

// LifecycleConfig contains memory watchdog settings.
type LifecycleConfig struct {
	// HeapCeilingMB is the heap size above which the worker registry is
	// recycled after a unit of work. Zero disables recycling.
	HeapCeilingMB uint64 `mapstructure:"heap_ceiling_mb" yaml:"heap_ceiling_mb"`

	// Cooldown is slept after a recycle to let memory stabilize.
	Cooldown time.Duration `mapstructure:"cooldown" yaml:"cooldown"`
}

// ReportConfig contains report sink settings.
type ReportConfig struct {
	// OutputDir receives report.md and report_dict.json.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Title is the top-level report heading.
	Title string `mapstructure:"title" yaml:"title"`

	// PlanPath optionally points at a YAML report plan overriding the
	// built-in section questions.
	PlanPath string `mapstructure:"plan_path" yaml:"plan_path"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
}

// TracingConfig contains tracing configuration.
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled" yaml:"enabled"`
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate" validate:"min=0,max=1"`

	// TraceFile receives exported spans; empty means stderr.
	TraceFile string `mapstructure:"trace_file" yaml:"trace_file"`
}
