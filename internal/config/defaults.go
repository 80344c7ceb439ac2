// Package config provides configuration loading and defaults for healthwatch.
package config

import (
	"github.com/blackwell-systems/healthwatch/internal/chat"
	"github.com/blackwell-systems/healthwatch/internal/completion"
	"github.com/blackwell-systems/healthwatch/internal/health"
)

// DefaultConfigDir is the default location for healthwatch configuration.
const DefaultConfigDir = "~/.config/healthwatch"

// DefaultDBName is the filename for the SQLite sample database.
const DefaultDBName = "health.db"

// EnvPrefix prefixes environment overrides, e.g. HEALTHWATCH_COMPLETION_API_KEY.
const EnvPrefix = "HEALTHWATCH"

// DefaultCompletion holds the default remote endpoint settings. The endpoint
// and key have no useful default and must be configured.
var DefaultCompletion = Completion{
	APIKeyHeader: completion.DefaultAPIKeyHeader,
	SystemPrompt: completion.DefaultSystemPrompt,
}

// DefaultPrompt holds the default prompt template.
var DefaultPrompt = Prompt{
	Template: chat.DefaultPromptTemplate,
}

// DefaultQuery holds the default per-metric query bounds.
var DefaultQuery = Query{
	WindowMonths: health.DefaultWindowMonths,
	SampleLimit:  health.DefaultSampleLimit,
}

// DefaultCalories holds the default day bucketing for the calorie estimate.
var DefaultCalories = Calories{
	DayLayout: health.DefaultDayLayout,
	Timezone:  "Local",
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color:  true,
	Locale: "en",
}
