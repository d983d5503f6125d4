package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconError    = "❌"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	ProgressLabelFormat = "%d%%"
)

// Layout sizing
const (
	ThumbnailWidth  float32 = 160
	ThumbnailHeight float32 = 90
	LogoSize        float32 = 32
	QualityWidth    float32 = 120
)
