package domain

// RatingMode selects how review ratings are presented to the learner.
// The scheduler always works on the 0-5 quality scale; simple mode is a
// presentation-layer reduction of it.
type RatingMode string

const (
	RatingModeSimple   RatingMode = "simple"
	RatingModeDetailed RatingMode = "detailed"
)

// Limits for the daily review setting.
const (
	MinDailyLimit = 1
	MaxDailyLimit = 500
)

// Settings is the validated configuration record for a deck.
type Settings struct {
	DailyLimit      int        `json:"dailyLimit"      validate:"gte=1,lte=500"`
	RatingMode      RatingMode `json:"ratingMode"      validate:"oneof=simple detailed"`
	AutoCaptureChat bool       `json:"autoCaptureChat"`
	AutoCaptureDojo bool       `json:"autoCaptureDojo"`
}

// DefaultSettings returns the settings a fresh deck starts with.
func DefaultSettings() Settings {
	return Settings{
		DailyLimit:      20,
		RatingMode:      RatingModeDetailed,
		AutoCaptureChat: true,
		AutoCaptureDojo: true,
	}
}

// AutoCapture reports whether generated candidates from the given
// source should be ingested automatically.
func (s Settings) AutoCapture(src Source) bool {
	switch src {
	case SourceChat:
		return s.AutoCaptureChat
	case SourceDojo:
		return s.AutoCaptureDojo
	default:
		return true
	}
}

// SettingsPatch is a partial update to Settings. Nil fields leave the
// current value untouched.
type SettingsPatch struct {
	DailyLimit      *int    `json:"dailyLimit,omitempty"`
	RatingMode      *string `json:"ratingMode,omitempty"`
	AutoCaptureChat *bool   `json:"autoCaptureChat,omitempty"`
	AutoCaptureDojo *bool   `json:"autoCaptureDojo,omitempty"`
}
