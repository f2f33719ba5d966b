package models

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

type Preferences struct {
	Theme    string `json:"theme"`
	Units    string `json:"units"`
	Language string `json:"language"`
}

type PreferencesUpdate struct {
	Theme    *string `json:"theme,omitempty" validate:"omitempty,oneof=light dark system"`
	Units    *string `json:"units,omitempty" validate:"omitempty,oneof=metric imperial"`
	Language *string `json:"language,omitempty" validate:"omitempty,min=2,max=8"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:    ThemeSystem,
		Units:    UnitsMetric,
		Language: "en",
	}
}
