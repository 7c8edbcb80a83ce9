package models

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Settings represents application-wide settings
type Settings struct {
	StoryPrefix      string `json:"storyPrefix"`             // uppercased story number prefix, e.g. "TUNE"
	AutoSaveInterval int    `json:"autoSaveInterval"`        // fallback autosave interval in milliseconds
	Theme            Theme  `json:"theme"`                   // light, dark or system
	OpenAIAPIKey     string `json:"openaiApiKey,omitempty"`  // never included in exports
	MaxBackups       int    `json:"maxBackups,omitempty"`    // backup ring bound (1-50)
}
