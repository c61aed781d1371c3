// Package config provides configuration helpers for go-lina commands.
package config

import "os"

// Default service configuration.
const (
	DefaultServerPort = "5001"
	DefaultServerURL  = "http://localhost:5001"
)

// ServerPort returns the backend listen port from PORT, or the default.
func ServerPort() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return DefaultServerPort
}

// ServerURL returns the backend base URL from LINA_SERVER_URL, or the default.
func ServerURL() string {
	if u := os.Getenv("LINA_SERVER_URL"); u != "" {
		return u
	}
	return DefaultServerURL
}

// DatabaseURL returns the Postgres connection string from DATABASE_URL.
// Empty means chat history is kept in memory only.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// WitToken returns the Wit.ai API token from WIT_API_TOKEN.
// Empty disables advanced mode on the backend.
func WitToken() string {
	return os.Getenv("WIT_API_TOKEN")
}

// DeepAIKey returns the image recognition API key from DEEPAI_API_KEY.
func DeepAIKey() string {
	return os.Getenv("DEEPAI_API_KEY")
}

// SpeechURL returns the streaming speech recognition endpoint from
// LINA_SPEECH_URL. Empty disables voice input.
func SpeechURL() string {
	return os.Getenv("LINA_SPEECH_URL")
}
