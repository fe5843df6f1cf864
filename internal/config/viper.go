// Package config resolves settings that may come from viper or the raw
// process environment.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// TokenEnvVars lists the environment variables a GitHub token is read from,
// in order of precedence.
var TokenEnvVars = []string{"GITHUB_TOKEN", "GH_TOKEN"}

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	// Check OS env directly first
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	// If Viper doesn't have it but OS does, return OS value
	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// ResolveToken returns the credential to use for star operations.
// An explicit value wins, then the github_token setting, then TokenEnvVars.
// Surrounding whitespace is dropped.
func ResolveToken(explicit string) string {
	if token := strings.TrimSpace(explicit); token != "" {
		return token
	}
	if token := strings.TrimSpace(viper.GetString("github_token")); token != "" {
		return token
	}
	for _, name := range TokenEnvVars {
		if token := strings.TrimSpace(GetString(name)); token != "" {
			return token
		}
	}
	return ""
}
