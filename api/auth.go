package api

import (
	"strings"

	"github.com/spf13/viper"

	"treningsboten/config"
)

// normalize canonicalizes a token or channel alias before comparison: trimmed,
// dashes and spaces stripped, lowercased. "AB-12 cd" and "ab12cd" are the same
// credential
func normalize(value string) (normalized string) {
	normalized = strings.TrimSpace(value)
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.ReplaceAll(normalized, " ", "")

	return strings.ToLower(normalized)
}

// validateToken reports whether a presented token matches the allow-list, both
// sides normalized
func (s *Server) validateToken(token string) (valid bool) {
	return matchesAllowList(s.config, config.AllowedTokensKey, token)
}

// validateChannelAlias reports whether a presented channel alias is
// allow-listed
func (s *Server) validateChannelAlias(alias string) (valid bool) {
	return matchesAllowList(s.config, config.AllowedChannelAliasesKey, alias)
}

func matchesAllowList(v *viper.Viper, key string, presented string) (valid bool) {
	if presented == "" {
		return false
	}

	normalized := normalize(presented)
	for _, allowed := range config.GetStringList(v, key) {
		if normalize(allowed) == normalized {
			return true
		}
	}

	return false
}
