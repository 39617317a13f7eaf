// Package config defines the treningsboten configuration keys and helpers to
// build a layered viper configuration (defaults, config file, environment)
package config

import (
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Configuration keys. All of them can be set from the environment with the
// TRENINGSBOTEN_ prefix (i.e. TRENINGSBOTEN_SLACKBOTTOKEN)
const (
	// DebugKey is the key for debug mode, bool value
	DebugKey = "debug"

	// TimeLocationKey is the key for the bot's home timezone, string value
	TimeLocationKey = "timeLocation"

	// SlackSigningSecretKey is the key for the slack app signing secret used to verify webhook requests, string value
	SlackSigningSecretKey = "slackSigningSecret"

	// SlackBotTokenKey is the key for the slack bot token, string value
	SlackBotTokenKey = "slackBotToken"

	// SlackBotUserIDKey is the key for the bot's own slack user id, string value
	SlackBotUserIDKey = "slackBotUserId"

	// DefaultChannelIDKey is the key for the bot's home channel id, string value
	DefaultChannelIDKey = "defaultChannelId"

	// AllowedTokensKey is the key for the read API token allow-list, list of strings
	AllowedTokensKey = "allowedTokens"

	// AllowedChannelAliasesKey is the key for the channel aliases accepted by the read API, list of strings
	AllowedChannelAliasesKey = "allowedChannelAliases"

	// StorageBackendKey selects the persistence backend, "jsonfile" or "leveldb"
	StorageBackendKey = "storageBackend"

	// StoragePathKey is the key for the storage root directory, string value
	StoragePathKey = "storagePath"

	// HTTPListenAddressKey is the key for the HTTP server listen address, string value
	HTTPListenAddressKey = "httpListenAddress"

	// UserInfoCacheSizeKey is the number of entries to keep in the user profile cache, int value. 0 disables caching
	UserInfoCacheSizeKey = "userInfoCacheSize"
)

// Storage backend values
const (
	JSONFileBackend = "jsonfile"
	LevelDBBackend  = "leveldb"
)

const envPrefix = "TRENINGSBOTEN"

// NewViperWithDefaults creates a new viper instance with the default
// configuration and environment binding set up
func NewViperWithDefaults() (v *viper.Viper) {
	return LayerConfigWithDefaults(viper.New())
}

// LayerConfigWithDefaults layers the default values and environment binding on
// an existing viper instance, keeping any values already set
func LayerConfigWithDefaults(v *viper.Viper) (layered *viper.Viper) {
	v.SetDefault(DebugKey, false)
	v.SetDefault(TimeLocationKey, "Europe/Oslo")
	v.SetDefault(StorageBackendKey, JSONFileBackend)
	v.SetDefault(StoragePathKey, "~/.treningsboten")
	v.SetDefault(HTTPListenAddressKey, ":3000")
	v.SetDefault(UserInfoCacheSizeKey, 100)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// GetTimeLocation validates and loads the time location from the
// configuration value
func GetTimeLocation(v *viper.Viper) (timeLoc *time.Location, err error) {
	locationID := v.GetString(TimeLocationKey)

	return time.LoadLocation(locationID)
}

// GetStringList returns a list-valued configuration entry. Environment
// variables hold lists as one comma or space separated string, so a raw
// string value is split accordingly
func GetStringList(v *viper.Viper, key string) (values []string) {
	raw := v.Get(key)

	if s, ok := raw.(string); ok {
		return strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ' '
		})
	}

	return cast.ToStringSlice(raw)
}
