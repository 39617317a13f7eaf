package config_test

import (
	"testing"
	"treningsboten/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestNewWithDefault(t *testing.T) {
	v := config.NewViperWithDefaults()

	assert.Equal(t, false, v.GetBool(config.DebugKey), "%s should be %t", config.DebugKey, false)
	assert.Equal(t, "Europe/Oslo", v.GetString(config.TimeLocationKey), "%s should be %s", config.TimeLocationKey, "Europe/Oslo")
	assert.Equal(t, config.JSONFileBackend, v.GetString(config.StorageBackendKey), "%s should be %s", config.StorageBackendKey, config.JSONFileBackend)
	assert.Equal(t, "~/.treningsboten", v.GetString(config.StoragePathKey), "%s should be %s", config.StoragePathKey, "~/.treningsboten")
	assert.Equal(t, ":3000", v.GetString(config.HTTPListenAddressKey), "%s should be %s", config.HTTPListenAddressKey, ":3000")
	assert.Equal(t, 100, v.GetInt(config.UserInfoCacheSizeKey), "%s should be %d", config.UserInfoCacheSizeKey, 100)
}

func TestLayerConfigWithDefaultsKeepsOverrides(t *testing.T) {
	v := viper.New()
	v.Set(config.StorageBackendKey, config.LevelDBBackend)

	v = config.LayerConfigWithDefaults(v)

	assert.Equal(t, config.LevelDBBackend, v.GetString(config.StorageBackendKey))
	assert.Equal(t, "Europe/Oslo", v.GetString(config.TimeLocationKey))
}

func TestGetTimeLocation(t *testing.T) {
	v := config.NewViperWithDefaults()

	timeLoc, err := config.GetTimeLocation(v)

	assert.Nil(t, err)
	assert.Equal(t, "Europe/Oslo", timeLoc.String())
}

func TestGetTimeLocationInvalid(t *testing.T) {
	v := config.NewViperWithDefaults()
	v.Set(config.TimeLocationKey, "Not/APlace")

	_, err := config.GetTimeLocation(v)

	assert.Error(t, err)
}

func TestGetStringListFromEnvStyleString(t *testing.T) {
	v := config.NewViperWithDefaults()
	v.Set(config.AllowedTokensKey, "ab12cd, ef34gh kl56mn")

	assert.Equal(t, []string{"ab12cd", "ef34gh", "kl56mn"}, config.GetStringList(v, config.AllowedTokensKey))
}

func TestGetStringListFromSlice(t *testing.T) {
	v := config.NewViperWithDefaults()
	v.Set(config.AllowedTokensKey, []string{"ab12cd"})

	assert.Equal(t, []string{"ab12cd"}, config.GetStringList(v, config.AllowedTokensKey))
}
