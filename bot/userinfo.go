package bot

import (
	"fmt"
	"treningsboten/config"
	"treningsboten/records"

	lru "github.com/hashicorp/golang-lru"
	"github.com/slack-go/slack"
	"github.com/spf13/viper"
)

// profileLoader fetches slack user profiles through an ARC cache so the
// wholesale user info refresh doesn't re-fetch users shared between channels.
// Caching is disabled when the configured cache size is 0
type profileLoader struct {
	loader profileGetter
	cache  *lru.ARCCache
}

func newProfileLoader(v *viper.Viper, loader profileGetter) (p *profileLoader, err error) {
	p = &profileLoader{loader: loader}

	size := v.GetInt(config.UserInfoCacheSizeKey)
	if size > 0 {
		p.cache, err = lru.NewARC(size)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Get returns the profile for a user id, from cache when present
func (p *profileLoader) Get(userID string) (profile records.Profile, err error) {
	if p.cache != nil {
		if cached, exists := p.cache.Get(userID); exists {
			profile, ok := cached.(records.Profile)
			if !ok {
				return records.Profile{}, fmt.Errorf("error converting cached value for user id [%s]", userID)
			}

			return profile, nil
		}
	}

	loaded, err := p.loader.GetUserProfile(&slack.GetUserProfileParameters{UserID: userID})
	if err != nil {
		return records.Profile{}, err
	}

	profile = asProfile(loaded)

	if p.cache != nil {
		p.cache.Add(userID, profile)
	}

	return profile, nil
}

// asProfile maps a slack profile to the cached record form, falling back to
// the first non-empty name variant
func asProfile(up *slack.UserProfile) (profile records.Profile) {
	name := up.RealName
	if name == "" {
		name = up.RealNameNormalized
	}

	displayName := up.DisplayName
	if displayName == "" {
		displayName = up.DisplayNameNormalized
	}

	return records.Profile{
		Name:        name,
		DisplayName: displayName,
		Images: records.ProfileImages{
			Image48:  up.Image48,
			Image72:  up.Image72,
			Image192: up.Image192,
			Image512: up.Image512,
		},
	}
}
