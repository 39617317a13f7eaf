// Package bot binds slack events and scheduled jobs to the treningsboten
// domain logic: it records threaded replies as repetition counts, resolves
// daily winners and posts prompts, standings and summaries to every active
// channel.
package bot

import (
	"math/rand"
	"time"
	"treningsboten/compose"
	"treningsboten/config"
	"treningsboten/metrics"
	"treningsboten/records"

	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"github.com/spf13/viper"
)

// Bot holds the services and collaborators driving treningsboten
type Bot struct {
	config   *viper.Viper
	logger   zerolog.Logger
	repo     *records.Repository
	composer *compose.Composer
	client   ChatClient
	profiles *profileLoader
	location *time.Location

	selfUserID string
	rng        *rand.Rand

	// now is the clock, replaceable in tests
	now func() time.Time
}

// New creates a Bot from its configuration and collaborators
func New(v *viper.Viper, logger zerolog.Logger, repo *records.Repository, composer *compose.Composer, client ChatClient) (b *Bot, err error) {
	location, err := config.GetTimeLocation(v)
	if err != nil {
		return nil, err
	}

	profiles, err := newProfileLoader(v, client)
	if err != nil {
		return nil, err
	}

	b = &Bot{
		config:     v,
		logger:     logger.With().Str("component", "bot").Logger(),
		repo:       repo,
		composer:   composer,
		client:     client,
		profiles:   profiles,
		location:   location,
		selfUserID: v.GetString(config.SlackBotUserIDKey),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	b.now = func() time.Time { return time.Now().In(b.location) }

	return b, nil
}

// send posts a message to a channel and returns the posted message's
// timestamp. Failures are counted and logged; callers abort their unit of
// work without retrying
func (b *Bot) send(channelID string, scenario string, message string) (timestamp string, err error) {
	_, timestamp, err = b.client.PostMessage(channelID, slack.MsgOptionText(message, false))
	if err != nil {
		metrics.SendErrors.Inc()
		b.logger.Error().Err(err).Str("channel", channelID).Str("scenario", scenario).Msg("failed to post message")
		return "", err
	}

	metrics.MessagesSent.WithLabelValues(scenario).Inc()

	return timestamp, nil
}

// sendInThread posts a threaded reply under the given thread timestamp
func (b *Bot) sendInThread(channelID string, threadTS string, scenario string, message string) (err error) {
	_, _, err = b.client.PostMessage(channelID, slack.MsgOptionText(message, false), slack.MsgOptionTS(threadTS))
	if err != nil {
		metrics.SendErrors.Inc()
		b.logger.Error().Err(err).Str("channel", channelID).Str("scenario", scenario).Msg("failed to post threaded message")
		return err
	}

	metrics.MessagesSent.WithLabelValues(scenario).Inc()

	return nil
}

// HandleMemberJoined processes a member_joined_channel event. When the new
// member is the bot itself, the channel becomes active and gets an empty
// thread index; otherwise the new member is welcomed
func (b *Bot) HandleMemberJoined(channelID string, userID string) {
	if userID == b.selfUserID {
		if err := b.repo.AddActiveChannel(channelID); err != nil {
			b.logger.Error().Err(err).Str("channel", channelID).Msg("failed to activate channel")
			return
		}

		if err := b.repo.EnsureThreadIndex(channelID); err != nil {
			b.logger.Error().Err(err).Str("channel", channelID).Msg("failed to initialize thread index")
			return
		}

		b.logger.Info().Str("channel", channelID).Msg("bot joined channel")
		b.send(channelID, "botWelcome", b.composer.BotWelcome())
		return
	}

	b.send(channelID, "memberWelcome", b.composer.MemberWelcome())
}
