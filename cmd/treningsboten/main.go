// treningsboten is a slack bot posting daily exercise prompts, tallying
// threaded repetition replies and publishing daily, weekly and monthly
// leaderboards, with a small token-protected read API on the side.
package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
	"github.com/spf13/viper"

	"treningsboten/api"
	"treningsboten/bot"
	"treningsboten/compose"
	"treningsboten/config"
	"treningsboten/records"
	"treningsboten/store"
)

// levelDBName is the database directory name under the storage path
const levelDBName = "treningsboten"

func main() {
	// a .env file is optional, the environment may already be set
	godotenv.Load()

	v := config.NewViperWithDefaults()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if v.GetBool(config.DebugKey) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	storer, err := newStorer(v)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open storage")
	}
	defer storer.Close()

	repo := records.NewRepository(storer)
	composer := compose.New(v)
	client := slack.New(v.GetString(config.SlackBotTokenKey))

	b, err := bot.New(v, logger, repo, composer, client)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create bot")
	}

	go func() {
		if err := b.StartScheduler(); err != nil {
			logger.Fatal().Err(err).Msg("scheduler failed to start")
		}
	}()

	server, err := api.NewServer(v, logger, repo, b)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create http server")
	}

	if err := server.Start(v.GetString(config.HTTPListenAddressKey)); err != nil {
		logger.Fatal().Err(err).Msg("http server terminated")
	}
}

func newStorer(v *viper.Viper) (storer store.DocumentStorer, err error) {
	storagePath := v.GetString(config.StoragePathKey)

	switch backend := v.GetString(config.StorageBackendKey); backend {
	case config.JSONFileBackend:
		return store.NewJSONFileStore(storagePath)
	case config.LevelDBBackend:
		return store.NewLevelDB(levelDBName, storagePath)
	default:
		return nil, errors.Errorf("unsupported storage backend [%s], must be one of [%s, %s]", backend, config.JSONFileBackend, config.LevelDBBackend)
	}
}
