package api

import (
	"encoding/json"
	"net/http"

	"treningsboten/config"
	"treningsboten/metrics"
	"treningsboten/records"
	"treningsboten/tally"
)

// channelStats is the response of GET /api/channel, the full summarized view
// of one channel for the companion frontend
type channelStats struct {
	MonthlySummary       map[string][]tally.Entry `json:"monthlySummary"`
	TopPerformersAllTime []tally.Entry            `json:"topPerformersAllTime"`
	UsersInfo            records.UserInfoCache    `json:"usersInfo"`
	ScoreToday           []tally.Entry            `json:"scoreToday"`
}

// handleChannel serves the summarized stats of one channel. The caller
// authenticates with an allow-listed token; the channel is addressed by id or
// by an allow-listed alias resolving to the bot's home channel
func (s *Server) handleChannel(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if !s.validateToken(token) {
		metrics.APIRequests.WithLabelValues("forbidden").Inc()
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}

	channelID := r.URL.Query().Get("channelId")
	if s.validateChannelAlias(channelID) {
		channelID = s.config.GetString(config.DefaultChannelIDKey)
	}

	record, err := s.repo.Insights(channelID)
	if err != nil {
		metrics.APIRequests.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Str("channel", channelID).Msg("failed to load insights")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if len(record) == 0 {
		metrics.APIRequests.WithLabelValues("not_found").Inc()
		http.Error(w, "no data for channel", http.StatusNotFound)
		return
	}

	users, err := s.repo.UserInfo(channelID)
	if err != nil {
		metrics.APIRequests.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Str("channel", channelID).Msg("failed to load user info")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	stats := channelStats{
		MonthlySummary:       tally.SummarizeMonthly(record, users),
		TopPerformersAllTime: tally.TopPerformers(record, users),
		UsersInfo:            users,
		ScoreToday:           tally.SummarizeToday(record, users, s.today()),
	}

	metrics.APIRequests.WithLabelValues("ok").Inc()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode channel stats")
	}
}
