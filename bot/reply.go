package bot

import (
	"strconv"
	"strings"
	"treningsboten/dates"
	"treningsboten/metrics"
)

// HandleReply processes a threaded message event. The thread timestamp is
// resolved to the calendar date its prompt was posted on; the reply text is
// parsed as a repetition count and added to that date's tally. Replies that
// arrive on a later day than the thread's date are acknowledged in-thread but
// never scored
func (b *Bot) HandleReply(channelID string, threadTS string, userID string, text string, messageTS string) {
	if userID == "" || userID == b.selfUserID {
		return
	}

	date, tracked, err := b.repo.DateForThread(channelID, threadTS)
	if err != nil {
		b.logger.Error().Err(err).Str("channel", channelID).Msg("failed to resolve thread date")
		return
	}

	if !tracked {
		metrics.RepliesRejected.WithLabelValues(metrics.ReasonUnknownThread).Inc()
		return
	}

	reps, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || reps < 0 {
		// not a repetition count, nothing to tell the user
		metrics.RepliesRejected.WithLabelValues(metrics.ReasonParseFailure).Inc()
		return
	}

	replyTime, err := dates.TimeOfSlackTimestamp(messageTS, b.location)
	if err != nil {
		b.logger.Error().Err(err).Str("channel", channelID).Str("ts", messageTS).Msg("unparseable message timestamp")
		return
	}

	if replyTime.Format(dates.ISODate) != date {
		metrics.RepliesRejected.WithLabelValues(metrics.ReasonLateReply).Inc()
		b.sendInThread(channelID, threadTS, "lateReply", b.composer.LateReplyNotice(userID, date))
		return
	}

	if err := b.repo.AddReps(channelID, date, userID, reps); err != nil {
		b.logger.Error().Err(err).Str("channel", channelID).Str("user", userID).Msg("failed to record repetitions")
		return
	}

	metrics.RepliesRecorded.Inc()
	b.logger.Debug().Str("channel", channelID).Str("user", userID).Str("date", date).Int("reps", reps).Msg("recorded repetitions")
}
