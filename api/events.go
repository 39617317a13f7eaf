package api

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"treningsboten/config"
	"treningsboten/metrics"
)

// handleSlackEvents receives the slack events webhook: the request signature
// is verified against the signing secret, the url_verification handshake is
// answered inline and callback events are routed to the bot
func (s *Server) handleSlackEvents(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		metrics.APIRequests.WithLabelValues("bad_request").Inc()
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	verifier, err := slack.NewSecretsVerifier(r.Header, s.config.GetString(config.SlackSigningSecretKey))
	if err != nil {
		metrics.APIRequests.WithLabelValues("bad_request").Inc()
		http.Error(w, "missing signature headers", http.StatusBadRequest)
		return
	}

	if _, err = verifier.Write(body); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err = verifier.Ensure(); err != nil {
		metrics.APIRequests.WithLabelValues("forbidden").Inc()
		s.logger.Warn().Err(err).Msg("rejected slack event with invalid signature")
		http.Error(w, "invalid signature", http.StatusForbidden)
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		metrics.APIRequests.WithLabelValues("bad_request").Inc()
		http.Error(w, "unparseable event", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			http.Error(w, "unparseable challenge", http.StatusBadRequest)
			return
		}

		metrics.APIRequests.WithLabelValues("ok").Inc()
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(challenge.Challenge))

	case slackevents.CallbackEvent:
		s.routeCallbackEvent(event)
		metrics.APIRequests.WithLabelValues("ok").Inc()
		w.WriteHeader(http.StatusOK)

	default:
		w.WriteHeader(http.StatusOK)
	}
}

// routeCallbackEvent dispatches the inner callback event. Only threaded
// messages count towards the tallies; top-level channel chatter is ignored
func (s *Server) routeCallbackEvent(event slackevents.EventsAPIEvent) {
	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		if ev.ThreadTimeStamp == "" || ev.ThreadTimeStamp == ev.TimeStamp {
			return
		}

		s.events.HandleReply(ev.Channel, ev.ThreadTimeStamp, ev.User, ev.Text, ev.TimeStamp)

	case *slackevents.MemberJoinedChannelEvent:
		s.events.HandleMemberJoined(ev.Channel, ev.User)
	}
}
