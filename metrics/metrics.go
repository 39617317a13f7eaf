// Package metrics holds the prometheus collectors exposed on /metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RepliesRecorded counts threaded replies successfully scored as repetitions
	RepliesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treningsboten_replies_recorded_total",
		Help: "Threaded replies recorded as repetition counts",
	})

	// RepliesRejected counts replies dropped before scoring, by reason
	RepliesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treningsboten_replies_rejected_total",
		Help: "Threaded replies rejected before scoring",
	}, []string{"reason"})

	// MessagesSent counts messages posted to slack, by scenario
	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treningsboten_messages_sent_total",
		Help: "Messages posted to slack channels",
	}, []string{"scenario"})

	// SendErrors counts failed slack posts
	SendErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treningsboten_send_errors_total",
		Help: "Failed attempts to post a message to slack",
	})

	// JobRuns counts scheduled job invocations, by job name
	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treningsboten_job_runs_total",
		Help: "Scheduled job invocations",
	}, []string{"job"})

	// APIRequests counts read API requests, by outcome
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treningsboten_api_requests_total",
		Help: "Read API requests",
	}, []string{"outcome"})
)

// Rejection reasons for RepliesRejected
const (
	ReasonParseFailure  = "parse_failure"
	ReasonLateReply     = "late_reply"
	ReasonUnknownThread = "unknown_thread"
)
