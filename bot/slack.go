package bot

import (
	"github.com/slack-go/slack"
)

// messagePoster is implemented by any value that has the PostMessage method.
// The main purpose is a slight decoupling of the slack.Client so the bot's
// jobs and handlers can be tested without a live slack workspace.
//
// slack.Client implements this interface
type messagePoster interface {
	PostMessage(channelID string, options ...slack.MsgOption) (respChannel string, respTimestamp string, err error)
}

// conversationLister is implemented by any value that has the GetConversations
// method, used for the membership reconciliation job.
//
// slack.Client implements this interface
type conversationLister interface {
	GetConversations(params *slack.GetConversationsParameters) (channels []slack.Channel, nextCursor string, err error)
}

// memberLister is implemented by any value that has the GetUsersInConversation
// method, used for the user info refresh job.
//
// slack.Client implements this interface
type memberLister interface {
	GetUsersInConversation(params *slack.GetUsersInConversationParameters) (members []string, nextCursor string, err error)
}

// profileGetter is implemented by any value that has the GetUserProfile
// method.
//
// slack.Client implements this interface
type profileGetter interface {
	GetUserProfile(params *slack.GetUserProfileParameters) (profile *slack.UserProfile, err error)
}

// ChatClient encompasses the slack API surface the bot consumes and is
// implemented by slack.Client
type ChatClient interface {
	messagePoster
	conversationLister
	memberLister
	profileGetter
}
