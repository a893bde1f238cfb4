package app

import (
	"context"
	"time"

	"github.com/dylanstetts/getTeamsRecordings/pkg/graph"
)

// SDK defines the Graph calls the commands make.
// This allows for mocking in tests.
type SDK interface {
	ListUsers(ctx context.Context) ([]graph.User, error)
	ListUserChats(ctx context.Context, userID string) ([]graph.Chat, error)
	ListChatMessages(ctx context.Context, userID, chatID string, since time.Time) ([]graph.Message, error)
	ListTeams(ctx context.Context) ([]graph.Team, error)
	ListChannels(ctx context.Context, teamID string) ([]graph.Channel, error)
	ListChannelMessages(ctx context.Context, teamID, channelID string, since time.Time) ([]graph.Message, error)
	GetUser(ctx context.Context, userID string) (graph.User, error)
	BaseURL() string
}

var _ SDK = (*graph.Client)(nil)
