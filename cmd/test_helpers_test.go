package cmd

import (
	"context"
	"time"

	"github.com/dylanstetts/getTeamsRecordings/internal/app"
	"github.com/dylanstetts/getTeamsRecordings/internal/config"
	"github.com/dylanstetts/getTeamsRecordings/internal/logger"
	"github.com/dylanstetts/getTeamsRecordings/pkg/graph"
)

// MockSDK is a mock implementation of the SDK interface for testing.
type MockSDK struct {
	ListUsersFunc           func() ([]graph.User, error)
	ListUserChatsFunc       func(userID string) ([]graph.Chat, error)
	ListChatMessagesFunc    func(userID, chatID string, since time.Time) ([]graph.Message, error)
	ListTeamsFunc           func() ([]graph.Team, error)
	ListChannelsFunc        func(teamID string) ([]graph.Channel, error)
	ListChannelMessagesFunc func(teamID, channelID string, since time.Time) ([]graph.Message, error)
	GetUserFunc             func(userID string) (graph.User, error)
}

func (m *MockSDK) ListUsers(ctx context.Context) ([]graph.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc()
	}
	return nil, nil
}

func (m *MockSDK) ListUserChats(ctx context.Context, userID string) ([]graph.Chat, error) {
	if m.ListUserChatsFunc != nil {
		return m.ListUserChatsFunc(userID)
	}
	return nil, nil
}

func (m *MockSDK) ListChatMessages(ctx context.Context, userID, chatID string, since time.Time) ([]graph.Message, error) {
	if m.ListChatMessagesFunc != nil {
		return m.ListChatMessagesFunc(userID, chatID, since)
	}
	return nil, nil
}

func (m *MockSDK) ListTeams(ctx context.Context) ([]graph.Team, error) {
	if m.ListTeamsFunc != nil {
		return m.ListTeamsFunc()
	}
	return nil, nil
}

func (m *MockSDK) ListChannels(ctx context.Context, teamID string) ([]graph.Channel, error) {
	if m.ListChannelsFunc != nil {
		return m.ListChannelsFunc(teamID)
	}
	return nil, nil
}

func (m *MockSDK) ListChannelMessages(ctx context.Context, teamID, channelID string, since time.Time) ([]graph.Message, error) {
	if m.ListChannelMessagesFunc != nil {
		return m.ListChannelMessagesFunc(teamID, channelID, since)
	}
	return nil, nil
}

func (m *MockSDK) GetUser(ctx context.Context, userID string) (graph.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(userID)
	}
	return graph.User{ID: userID}, nil
}

func (m *MockSDK) BaseURL() string {
	return graph.DefaultBaseURL
}

func newTestApp(sdk app.SDK) *app.App {
	return &app.App{
		Config: config.New(),
		Logger: logger.NoopLogger{},
		RunID:  "test-run",
		SDK:    sdk,
	}
}

func recordingEvent(id, url, initiator string, modified time.Time) graph.Message {
	return graph.Message{
		ID:                   id,
		MessageType:          "systemEventMessage",
		LastModifiedDateTime: modified,
		EventDetail: &graph.EventDetail{
			ODataType:        graph.CallRecordingEventType,
			CallRecordingURL: url,
			Initiator:        &graph.IdentitySet{User: &graph.Identity{ID: initiator}},
		},
	}
}
