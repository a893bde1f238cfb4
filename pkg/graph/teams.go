package graph

import (
	"context"
	"net/url"
	"time"
)

// ListUsers returns every user in the tenant.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	return collectAllPages[User](ctx, c, c.baseURL+"users", nil)
}

// ListUserChats returns every chat the user is a member of.
func (c *Client) ListUserChats(ctx context.Context, userID string) ([]Chat, error) {
	return collectAllPages[Chat](ctx, c, c.baseURL+"users/"+url.PathEscape(userID)+"/chats", nil)
}

// ListChatMessages returns the event messages of a chat modified at or after since.
func (c *Client) ListChatMessages(ctx context.Context, userID, chatID string, since time.Time) ([]Message, error) {
	u := c.baseURL + "users/" + url.PathEscape(userID) + "/chats/" + url.PathEscape(chatID) + "/messages"
	return collectAllPages(ctx, c, u, eventsSince(since))
}

// ListTeams returns every team in the tenant.
func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	return collectAllPages[Team](ctx, c, c.baseURL+"teams", nil)
}

// ListChannels returns the channels of a team.
func (c *Client) ListChannels(ctx context.Context, teamID string) ([]Channel, error) {
	return collectAllPages[Channel](ctx, c, c.baseURL+"teams/"+url.PathEscape(teamID)+"/channels", nil)
}

// ListChannelMessages returns the event messages of a channel modified at or after since.
func (c *Client) ListChannelMessages(ctx context.Context, teamID, channelID string, since time.Time) ([]Message, error) {
	u := c.baseURL + "teams/" + url.PathEscape(teamID) + "/channels/" + url.PathEscape(channelID) + "/messages"
	return collectAllPages(ctx, c, u, eventsSince(since))
}

// GetUser fetches the profile of a single user.
func (c *Client) GetUser(ctx context.Context, userID string) (User, error) {
	var user User
	u := c.baseURL + "users/" + url.PathEscape(userID) + "?$select=" + userSelect
	if err := c.getJSON(ctx, u, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

func eventsSince(since time.Time) func(Message) bool {
	return func(m Message) bool {
		return m.IsEventSince(since)
	}
}
