package graph

import "time"

// User is the subset of a Graph user profile used to enumerate chats and to
// describe a recording initiator.
type User struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
	JobTitle          string `json:"jobTitle"`
	Department        string `json:"department"`
}

// Email returns the user's mail address, falling back to the UPN.
func (u User) Email() string {
	if u.Mail != "" {
		return u.Mail
	}
	return u.UserPrincipalName
}

// Chat is a one-on-one, group or meeting chat.
type Chat struct {
	ID       string `json:"id"`
	Topic    string `json:"topic"`
	ChatType string `json:"chatType"`
}

// Team is a Microsoft Teams team.
type Team struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Channel is a channel within a team.
type Channel struct {
	ID             string `json:"id"`
	DisplayName    string `json:"displayName"`
	MembershipType string `json:"membershipType"`
}

// Message is a chat or channel message. EventDetail is only set on system
// messages that describe an event.
type Message struct {
	ID                   string       `json:"id"`
	MessageType          string       `json:"messageType"`
	CreatedDateTime      time.Time    `json:"createdDateTime"`
	LastModifiedDateTime time.Time    `json:"lastModifiedDateTime"`
	ChatID               string       `json:"chatId"`
	EventDetail          *EventDetail `json:"eventDetail"`
}

// IsEventSince reports whether m carries an event detail and was last
// modified at or after since. Timestamps are compared as instants.
func (m Message) IsEventSince(since time.Time) bool {
	return m.EventDetail != nil && !m.LastModifiedDateTime.Before(since)
}

// EventDetail is the polymorphic eventDetail of a system message,
// discriminated by ODataType. Only the call recording fields are decoded.
type EventDetail struct {
	ODataType                string       `json:"@odata.type"`
	CallID                   string       `json:"callId"`
	CallRecordingURL         string       `json:"callRecordingUrl"`
	CallRecordingDisplayName string       `json:"callRecordingDisplayName"`
	CallRecordingDuration    string       `json:"callRecordingDuration"`
	CallRecordingStatus      string       `json:"callRecordingStatus"`
	Initiator                *IdentitySet `json:"initiator"`
}

// IsCallRecording reports whether the detail is a "call recording available" event.
func (d EventDetail) IsCallRecording() bool {
	return d.ODataType == CallRecordingEventType
}

// InitiatorUserID returns the id of the user who started the recording, or ""
// when the initiator is missing or is not a user.
func (d EventDetail) InitiatorUserID() string {
	if d.Initiator == nil || d.Initiator.User == nil {
		return ""
	}
	return d.Initiator.User.ID
}

// IdentitySet identifies the actor behind an event.
type IdentitySet struct {
	User        *Identity `json:"user"`
	Application *Identity `json:"application"`
	Device      *Identity `json:"device"`
}

// Identity is one member of an IdentitySet.
type Identity struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	UserIdentityType string `json:"userIdentityType,omitempty"`
}
