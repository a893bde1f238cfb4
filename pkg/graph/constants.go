// Package graph (constants.go) holds defaults shared by the Graph client,
// its retry policy and the Teams recording call sites.
package graph

import "time"

// Endpoint constants
const (
	DefaultBaseURL   = "https://graph.microsoft.com/v1.0/"
	DefaultAuthority = "https://login.microsoftonline.com"
	DefaultScope     = "https://graph.microsoft.com/.default"
)

// Default HTTP Configuration Constants
const (
	DefaultTimeout       = 30 * time.Second
	DefaultRetryAttempts = 8
	DefaultRetryDelay    = 1 * time.Second
	DefaultMaxRetryDelay = 60 * time.Second
)

// Default request pacing. Graph allows roughly 10,000 requests per 10 minutes
// per app and tenant.
const (
	DefaultRequestsPerSecond = 10.0
	DefaultBurst             = 15
)

// CallRecordingEventType is the @odata.type of the event detail attached to a
// "call recording is available" system message.
const CallRecordingEventType = "#microsoft.graph.callRecordingEventMessageDetail"

// userSelect lists the profile fields resolved for a recording initiator.
// department is not part of the default user projection.
const userSelect = "id,displayName,mail,userPrincipalName,jobTitle,department"
