package recordings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dylanstetts/getTeamsRecordings/internal/logger"
	"github.com/dylanstetts/getTeamsRecordings/pkg/graph"
	"golang.org/x/sync/errgroup"
)

// Graph is the subset of the Graph API the scanner walks.
type Graph interface {
	ListUsers(ctx context.Context) ([]graph.User, error)
	ListUserChats(ctx context.Context, userID string) ([]graph.Chat, error)
	ListChatMessages(ctx context.Context, userID, chatID string, since time.Time) ([]graph.Message, error)
	ListTeams(ctx context.Context) ([]graph.Team, error)
	ListChannels(ctx context.Context, teamID string) ([]graph.Channel, error)
	ListChannelMessages(ctx context.Context, teamID, channelID string, since time.Time) ([]graph.Message, error)
	GetUser(ctx context.Context, userID string) (graph.User, error)
}

// Source tells where a recording was announced.
type Source string

const (
	SourceChat    Source = "chat"
	SourceChannel Source = "channel"
)

// Recording is one line of the report.
type Recording struct {
	Source         Source `json:"source"`
	ChatID         string `json:"chatId,omitempty"`
	TeamID         string `json:"teamId,omitempty"`
	ChannelID      string `json:"channelId,omitempty"`
	InitiatorID    string `json:"initiatorId"`
	InitiatorName  string `json:"initiatorName"`
	InitiatorEmail string `json:"initiatorEmail"`
	JobTitle       string `json:"jobTitle"`
	Department     string `json:"department"`
	URL            string `json:"recordingUrl"`
	Name           string `json:"recordingName,omitempty"`
}

// Sink receives report records. Emit is never called concurrently.
type Sink interface {
	Emit(rec Recording) error
}

// Progress is notified as the outer enumerations (users, teams) advance.
type Progress interface {
	Start(phase string, total int)
	Step()
	Finish()
}

type noopProgress struct{}

func (noopProgress) Start(string, int) {}
func (noopProgress) Step()             {}
func (noopProgress) Finish()           {}

// Stats summarizes a scan.
type Stats struct {
	Users      int `json:"users"`
	Chats      int `json:"chats"`
	Teams      int `json:"teams"`
	Channels   int `json:"channels"`
	Events     int `json:"events"`
	Recordings int `json:"recordings"`
	Reported   int `json:"reported"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}

// Scanner runs the chat pass and then the channel pass.
type Scanner struct {
	graph    Graph
	sink     Sink
	seen     *SeenSet
	logger   logger.Logger
	progress Progress
	workers  int

	mu    sync.Mutex // guards stats and serializes sink
	stats Stats

	profilesMu sync.Mutex
	profiles   map[string]*graph.User
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithWorkers sets how many users or teams are scanned at once.
// One worker keeps the enumeration order of the API.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the scanner's logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProgress sets the progress observer.
func WithProgress(p Progress) Option {
	return func(s *Scanner) {
		if p != nil {
			s.progress = p
		}
	}
}

// WithSeenSet shares a dedup set with the caller.
func WithSeenSet(seen *SeenSet) Option {
	return func(s *Scanner) {
		if seen != nil {
			s.seen = seen
		}
	}
}

// NewScanner creates a Scanner reading from g and reporting to sink.
func NewScanner(g Graph, sink Sink, opts ...Option) *Scanner {
	s := &Scanner{
		graph:    g,
		sink:     sink,
		seen:     NewSeenSet(),
		logger:   logger.NoopLogger{},
		progress: noopProgress{},
		workers:  1,
		profiles: make(map[string]*graph.User),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run scans all chats and then all channels for recordings announced at or
// after since. The first error aborts the run; records already emitted stay emitted.
func (s *Scanner) Run(ctx context.Context, since time.Time) (Stats, error) {
	s.logger.Info("scanning for recordings", "since", since.Format(time.RFC3339), "workers", s.workers)

	if err := s.scanChats(ctx, since); err != nil {
		return s.Stats(), err
	}
	if err := s.scanChannels(ctx, since); err != nil {
		return s.Stats(), err
	}
	return s.Stats(), nil
}

// Stats returns a snapshot of the counters.
func (s *Scanner) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Scanner) scanChats(ctx context.Context, since time.Time) error {
	users, err := s.graph.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}
	s.count(func(st *Stats) { st.Users += len(users) })

	return s.forEach(ctx, "users", len(users), func(ctx context.Context, i int) error {
		return s.scanUserChats(ctx, users[i], since)
	})
}

func (s *Scanner) scanChannels(ctx context.Context, since time.Time) error {
	teams, err := s.graph.ListTeams(ctx)
	if err != nil {
		return fmt.Errorf("listing teams: %w", err)
	}
	s.count(func(st *Stats) { st.Teams += len(teams) })

	return s.forEach(ctx, "teams", len(teams), func(ctx context.Context, i int) error {
		return s.scanTeamChannels(ctx, teams[i], since)
	})
}

// forEach runs fn for indexes 0..n-1 on at most s.workers goroutines.
func (s *Scanner) forEach(ctx context.Context, phase string, n int, fn func(ctx context.Context, i int) error) error {
	s.progress.Start(phase, n)
	defer s.progress.Finish()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			defer s.progress.Step()
			return fn(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Scanner) scanUserChats(ctx context.Context, user graph.User, since time.Time) error {
	if user.ID == "" {
		return nil
	}
	chats, err := s.graph.ListUserChats(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("listing chats of user %s: %w", user.ID, err)
	}

	for _, chat := range chats {
		messages, err := s.graph.ListChatMessages(ctx, user.ID, chat.ID, since)
		if err != nil {
			return fmt.Errorf("listing messages of chat %s: %w", chat.ID, err)
		}
		details := ExtractRecordings(messages)
		s.count(func(st *Stats) {
			st.Chats++
			st.Events += len(messages)
			st.Recordings += len(details)
		})

		for _, detail := range details {
			if err := s.report(ctx, detail, Recording{Source: SourceChat, ChatID: chat.ID}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Scanner) scanTeamChannels(ctx context.Context, team graph.Team, since time.Time) error {
	if team.ID == "" {
		return nil
	}
	channels, err := s.graph.ListChannels(ctx, team.ID)
	if err != nil {
		return fmt.Errorf("listing channels of team %s: %w", team.ID, err)
	}

	for _, channel := range channels {
		messages, err := s.graph.ListChannelMessages(ctx, team.ID, channel.ID, since)
		if err != nil {
			return fmt.Errorf("listing messages of channel %s in team %s: %w", channel.ID, team.ID, err)
		}
		details := ExtractRecordings(messages)
		s.count(func(st *Stats) {
			st.Channels++
			st.Events += len(messages)
			st.Recordings += len(details)
		})

		for _, detail := range details {
			loc := Recording{Source: SourceChannel, TeamID: team.ID, ChannelID: channel.ID}
			if err := s.report(ctx, detail, loc); err != nil {
				return err
			}
		}
	}
	return nil
}

// report dedups detail by URL, resolves its initiator and emits it with the
// location fields of loc.
func (s *Scanner) report(ctx context.Context, detail graph.EventDetail, loc Recording) error {
	if detail.CallRecordingURL == "" {
		s.logger.Debug("recording event without URL skipped", "chat", loc.ChatID, "channel", loc.ChannelID)
		s.count(func(st *Stats) { st.Skipped++ })
		return nil
	}
	if !s.seen.MarkSeen(detail.CallRecordingURL) {
		s.count(func(st *Stats) { st.Duplicates++ })
		return nil
	}

	initiatorID := detail.InitiatorUserID()
	if initiatorID == "" {
		s.logger.Debug("recording without user initiator skipped", "url", detail.CallRecordingURL)
		s.count(func(st *Stats) { st.Skipped++ })
		return nil
	}

	profile, err := s.initiator(ctx, initiatorID)
	if err != nil {
		return fmt.Errorf("resolving initiator %s: %w", initiatorID, err)
	}

	rec := loc
	rec.InitiatorID = initiatorID
	rec.InitiatorName = profile.DisplayName
	rec.InitiatorEmail = profile.Email()
	rec.JobTitle = profile.JobTitle
	rec.Department = profile.Department
	rec.URL = detail.CallRecordingURL
	rec.Name = detail.CallRecordingDisplayName

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sink.Emit(rec); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	s.stats.Reported++
	return nil
}

// initiator returns the profile of userID, fetching it at most once per run
// unless concurrent workers race on the first lookup. Lookup failures,
// including a user that no longer exists, are returned to the caller.
func (s *Scanner) initiator(ctx context.Context, userID string) (*graph.User, error) {
	s.profilesMu.Lock()
	profile, ok := s.profiles[userID]
	s.profilesMu.Unlock()
	if ok {
		return profile, nil
	}

	user, err := s.graph.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile = &user

	s.profilesMu.Lock()
	s.profiles[userID] = profile
	s.profilesMu.Unlock()
	return profile, nil
}

func (s *Scanner) count(update func(st *Stats)) {
	s.mu.Lock()
	update(&s.stats)
	s.mu.Unlock()
}
