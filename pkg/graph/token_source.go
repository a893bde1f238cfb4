package graph

import (
	"sync"

	"golang.org/x/oauth2"
)

// refreshNotifyingSource wraps a token source and reports when the access
// token it hands out changes. The first token is not reported.
type refreshNotifyingSource struct {
	base      oauth2.TokenSource
	mu        sync.Mutex
	lastToken *oauth2.Token
	onRefresh func(token *oauth2.Token)
}

func newRefreshNotifyingSource(base oauth2.TokenSource, onRefresh func(token *oauth2.Token)) *refreshNotifyingSource {
	return &refreshNotifyingSource{
		base:      base,
		onRefresh: onRefresh,
	}
}

// Token returns a token from the underlying source.
func (s *refreshNotifyingSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	newToken, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	refreshed := s.lastToken != nil && s.lastToken.AccessToken != newToken.AccessToken
	s.lastToken = newToken
	if refreshed && s.onRefresh != nil {
		s.onRefresh(newToken)
	}
	return newToken, nil
}
