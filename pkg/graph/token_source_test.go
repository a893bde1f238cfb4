package graph

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type mockTokenSource struct {
	mu         sync.Mutex
	token      *oauth2.Token
	err        error
	tokenCalls int
}

func (m *mockTokenSource) Token() (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokenCalls++
	return m.token, m.err
}

func (m *mockTokenSource) setToken(token *oauth2.Token) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func TestRefreshNotifyingSource(t *testing.T) {
	var refreshed []string
	mockSource := &mockTokenSource{token: &oauth2.Token{AccessToken: "initial_access"}}
	source := newRefreshNotifyingSource(mockSource, func(token *oauth2.Token) {
		refreshed = append(refreshed, token.AccessToken)
	})

	token, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, "initial_access", token.AccessToken)
	assert.Empty(t, refreshed, "the first token is not a refresh")

	_, err = source.Token()
	require.NoError(t, err)
	assert.Empty(t, refreshed)

	mockSource.setToken(&oauth2.Token{AccessToken: "refreshed_access"})
	token, err = source.Token()
	require.NoError(t, err)
	assert.Equal(t, "refreshed_access", token.AccessToken)
	assert.Equal(t, []string{"refreshed_access"}, refreshed)
	assert.Equal(t, 3, mockSource.tokenCalls)
}

func TestRefreshNotifyingSourceError(t *testing.T) {
	mockSource := &mockTokenSource{err: errors.New("token endpoint unreachable")}
	source := newRefreshNotifyingSource(mockSource, nil)

	_, err := source.Token()
	assert.EqualError(t, err, "token endpoint unreachable")
}

func TestRefreshNotifyingSourceWithoutHook(t *testing.T) {
	mockSource := &mockTokenSource{token: &oauth2.Token{AccessToken: "a"}}
	source := newRefreshNotifyingSource(mockSource, nil)

	_, err := source.Token()
	require.NoError(t, err)
	mockSource.setToken(&oauth2.Token{AccessToken: "b"})
	token, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, "b", token.AccessToken)
}
