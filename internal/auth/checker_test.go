package auth

import (
	"context"
	"errors"
	"testing"

	"ghost-detector-bot/pkg/slackapi"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAPI answers users.info only; every other method panics through the
// embedded nil interface.
type stubAPI struct {
	slackapi.SlackAPI
	user *slack.User
	err  error
}

func (s *stubAPI) GetUserInfoContext(context.Context, string) (*slack.User, error) {
	return s.user, s.err
}

func TestNewAdminCheckerRequiresAPI(t *testing.T) {
	_, err := NewAdminChecker(nil)
	assert.Error(t, err)
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name string
		user *slack.User
		want bool
	}{
		{"plain member", &slack.User{ID: "U1"}, false},
		{"admin", &slack.User{ID: "U1", IsAdmin: true}, true},
		{"owner", &slack.User{ID: "U1", IsOwner: true}, true},
		{"primary owner", &slack.User{ID: "U1", IsPrimaryOwner: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker, err := NewAdminChecker(&stubAPI{user: tt.user})
			require.NoError(t, err)

			isAdmin, err := checker.IsAdmin(context.Background(), "U1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, isAdmin)
		})
	}
}

func TestIsAdminUnknownUser(t *testing.T) {
	checker, err := NewAdminChecker(&stubAPI{err: errors.New("user_not_found")})
	require.NoError(t, err)

	isAdmin, err := checker.IsAdmin(context.Background(), "U404")
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestIsAdminTransportError(t *testing.T) {
	checker, err := NewAdminChecker(&stubAPI{err: errors.New("connection reset")})
	require.NoError(t, err)

	_, err = checker.IsAdmin(context.Background(), "U1")
	assert.Error(t, err)
}
