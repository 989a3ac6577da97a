package auth

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ghost-detector-bot/pkg/slackapi"
)

// AdminChecker handles checking whether a user may run privileged commands.
// Workspace owners and admins count as "manage workspace" holders.
type AdminChecker struct {
	api slackapi.SlackAPI
}

// NewAdminChecker creates a new AdminChecker.
// It requires a non-nil Slack API client.
func NewAdminChecker(api slackapi.SlackAPI) (*AdminChecker, error) {
	if api == nil {
		return nil, fmt.Errorf("slack api instance cannot be nil")
	}
	return &AdminChecker{api: api}, nil
}

// IsAdmin checks if a user is an owner or admin of the workspace.
func (ac *AdminChecker) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := ac.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		// An unknown user is simply not an admin.
		// API errors (network, permissions) should be returned.
		if strings.Contains(strings.ToLower(err.Error()), "user_not_found") {
			return false, nil
		}
		log.Printf("[AdminCheck User:%s] Error fetching user info: %v. Assuming non-admin.", userID, err)
		return false, fmt.Errorf("failed to get user info: %w", err)
	}

	return user.IsOwner || user.IsPrimaryOwner || user.IsAdmin, nil
}
