package client

import (
	"context"

	"github.com/mdshamim125/contest-hub-server/internal/api"
)

// IssueToken requests a session token for the given email.
func (c *Client) IssueToken(ctx context.Context, email string) (string, string, error) {
	payload := api.IssueTokenPayload{Email: email}

	var result api.IssueTokenResponse
	correlation, err := c.post(ctx, c.url().
		setPath(api.IssueTokenRoute).
		build(), payload, &result)
	if err != nil {
		return "", correlation, err
	}
	return result.Token, correlation, nil
}
