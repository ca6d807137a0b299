package client

import (
	"context"

	"github.com/mdshamim125/contest-hub-server/internal/api"
	"github.com/mdshamim125/contest-hub-server/internal/core"
)

// SaveUser stores the user on first contact and returns the stored
// record, which may differ from the payload if the user already exists.
func (c *Client) SaveUser(ctx context.Context, email, name string, role core.Role) (*core.User, string, error) {
	payload := api.SaveUserPayload{Email: email, Name: name, Role: role}

	var user core.User
	correlation, err := c.send(ctx, "PUT", c.url().
		setPath(api.SaveUserRoute).
		build(), payload, &user)
	if err != nil {
		return nil, correlation, err
	}
	return &user, correlation, nil
}

func (c *Client) User(ctx context.Context, email string) (*core.User, string, error) {
	var user core.User
	correlation, err := c.get(ctx, c.url().
		setPath(api.GetUserRoute).
		setPathValue("email", email).
		build(), &user)
	if err != nil {
		return nil, correlation, err
	}
	return &user, correlation, nil
}

// Users lists all users. Requires an admin token.
func (c *Client) Users(ctx context.Context) ([]core.User, string, error) {
	var users []core.User
	correlation, err := c.get(ctx, c.url().
		setPath(api.ListUsersRoute).
		build(), &users)
	return users, correlation, err
}

// UpdateUserStatus blocks or unblocks a user. Requires an admin token.
func (c *Client) UpdateUserStatus(ctx context.Context, email string, status core.Status) (*core.UpdateResult, string, error) {
	payload := api.UpdateStatusPayload{Status: status}

	var result core.UpdateResult
	correlation, err := c.send(ctx, "PATCH", c.url().
		setPath(api.UpdateStatusRoute).
		setPathValue("email", email).
		build(), payload, &result)
	if err != nil {
		return nil, correlation, err
	}
	return &result, correlation, nil
}

// DeleteUser removes a user record. Requires an admin token.
func (c *Client) DeleteUser(ctx context.Context, email string) (*core.DeleteResult, string, error) {
	var result core.DeleteResult
	correlation, err := c.send(ctx, "DELETE", c.url().
		setPath(api.DeleteUserRoute).
		setPathValue("email", email).
		build(), nil, &result)
	if err != nil {
		return nil, correlation, err
	}
	return &result, correlation, nil
}
