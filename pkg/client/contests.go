package client

import (
	"context"
	"strconv"

	"github.com/mdshamim125/contest-hub-server/internal/api"
	"github.com/mdshamim125/contest-hub-server/internal/core"
)

// Contests lists every contest regardless of status.
func (c *Client) Contests(ctx context.Context) ([]core.Contest, string, error) {
	var contests []core.Contest
	correlation, err := c.get(ctx, c.url().
		setPath(api.ListContestsRoute).
		build(), &contests)
	return contests, correlation, err
}

// PublishedContests lists the confirmed (publicly visible) contests.
func (c *Client) PublishedContests(ctx context.Context) ([]core.Contest, string, error) {
	var contests []core.Contest
	correlation, err := c.get(ctx, c.url().
		setPath(api.AllContestsRoute).
		build(), &contests)
	return contests, correlation, err
}

func (c *Client) Contest(ctx context.Context, id string) (*core.Contest, string, error) {
	var contest core.Contest
	correlation, err := c.get(ctx, c.url().
		setPath(api.GetContestRoute).
		setPathValue("id", id).
		build(), &contest)
	if err != nil {
		return nil, correlation, err
	}
	return &contest, correlation, nil
}

// CreateContest submits a new contest. Requires a creator token; the
// server stamps the creator from the token identity.
func (c *Client) CreateContest(ctx context.Context, payload api.CreateContestPayload) (*core.InsertResult, string, error) {
	var result core.InsertResult
	correlation, err := c.post(ctx, c.url().
		setPath(api.CreateContestRoute).
		build(), payload, &result)
	if err != nil {
		return nil, correlation, err
	}
	return &result, correlation, nil
}

// ConfirmContest publishes a pending contest. Requires an admin token.
func (c *Client) ConfirmContest(ctx context.Context, id string) (*core.UpdateResult, string, error) {
	var result core.UpdateResult
	correlation, err := c.send(ctx, "PATCH", c.url().
		setPath(api.ConfirmContestRoute).
		setPathValue("id", id).
		build(), nil, &result)
	if err != nil {
		return nil, correlation, err
	}
	return &result, correlation, nil
}

// RegisterContest registers the token identity as a participant.
func (c *Client) RegisterContest(ctx context.Context, id string) (*core.UpdateResult, string, error) {
	var result core.UpdateResult
	correlation, err := c.post(ctx, c.url().
		setPath(api.RegisterRoute).
		setPathValue("id", id).
		build(), nil, &result)
	if err != nil {
		return nil, correlation, err
	}
	return &result, correlation, nil
}

func (c *Client) PopularCreators(ctx context.Context, limit int) ([]core.CreatorRank, string, error) {
	b := c.url().setPath(api.PopularCreatorsRoute)
	if limit > 0 {
		b.setQuery("limit", strconv.Itoa(limit))
	}

	var ranks []core.CreatorRank
	correlation, err := c.get(ctx, b.build(), &ranks)
	return ranks, correlation, err
}

func (c *Client) PopularContests(ctx context.Context, limit int) ([]core.Contest, string, error) {
	b := c.url().setPath(api.PopularContestsRoute)
	if limit > 0 {
		b.setQuery("limit", strconv.Itoa(limit))
	}

	var contests []core.Contest
	correlation, err := c.get(ctx, b.build(), &contests)
	return contests, correlation, err
}

// CreatePaymentIntent creates a payment intent for a contest entry fee
// and returns the client secret.
func (c *Client) CreatePaymentIntent(ctx context.Context, price float64) (string, string, error) {
	payload := api.PaymentIntentPayload{Price: price}

	var result api.PaymentIntentResponse
	correlation, err := c.post(ctx, c.url().
		setPath(api.PaymentIntentRoute).
		build(), payload, &result)
	if err != nil {
		return "", correlation, err
	}
	return result.ClientSecret, correlation, nil
}
