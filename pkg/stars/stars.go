// Package stars decides and changes whether a user has starred a repository.
//
// Every status decision goes through IsStarred, which consults the star-status
// cache first and the upstream only on a miss. Star and Unstar reject
// transitions into the state the repository is already in without issuing a
// mutating call, and update the cache only after the upstream accepted the
// change.
package stars

import (
	"context"

	"github.com/agentstation/stargazer/pkg/errors"
	"github.com/agentstation/stargazer/pkg/github"
	"github.com/agentstation/stargazer/pkg/logging"
	"github.com/agentstation/stargazer/pkg/starcache"
)

// Gateway is the subset of upstream calls the coordinator needs.
type Gateway interface {
	CheckStar(ctx context.Context, ref github.RepoRef, token string) (bool, error)
	AddStar(ctx context.Context, ref github.RepoRef, token string) error
	RemoveStar(ctx context.Context, ref github.RepoRef, token string) error
}

// Cache stores star-status answers.
type Cache interface {
	Get(key starcache.Key) (bool, bool)
	Set(key starcache.Key, value bool)
}

// Coordinator owns the star-status cache and enforces star/unstar
// preconditions.
type Coordinator struct {
	gateway Gateway
	cache   Cache
}

// New creates a Coordinator.
func New(gateway Gateway, cache Cache) *Coordinator {
	return &Coordinator{gateway: gateway, cache: cache}
}

// IsStarred reports whether token's user has starred ref.
func (c *Coordinator) IsStarred(ctx context.Context, ref github.RepoRef, token string) (bool, error) {
	key, err := c.prepare(ref, token)
	if err != nil {
		return false, err
	}
	return c.isStarred(withContext(ctx, "check_star", ref, token), ref, token, key)
}

// Star stars ref for token's user. It fails with PreconditionFailed if the
// repository is already starred.
func (c *Coordinator) Star(ctx context.Context, ref github.RepoRef, token string) error {
	return c.transition(withContext(ctx, "add_star", ref, token), ref, token, true)
}

// Unstar removes the star from ref for token's user. It fails with
// PreconditionFailed if the repository is not starred.
func (c *Coordinator) Unstar(ctx context.Context, ref github.RepoRef, token string) error {
	return c.transition(withContext(ctx, "remove_star", ref, token), ref, token, false)
}

func (c *Coordinator) transition(ctx context.Context, ref github.RepoRef, token string, want bool) error {
	key, err := c.prepare(ref, token)
	if err != nil {
		return err
	}

	current, err := c.isStarred(ctx, ref, token, key)
	if err != nil {
		return err
	}
	if current == want {
		return errors.NewPreconditionError(ref.Owner, ref.Name, current)
	}

	if want {
		err = c.gateway.AddStar(ctx, ref, token)
	} else {
		err = c.gateway.RemoveStar(ctx, ref, token)
	}
	if err != nil {
		return err
	}

	c.cache.Set(key, want)
	logging.FromContext(ctx).Info().Bool("starred", want).Msg("Star state changed")
	return nil
}

func (c *Coordinator) isStarred(ctx context.Context, ref github.RepoRef, token string, key starcache.Key) (bool, error) {
	if starred, ok := c.cache.Get(key); ok {
		logging.FromContext(ctx).Debug().Bool("starred", starred).Msg("Star status cache hit")
		return starred, nil
	}

	starred, err := c.gateway.CheckStar(ctx, ref, token)
	if err != nil {
		return false, err
	}

	c.cache.Set(key, starred)
	logging.FromContext(ctx).Debug().Bool("starred", starred).Msg("Star status fetched")
	return starred, nil
}

// prepare rejects the request before any upstream call. A missing credential
// is reported as Unauthorized rather than PreconditionFailed, matching what
// the upstream answers for an unauthenticated star call.
func (c *Coordinator) prepare(ref github.RepoRef, token string) (starcache.Key, error) {
	if token == "" {
		return starcache.Key{}, errors.NewAuthenticationError("bearer", "credential required", nil)
	}
	if err := ref.Validate(); err != nil {
		return starcache.Key{}, err
	}
	return starcache.NewKey(token, ref.Owner, ref.Name), nil
}

func withContext(ctx context.Context, op string, ref github.RepoRef, token string) context.Context {
	ctx = logging.WithOperation(ctx, op)
	ctx = logging.WithRepository(ctx, ref.Owner, ref.Name)
	return logging.WithCredential(ctx, logging.Fingerprint(token))
}
