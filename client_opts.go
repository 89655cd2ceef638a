package manifold

import (
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/omnidev/manifold/graphql"
)

// Option configures a Client.
type Option func(*Client)

// WithGraphQLClient replaces the default transport. Transport pass-through
// options are ignored when a custom client is provided.
func WithGraphQLClient(gql GraphQLClient) Option {
	return func(c *Client) {
		c.gql = gql
	}
}

// WithLogger sets the logger for stage-by-stage publish progress. Without
// it the client logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTransportOptions passes options through to the default transport
// (HTTP client, user agent).
func WithTransportOptions(opts ...graphql.Option) Option {
	return func(c *Client) {
		c.gqlOpts = append(c.gqlOpts, opts...)
	}
}

// WithIDCache memoizes resolved namespace and repository identifiers for
// ttl, skipping their lookup round trips on repeated publishes from the
// same process. Artifact and tag resolution is never cached: artifacts
// are keyed by content and tags are mutable pointers.
func WithIDCache(ttl time.Duration) Option {
	return func(c *Client) {
		c.idCache = gocache.New(ttl, 2*ttl)
	}
}
