package manifold

import (
	"context"
	"io"
	"log/slog"
	"math"

	gocache "github.com/patrickmn/go-cache"

	"github.com/omnidev/manifold/graphql"
)

// GraphQLClient is the transport used to reach the registry.
//
// The default implementation is graphql.Client; tests and callers with
// custom transports substitute their own via WithGraphQLClient.
type GraphQLClient interface {
	// Do executes one named query or mutation with variables and returns
	// the decoded response envelope. GraphQL-level errors are returned
	// inside the envelope, not as a Go error.
	Do(ctx context.Context, operation string, variables map[string]any) (*graphql.Response, error)
}

// Client publishes and fetches artifacts in a Manifold registry.
type Client struct {
	gql     GraphQLClient
	logger  *slog.Logger
	idCache *gocache.Cache

	endpoint string
	token    string

	// gqlOpts are options passed through to the default transport when
	// no custom GraphQLClient is provided.
	gqlOpts []graphql.Option
}

// log returns the logger, falling back to a discard logger if nil.
func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return c.logger
}

// New creates a registry client for the given GraphQL endpoint. The
// token, when non-empty, authenticates every request as a bearer
// credential.
//
// If no transport is provided via WithGraphQLClient, a default
// graphql.Client is created using any pass-through options
// (WithTransportOptions).
func New(endpoint, token string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		token:    token,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.gql == nil {
		c.gql = graphql.New(c.endpoint, c.token, c.gqlOpts...)
	}

	return c
}
