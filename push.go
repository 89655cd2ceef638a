package manifold

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Publish pushes content into the registry under namespace/repository and
// points the named tag at it.
//
// The four stages run strictly in order, each consuming the identifier
// produced by the one before: namespace, repository, artifact, tag.
// Namespaces, repositories, and artifacts are get-or-create and never
// mutated; the tag is a mutable pointer moved to the new artifact on
// every publish of the same name. A failed publish leaves earlier-created
// resources in place (they are independently valid) and rerunning the
// whole publish is always safe.
func (c *Client) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	dgst, size := Address(req.Content)
	result := &PublishResult{Digest: dgst, Size: size}
	log := c.log().With("namespace", req.Namespace, "repository", req.Repository, "tag", req.Name)

	namespaceID, err := c.resolveNamespace(ctx, req.Namespace)
	if err != nil {
		return nil, fmt.Errorf("resolve namespace: %w", err)
	}
	result.NamespaceID = namespaceID
	log.Info("namespace resolved", "id", namespaceID)

	repositoryID, err := c.resolveRepository(ctx, namespaceID, req.Repository, req.ArtifactType)
	if err != nil {
		return nil, fmt.Errorf("resolve repository: %w", err)
	}
	result.RepositoryID = repositoryID
	log.Info("repository resolved", "id", repositoryID)

	artifactID, err := c.resolveArtifact(ctx, repositoryID, dgst, size, req.MediaType, req.Content)
	if err != nil {
		return nil, fmt.Errorf("resolve artifact: %w", err)
	}
	result.ArtifactID = artifactID
	log.Info("artifact resolved", "id", artifactID, "digest", dgst, "size", size)

	tagID, err := c.upsertTag(ctx, repositoryID, req.Name, artifactID)
	if err != nil {
		return nil, fmt.Errorf("upsert tag: %w", err)
	}
	result.TagID = tagID
	log.Info("tag upserted", "id", tagID, "artifact", artifactID)

	return result, nil
}

// PublishAll publishes independent requests with bounded parallelism.
// Each publish is internally sequential; only distinct publishes overlap,
// which the protocol tolerates: artifact creation is collision-safe and
// namespace/repository resolution retries its lookup on create conflicts.
//
// Results are positionally aligned with reqs. The first failure cancels
// the remaining publishes; results for publishes that did not complete
// are nil.
func (c *Client) PublishAll(ctx context.Context, reqs []PublishRequest, opts ...PublishAllOption) ([]*PublishResult, error) {
	cfg := publishAllConfig{concurrency: 4}
	for _, opt := range opts {
		opt(&cfg)
	}

	results := make([]*PublishResult, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			res, err := c.Publish(ctx, req)
			if err != nil {
				return fmt.Errorf("publish %q: %w", req.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
