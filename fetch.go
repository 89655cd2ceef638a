package manifold

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

const tagArtifactDoc = `query tagArtifact($repositoryId: ID!, $name: String!) {
  tags(repositoryId: $repositoryId, name: $name) {
    id
    artifact { id digest size mediaType content }
  }
}`

const listArtifactsDoc = `query artifactsByRepository($repositoryId: ID!) {
  artifacts(repositoryId: $repositoryId) { id digest size mediaType content }
}`

// tagNode is a tag with its target artifact inlined.
type tagNode struct {
	ID       string   `json:"id"`
	Artifact Artifact `json:"artifact"`
}

// Fetch resolves a tag to its artifact and returns the artifact with its
// content. The returned content is verified against the digest the
// registry recorded; a divergence fails with ErrDigestMismatch.
//
// A missing namespace, repository, or tag fails with ErrNotFound.
func (c *Client) Fetch(ctx context.Context, namespace, repository, tag string) (*Artifact, error) {
	repositoryID, err := c.lookupRepository(ctx, namespace, repository)
	if err != nil {
		return nil, err
	}
	if repositoryID == "" {
		return nil, fmt.Errorf("%w: repository %s/%s", ErrNotFound, namespace, repository)
	}

	resp, err := c.gql.Do(ctx, tagArtifactDoc, map[string]any{"repositoryId": repositoryID, "name": tag})
	if err != nil {
		return nil, fmt.Errorf("tag lookup: %w", err)
	}
	if resp.HasErrors() {
		return nil, &ResolutionError{Stage: StageTag, Errors: resp.Errors}
	}

	raw, ok := resp.Data["tags"]
	if !ok || len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: tag %q in %s/%s", ErrNotFound, tag, namespace, repository)
	}
	var nodes []tagNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("tag lookup: decode tags: %w", err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: tag %q in %s/%s", ErrNotFound, tag, namespace, repository)
	}

	artifact := nodes[0].Artifact
	if got, _ := Address([]byte(artifact.Content)); got != artifact.Digest {
		return nil, fmt.Errorf("%w: artifact %s: recorded %s, computed %s",
			ErrDigestMismatch, artifact.ID, artifact.Digest, got)
	}
	return &artifact, nil
}

// List returns all artifacts in a repository. A namespace or repository
// that does not exist yet lists as empty rather than failing, so callers
// can browse ahead of the first publish.
func (c *Client) List(ctx context.Context, namespace, repository string) ([]Artifact, error) {
	repositoryID, err := c.lookupRepository(ctx, namespace, repository)
	if err != nil {
		return nil, err
	}
	if repositoryID == "" {
		return nil, nil
	}

	resp, err := c.gql.Do(ctx, listArtifactsDoc, map[string]any{"repositoryId": repositoryID})
	if err != nil {
		return nil, fmt.Errorf("artifact list: %w", err)
	}
	if resp.HasErrors() {
		return nil, &ResolutionError{Stage: StageArtifact, Errors: resp.Errors}
	}

	raw, ok := resp.Data["artifacts"]
	if !ok || len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var artifacts []Artifact
	if err := json.Unmarshal(raw, &artifacts); err != nil {
		return nil, fmt.Errorf("artifact list: decode artifacts: %w", err)
	}
	return artifacts, nil
}

// lookupRepository walks namespace → repository without creating either.
// It returns "" when the chain breaks at any level.
func (c *Client) lookupRepository(ctx context.Context, namespace, repository string) (string, error) {
	namespaceID, err := c.lookup(ctx, namespaceResource, map[string]any{"name": namespace})
	if err != nil {
		return "", err
	}
	if namespaceID == "" {
		return "", nil
	}
	return c.lookup(ctx, repositoryResource, map[string]any{"namespaceId": namespaceID, "name": repository})
}
