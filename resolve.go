package manifold

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/omnidev/manifold/graphql"
)

// idNode is the shape every lookup node and mutation result reduces to.
type idNode struct {
	ID string `json:"id"`
}

// resource parameterizes the get-or-create engine for one resource kind:
// a lookup query returning a list of {id} nodes filtered by the natural
// key, and a create mutation returning {id}.
type resource struct {
	stage       Stage
	lookupDoc   string
	lookupField string
	createDoc   string
	createField string
}

var namespaceResource = resource{
	stage: StageNamespace,
	lookupDoc: `query namespaceByName($name: String!) {
  namespaces(name: $name) { id }
}`,
	lookupField: "namespaces",
	createDoc: `mutation createNamespace($name: String!) {
  createNamespace(name: $name) { id }
}`,
	createField: "createNamespace",
}

var repositoryResource = resource{
	stage: StageRepository,
	lookupDoc: `query repositoryByName($namespaceId: ID!, $name: String!) {
  repositories(namespaceId: $namespaceId, name: $name) { id }
}`,
	lookupField: "repositories",
	createDoc: `mutation createRepository($namespaceId: ID!, $name: String!, $artifactType: String!) {
  createRepository(namespaceId: $namespaceId, name: $name, artifactType: $artifactType) { id }
}`,
	createField: "createRepository",
}

var artifactResource = resource{
	stage: StageArtifact,
	lookupDoc: `query artifactByDigest($repositoryId: ID!, $digest: String!) {
  artifacts(repositoryId: $repositoryId, digest: $digest) { id }
}`,
	lookupField: "artifacts",
	createDoc: `mutation createArtifact($repositoryId: ID!, $digest: String!, $size: Int!, $mediaType: String!, $content: String!) {
  createArtifact(repositoryId: $repositoryId, digest: $digest, size: $size, mediaType: $mediaType, content: $content) { id }
}`,
	createField: "createArtifact",
}

var tagResource = resource{
	stage: StageTag,
	lookupDoc: `query tagByName($repositoryId: ID!, $name: String!) {
  tags(repositoryId: $repositoryId, name: $name) { id }
}`,
	lookupField: "tags",
	createDoc: `mutation createTag($repositoryId: ID!, $artifactId: ID!, $name: String!) {
  createTag(repositoryId: $repositoryId, artifactId: $artifactId, name: $name) { id }
}`,
	createField: "createTag",
}

// lookup runs the resource's lookup query and returns the first matching
// node's ID, or "" when nothing matches. The registry enforces natural-key
// uniqueness, so the first match is the only match.
func (c *Client) lookup(ctx context.Context, res resource, vars map[string]any) (string, error) {
	resp, err := c.gql.Do(ctx, res.lookupDoc, vars)
	if err != nil {
		return "", fmt.Errorf("%s lookup: %w", res.stage, err)
	}
	if resp.HasErrors() {
		return "", &ResolutionError{Stage: res.stage, Errors: resp.Errors}
	}
	nodes, err := decodeNodes(resp, res.lookupField)
	if err != nil {
		return "", fmt.Errorf("%s lookup: %w", res.stage, err)
	}
	if len(nodes) == 0 {
		return "", nil
	}
	return nodes[0].ID, nil
}

// create runs the resource's create mutation. It returns the new ID, or
// "" with the raw error payload when the registry rejected the mutation;
// whether a rejection is fatal or a fallback lookup applies is the
// caller's decision.
func (c *Client) create(ctx context.Context, res resource, vars map[string]any) (string, []graphql.Error, error) {
	resp, err := c.gql.Do(ctx, res.createDoc, vars)
	if err != nil {
		return "", nil, fmt.Errorf("%s create: %w", res.stage, err)
	}
	node, derr := decodeNode(resp, res.createField)
	if resp.HasErrors() || derr != nil || node.ID == "" {
		return "", resp.Errors, nil
	}
	return node.ID, nil, nil
}

// resolve is the generic get-or-create: look up by natural key, create on
// miss, and on a rejected create retry the lookup once before failing.
// The retried lookup covers concurrent first-time publishes racing to
// create the same namespace or repository.
func (c *Client) resolve(ctx context.Context, res resource, keyVars, createVars map[string]any) (string, error) {
	id, err := c.lookup(ctx, res, keyVars)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	id, rawErrs, err := c.create(ctx, res, createVars)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	// Rejected create: a concurrent publisher may have won the race on
	// this key, so check once more before surfacing the raw payload.
	c.log().Debug("create rejected, retrying lookup", "stage", string(res.stage))
	id, lookupErr := c.lookup(ctx, res, keyVars)
	if lookupErr != nil {
		return "", lookupErr
	}
	if id == "" {
		return "", &ResolutionError{Stage: res.stage, Errors: rawErrs}
	}
	return id, nil
}

// resolveCached wraps resolve with the optional namespace/repository ID
// memo. Cache hits skip the lookup round trip entirely.
func (c *Client) resolveCached(ctx context.Context, res resource, cacheKey string, keyVars, createVars map[string]any) (string, error) {
	if c.idCache != nil {
		if v, ok := c.idCache.Get(cacheKey); ok {
			return v.(string), nil
		}
	}
	id, err := c.resolve(ctx, res, keyVars, createVars)
	if err != nil {
		return "", err
	}
	if c.idCache != nil {
		c.idCache.SetDefault(cacheKey, id)
	}
	return id, nil
}

func (c *Client) resolveNamespace(ctx context.Context, name string) (string, error) {
	vars := map[string]any{"name": name}
	return c.resolveCached(ctx, namespaceResource, "namespace/"+name, vars, vars)
}

func (c *Client) resolveRepository(ctx context.Context, namespaceID, name, artifactType string) (string, error) {
	keyVars := map[string]any{"namespaceId": namespaceID, "name": name}
	createVars := map[string]any{"namespaceId": namespaceID, "name": name, "artifactType": artifactType}
	return c.resolveCached(ctx, repositoryResource, "repository/"+namespaceID+"/"+name, keyVars, createVars)
}

// resolveArtifact inverts the generic step order: content digests make
// new artifacts the common case, so it creates first and falls back to a
// lookup by (repositoryId, digest) when the create is rejected. This is
// what keeps concurrent publishers of byte-identical content from ever
// failing or duplicating an artifact.
func (c *Client) resolveArtifact(ctx context.Context, repositoryID, dgst string, size int64, mediaType string, content []byte) (string, error) {
	createVars := map[string]any{
		"repositoryId": repositoryID,
		"digest":       dgst,
		"size":         size,
		"mediaType":    mediaType,
		"content":      string(content),
	}
	id, rawErrs, err := c.create(ctx, artifactResource, createVars)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	// The digest already exists in this repository, either from an
	// earlier publish or a concurrent one. Fetch the surviving row.
	c.log().Debug("artifact create rejected, looking up by digest", "digest", dgst)
	keyVars := map[string]any{"repositoryId": repositoryID, "digest": dgst}
	id, lookupErr := c.lookup(ctx, artifactResource, keyVars)
	if lookupErr != nil {
		return "", lookupErr
	}
	if id == "" {
		// Neither created nor findable: the registry is inconsistent
		// from this client's point of view.
		return "", &ResolutionError{Stage: StageArtifact, Errors: rawErrs}
	}
	return id, nil
}

// decodeNodes decodes a lookup field into its list of {id} nodes. A
// missing or null field decodes as no matches.
func decodeNodes(resp *graphql.Response, field string) ([]idNode, error) {
	raw, ok := resp.Data[field]
	if !ok || len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var nodes []idNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("decode %s: %w", field, err)
	}
	return nodes, nil
}

// decodeNode decodes a mutation result field into its {id} node. A
// missing or null field decodes as a zero node.
func decodeNode(resp *graphql.Response, field string) (idNode, error) {
	raw, ok := resp.Data[field]
	if !ok || len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return idNode{}, nil
	}
	var node idNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return idNode{}, fmt.Errorf("decode %s: %w", field, err)
	}
	return node, nil
}
