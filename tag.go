package manifold

import (
	"context"
	"fmt"
)

const updateTagDoc = `mutation updateTag($id: ID!, $artifactId: ID!) {
  updateTag(id: $id, artifactId: $artifactId) { id }
}`

// upsertTag points the named tag at artifactID, creating the tag when it
// does not exist and repointing it when it does. Tags are the only
// mutable entity in the model; concurrent publishes of the same name are
// last-write-wins under the registry's own mutation serialization.
//
// Either mutation must echo the tag's identifier; a response without one
// is fatal for the tag stage.
func (c *Client) upsertTag(ctx context.Context, repositoryID, name, artifactID string) (string, error) {
	keyVars := map[string]any{"repositoryId": repositoryID, "name": name}
	existing, err := c.lookup(ctx, tagResource, keyVars)
	if err != nil {
		return "", err
	}

	if existing != "" {
		resp, err := c.gql.Do(ctx, updateTagDoc, map[string]any{"id": existing, "artifactId": artifactID})
		if err != nil {
			return "", fmt.Errorf("tag update: %w", err)
		}
		node, derr := decodeNode(resp, "updateTag")
		if resp.HasErrors() || derr != nil || node.ID == "" {
			return "", &ResolutionError{Stage: StageTag, Errors: resp.Errors}
		}
		return node.ID, nil
	}

	createVars := map[string]any{"repositoryId": repositoryID, "artifactId": artifactID, "name": name}
	id, rawErrs, err := c.create(ctx, tagResource, createVars)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", &ResolutionError{Stage: StageTag, Errors: rawErrs}
	}
	return id, nil
}
