package manifold

import "fmt"

// PublishRequest describes one artifact publish.
type PublishRequest struct {
	// Namespace is the top-level grouping, keyed by globally unique name.
	Namespace string

	// Repository names the artifact collection within the namespace.
	Repository string

	// ArtifactType types the repository. It is set only when the
	// repository is first created and is immutable afterwards.
	ArtifactType string

	// MediaType describes the content format of the artifact.
	MediaType string

	// Name is the tag to point at the published artifact. Conventionally
	// this is the content's local identifier.
	Name string

	// Content is the exact payload to publish. Its digest is computed
	// over these bytes as-is.
	Content []byte
}

func (r *PublishRequest) validate() error {
	switch {
	case r.Namespace == "":
		return fmt.Errorf("%w: namespace is required", ErrInvalidRequest)
	case r.Repository == "":
		return fmt.Errorf("%w: repository is required", ErrInvalidRequest)
	case r.ArtifactType == "":
		return fmt.Errorf("%w: artifact type is required", ErrInvalidRequest)
	case r.MediaType == "":
		return fmt.Errorf("%w: media type is required", ErrInvalidRequest)
	case r.Name == "":
		return fmt.Errorf("%w: tag name is required", ErrInvalidRequest)
	case len(r.Content) == 0:
		return fmt.Errorf("%w: content is empty", ErrInvalidRequest)
	}
	return nil
}

// PublishResult carries the identifiers resolved at each stage of a
// successful publish, plus the content address of the artifact.
type PublishResult struct {
	NamespaceID  string
	RepositoryID string
	ArtifactID   string
	TagID        string

	Digest string
	Size   int64
}

// Artifact is one artifact row as returned by the registry's read path.
type Artifact struct {
	ID        string `json:"id"`
	Digest    string `json:"digest"`
	Size      int64  `json:"size"`
	MediaType string `json:"mediaType"`
	Content   string `json:"content"`
}
