package manifold

import (
	"errors"
	"fmt"
	"strings"

	"github.com/omnidev/manifold/graphql"
)

// Sentinel errors for client operations.
var (
	// ErrNotFound is returned by the read path when a namespace,
	// repository, or tag does not exist.
	ErrNotFound = errors.New("manifold: not found")

	// ErrDigestMismatch is returned when fetched content does not match
	// the digest the registry recorded for it.
	ErrDigestMismatch = errors.New("manifold: digest mismatch")

	// ErrInvalidRequest is returned when a publish request is missing a
	// required field.
	ErrInvalidRequest = errors.New("manifold: invalid request")
)

// Stage identifies one step of the publish workflow.
type Stage string

const (
	StageNamespace  Stage = "namespace"
	StageRepository Stage = "repository"
	StageArtifact   Stage = "artifact"
	StageTag        Stage = "tag"
)

// ResolutionError reports that the registry rejected a stage of the
// workflow. It carries the server's raw error payload verbatim for
// diagnosis; the client never retries a rejected stage.
type ResolutionError struct {
	Stage  Stage
	Errors []graphql.Error
}

func (e *ResolutionError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("manifold: %s resolution failed", e.Stage)
	}
	msgs := make([]string, len(e.Errors))
	for i, ge := range e.Errors {
		msgs[i] = ge.Message
	}
	return fmt.Sprintf("manifold: %s resolution failed: %s", e.Stage, strings.Join(msgs, "; "))
}
