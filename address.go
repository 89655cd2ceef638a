package manifold

import "github.com/opencontainers/go-digest"

// Address computes the content address of a payload: a digest in
// "sha256:<hex>" form and the size in bytes. The digest covers the exact
// bytes that Publish transmits as artifact content, with no trailing
// newline or encoding normalization.
func Address(content []byte) (string, int64) {
	return digest.FromBytes(content).String(), int64(len(content))
}
