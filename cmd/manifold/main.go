// Command manifold publishes and fetches artifacts in a Manifold
// registry. The registry endpoint, namespace, and bearer token come from
// the environment (MANIFOLD_URL, MANIFOLD_NAMESPACE, MANIFOLD_TOKEN);
// flags override.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
