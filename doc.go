// Package manifold is a client for the Manifold artifact registry.
//
// The registry is a four-level hierarchy: namespaces group repositories,
// repositories hold content-addressed artifacts, and tags are mutable
// pointers from a human-readable name to one artifact. Publish walks the
// hierarchy with idempotent get-or-create steps, so republishing
// byte-identical content never duplicates an artifact and retrying a
// failed publish is always safe.
//
// The low-level query/mutation transport lives in the graphql subpackage.
package manifold
