package manifold

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/omnidev/manifold/graphql"
)

// fakeRegistry is an in-memory registry implementing GraphQLClient. It
// enforces the same natural-key uniqueness the real registry does:
// rejected creates come back as GraphQL error envelopes with no ID, which
// is exactly the collision signal the resolver engine keys on.
type fakeRegistry struct {
	mu     sync.Mutex
	nextID int

	namespaces   map[string]string         // name → id
	repositories map[string]fakeRepository // namespaceID/name → row
	artifacts    map[string]*fakeArtifact  // id → row
	artifactKeys map[string]string         // repositoryID@digest → id
	tags         map[string]*fakeTag       // id → row
	tagKeys      map[string]string         // repositoryID:name → id

	ops    []string         // operation names in call order
	failOn map[string]error // operation name → transport error
}

type fakeRepository struct {
	id           string
	artifactType string
}

type fakeArtifact struct {
	id           string
	repositoryID string
	digest       string
	size         int64
	mediaType    string
	content      string
}

type fakeTag struct {
	id           string
	repositoryID string
	artifactID   string
	name         string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		namespaces:   make(map[string]string),
		repositories: make(map[string]fakeRepository),
		artifacts:    make(map[string]*fakeArtifact),
		artifactKeys: make(map[string]string),
		tags:         make(map[string]*fakeTag),
		tagKeys:      make(map[string]string),
		failOn:       make(map[string]error),
	}
}

func (f *fakeRegistry) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeRegistry) opCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, op := range f.ops {
		if op == name {
			n++
		}
	}
	return n
}

func (f *fakeRegistry) opsSince(mark int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops[mark:]...)
}

func (f *fakeRegistry) opMark() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ops)
}

func rawJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

func fakeData(field string, v any) *graphql.Response {
	return &graphql.Response{Data: map[string]json.RawMessage{field: rawJSON(v)}}
}

func fakeIDList(field string, ids ...string) *graphql.Response {
	nodes := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, map[string]string{"id": id})
	}
	return fakeData(field, nodes)
}

func fakeRejection(msgs ...string) *graphql.Response {
	errs := make([]graphql.Error, len(msgs))
	for i, m := range msgs {
		errs[i] = graphql.Error{Message: m}
	}
	return &graphql.Response{Errors: errs}
}

func artifactNode(a *fakeArtifact) map[string]any {
	return map[string]any{
		"id":        a.id,
		"digest":    a.digest,
		"size":      a.size,
		"mediaType": a.mediaType,
		"content":   a.content,
	}
}

func (f *fakeRegistry) Do(_ context.Context, operation string, vars map[string]any) (*graphql.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := opName(operation)
	f.ops = append(f.ops, name)
	if err, ok := f.failOn[name]; ok {
		return nil, err
	}

	str := func(key string) string {
		s, _ := vars[key].(string)
		return s
	}

	switch name {
	case "namespaceByName":
		if id, ok := f.namespaces[str("name")]; ok {
			return fakeIDList("namespaces", id), nil
		}
		return fakeIDList("namespaces"), nil

	case "createNamespace":
		if _, ok := f.namespaces[str("name")]; ok {
			return fakeRejection("namespace name already exists"), nil
		}
		id := f.newID("ns")
		f.namespaces[str("name")] = id
		return fakeData("createNamespace", map[string]string{"id": id}), nil

	case "repositoryByName":
		key := str("namespaceId") + "/" + str("name")
		if repo, ok := f.repositories[key]; ok {
			return fakeIDList("repositories", repo.id), nil
		}
		return fakeIDList("repositories"), nil

	case "createRepository":
		key := str("namespaceId") + "/" + str("name")
		if _, ok := f.repositories[key]; ok {
			return fakeRejection("repository name already exists in namespace"), nil
		}
		id := f.newID("repo")
		f.repositories[key] = fakeRepository{id: id, artifactType: str("artifactType")}
		return fakeData("createRepository", map[string]string{"id": id}), nil

	case "artifactByDigest":
		key := str("repositoryId") + "@" + str("digest")
		if id, ok := f.artifactKeys[key]; ok {
			return fakeIDList("artifacts", id), nil
		}
		return fakeIDList("artifacts"), nil

	case "createArtifact":
		key := str("repositoryId") + "@" + str("digest")
		if _, ok := f.artifactKeys[key]; ok {
			return fakeRejection("artifact digest already exists in repository"), nil
		}
		size, _ := vars["size"].(int64)
		id := f.newID("art")
		f.artifacts[id] = &fakeArtifact{
			id:           id,
			repositoryID: str("repositoryId"),
			digest:       str("digest"),
			size:         size,
			mediaType:    str("mediaType"),
			content:      str("content"),
		}
		f.artifactKeys[key] = id
		return fakeData("createArtifact", map[string]string{"id": id}), nil

	case "tagByName":
		key := str("repositoryId") + ":" + str("name")
		if id, ok := f.tagKeys[key]; ok {
			return fakeIDList("tags", id), nil
		}
		return fakeIDList("tags"), nil

	case "createTag":
		key := str("repositoryId") + ":" + str("name")
		if _, ok := f.tagKeys[key]; ok {
			return fakeRejection("tag name already exists in repository"), nil
		}
		id := f.newID("tag")
		f.tags[id] = &fakeTag{
			id:           id,
			repositoryID: str("repositoryId"),
			artifactID:   str("artifactId"),
			name:         str("name"),
		}
		f.tagKeys[key] = id
		return fakeData("createTag", map[string]string{"id": id}), nil

	case "updateTag":
		tag, ok := f.tags[str("id")]
		if !ok {
			return fakeRejection("tag not found"), nil
		}
		tag.artifactID = str("artifactId")
		return fakeData("updateTag", map[string]string{"id": tag.id}), nil

	case "tagArtifact":
		key := str("repositoryId") + ":" + str("name")
		id, ok := f.tagKeys[key]
		if !ok {
			return fakeData("tags", []any{}), nil
		}
		tag := f.tags[id]
		artifact, ok := f.artifacts[tag.artifactID]
		if !ok {
			return fakeRejection("dangling tag"), nil
		}
		return fakeData("tags", []map[string]any{{
			"id":       tag.id,
			"artifact": artifactNode(artifact),
		}}), nil

	case "artifactsByRepository":
		var nodes []map[string]any
		var ids []string
		for id, a := range f.artifacts {
			if a.repositoryID == str("repositoryId") {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range ids {
			nodes = append(nodes, artifactNode(f.artifacts[id]))
		}
		return fakeData("artifacts", nodes), nil
	}

	return fakeRejection("unknown operation " + name), nil
}

// corruptArtifact rewrites stored content without touching the recorded
// digest, for digest-verification tests.
func (f *fakeRegistry) corruptArtifact(id, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.artifacts[id]; ok {
		a.content = content
	}
}
