package fhir

import (
	"fmt"
	"sort"
	"strings"
)

// Reference is a single reference found inside a resource: where it
// lives, the raw reference value, and the resolved target when one is
// available. An unresolved reference has a nil Target.
type Reference struct {
	Source string // owning resource type, e.g. "Observation"
	Path   string // field path within the body, e.g. "subject" or "performer[0].actor"
	Ref    string // raw reference value, e.g. "Patient/1" or "#med1"
	Target *Resource
}

// ParamName returns the first path segment of the reference, stripped of
// any array index. This approximates the search parameter a reference
// corresponds to and is what include specs match against.
func (r Reference) ParamName() string {
	p := r.Path
	if idx := strings.IndexAny(p, ".["); idx >= 0 {
		p = p[:idx]
	}
	return p
}

// IsLocal reports whether the reference points at a contained resource.
func (r Reference) IsLocal() bool { return strings.HasPrefix(r.Ref, "#") }

// ReferenceScanner finds all references embedded in a resource.
type ReferenceScanner interface {
	References(res *Resource) []Reference
}

// Pool indexes resources by their dedup key so references can be
// resolved against an in-memory result set.
type Pool struct {
	byKey map[string]*Resource
}

// NewPool creates a pool over the given resources.
func NewPool(resources ...*Resource) *Pool {
	p := &Pool{byKey: make(map[string]*Resource, len(resources))}
	for _, r := range resources {
		p.Add(r)
	}
	return p
}

// Add indexes a resource. Resources without an id part are not indexed.
func (p *Pool) Add(res *Resource) {
	if res == nil || !res.ID.HasIDPart() {
		return
	}
	key := res.ID.WithResourceType(res.TypeName()).Key()
	if _, exists := p.byKey[key]; !exists {
		p.byKey[key] = res
	}
}

// Find returns the pooled resource matching the identity's type and id
// part, or nil.
func (p *Pool) Find(id Identity) *Resource {
	return p.byKey[id.Key()]
}

// MapScanner is the default ReferenceScanner. It walks a resource body
// depth-first looking for {"reference": "..."} objects and resolves each
// against a pool. Local "#id" references are reported unresolved.
type MapScanner struct {
	pool *Pool
}

// NewMapScanner creates a scanner resolving against the given pool. A
// nil pool is allowed; every reference then comes back unresolved.
func NewMapScanner(pool *Pool) *MapScanner {
	return &MapScanner{pool: pool}
}

// References implements ReferenceScanner.
func (s *MapScanner) References(res *Resource) []Reference {
	if res == nil || res.Body == nil {
		return nil
	}
	var refs []Reference
	s.walk("", res.Body, res.TypeName(), &refs)
	return refs
}

func (s *MapScanner) walk(path string, v interface{}, owner string, out *[]Reference) {
	switch val := v.(type) {
	case map[string]interface{}:
		if refStr, ok := val["reference"].(string); ok && path != "" {
			ref := Reference{Source: owner, Path: path, Ref: refStr}
			if !ref.IsLocal() && s.pool != nil {
				ref.Target = s.pool.Find(ParseIdentity(refStr))
			}
			*out = append(*out, ref)
			return
		}
		// Sorted keys keep scan order deterministic.
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if path == "" && (k == "resourceType" || k == "id" || k == "meta") {
				continue
			}
			next := k
			if path != "" {
				next = path + "." + k
			}
			s.walk(next, val[k], owner, out)
		}
	case []interface{}:
		for i, child := range val {
			s.walk(fmt.Sprintf("%s[%d]", path, i), child, owner, out)
		}
	}
}
