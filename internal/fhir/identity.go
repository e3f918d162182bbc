package fhir

import (
	"strings"
)

// Identity is the parsed form of a FHIR resource id such as
// "Patient/123", "Patient/123/_history/2", or
// "https://example.org/fhir/Patient/123". Any part may be absent.
type Identity struct {
	Base    string
	Type    string
	ID      string
	Version string
}

// ParseIdentity parses a reference or location string into an Identity.
// It accepts bare ids, "Type/id" pairs, absolute URLs, and any of those
// followed by a "/_history/<version>" suffix.
func ParseIdentity(value string) Identity {
	value = strings.TrimSpace(value)
	if value == "" {
		return Identity{}
	}

	var version string
	if idx := strings.Index(value, "/_history/"); idx >= 0 {
		version = value[idx+len("/_history/"):]
		value = value[:idx]
	}

	parts := strings.Split(strings.Trim(value, "/"), "/")
	switch len(parts) {
	case 1:
		return Identity{ID: parts[0], Version: version}
	case 2:
		return Identity{Type: parts[0], ID: parts[1], Version: version}
	default:
		return Identity{
			Base:    strings.Join(parts[:len(parts)-2], "/"),
			Type:    parts[len(parts)-2],
			ID:      parts[len(parts)-1],
			Version: version,
		}
	}
}

// IsEmpty reports whether no id information is present at all.
func (id Identity) IsEmpty() bool {
	return id.Base == "" && id.Type == "" && id.ID == "" && id.Version == ""
}

// HasIDPart reports whether the id part is non-empty.
func (id Identity) HasIDPart() bool { return id.ID != "" }

// HasResourceType reports whether the resource type part is non-empty.
func (id Identity) HasResourceType() bool { return id.Type != "" }

// HasBaseURL reports whether the identity carries an absolute server base.
func (id Identity) HasBaseURL() bool { return id.Base != "" }

// HasVersion reports whether a version part is present.
func (id Identity) HasVersion() bool { return id.Version != "" }

// WithResourceType returns a copy of the identity with the type part set.
func (id Identity) WithResourceType(resourceType string) Identity {
	id.Type = resourceType
	return id
}

// WithServerBase returns a copy of the identity qualified with the given
// server base and resource type.
func (id Identity) WithServerBase(base, resourceType string) Identity {
	id.Base = strings.TrimSuffix(base, "/")
	id.Type = resourceType
	return id
}

// Key returns the dedup key for the identity: type-qualified, ignoring
// base and version. Two identities with the same key refer to the same
// logical resource.
func (id Identity) Key() string {
	return id.Type + "/" + id.ID
}

// Value returns the full string form, including base and version parts
// where present.
func (id Identity) Value() string {
	s := id.Versionless()
	if id.Version != "" && id.ID != "" {
		s += "/_history/" + id.Version
	}
	return s
}

// Versionless returns the string form without the version part.
func (id Identity) Versionless() string {
	parts := make([]string, 0, 3)
	if id.Base != "" {
		parts = append(parts, strings.TrimSuffix(id.Base, "/"))
	}
	if id.Type != "" {
		parts = append(parts, id.Type)
	}
	if id.ID != "" {
		parts = append(parts, id.ID)
	}
	return strings.Join(parts, "/")
}

// Unqualified returns the string form without the server base, keeping
// the version part.
func (id Identity) Unqualified() string {
	id.Base = ""
	return id.Value()
}

func (id Identity) String() string { return id.Value() }
