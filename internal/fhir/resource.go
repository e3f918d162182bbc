package fhir

import (
	"encoding/json"
)

// Resource is a generic FHIR resource: a type name, an identity, any
// inline contained resources, and the raw FHIR content as a map. All
// resource variants share this one representation, so the assembler
// never needs type-specific branching.
type Resource struct {
	Type      string
	ID        Identity
	Contained []*Resource
	Body      map[string]interface{}
}

// NewResource creates an empty resource of the given type and id.
func NewResource(resourceType, id string) *Resource {
	return &Resource{
		Type: resourceType,
		ID:   Identity{Type: resourceType, ID: id},
		Body: map[string]interface{}{},
	}
}

// FromMap builds a Resource from a decoded FHIR JSON object. The
// resourceType, id, meta.versionId, and contained entries are lifted out
// of the body; the body itself is retained as-is.
func FromMap(body map[string]interface{}) *Resource {
	r := &Resource{Body: body}
	if body == nil {
		return r
	}

	rt, _ := body["resourceType"].(string)
	id, _ := body["id"].(string)
	r.Type = rt
	r.ID = Identity{Type: rt, ID: id}

	if meta, ok := body["meta"].(map[string]interface{}); ok {
		if v, ok := meta["versionId"].(string); ok {
			r.ID.Version = v
		}
	}

	if contained, ok := body["contained"].([]interface{}); ok {
		for _, c := range contained {
			if cm, ok := c.(map[string]interface{}); ok {
				r.Contained = append(r.Contained, FromMap(cm))
			}
		}
	}

	return r
}

// ParseResource decodes a single FHIR JSON document.
func ParseResource(data []byte) (*Resource, error) {
	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	return FromMap(body), nil
}

// TypeName returns the resource's FHIR type name, falling back to the
// type part of its identity.
func (r *Resource) TypeName() string {
	if r.Type != "" {
		return r.Type
	}
	return r.ID.Type
}

// Identity returns the resource's identity.
func (r *Resource) Identity() Identity { return r.ID }

// SetIdentity replaces the resource's identity, filling in the type name
// when the resource does not have one yet.
func (r *Resource) SetIdentity(id Identity) {
	r.ID = id
	if r.Type == "" {
		r.Type = id.Type
	}
}

// ContainedIDs returns the non-empty local id parts of the resource's
// directly contained resources.
func (r *Resource) ContainedIDs() map[string]bool {
	ids := make(map[string]bool, len(r.Contained))
	for _, c := range r.Contained {
		if c.ID.ID != "" {
			ids[c.ID.ID] = true
		}
	}
	return ids
}

// MarshalJSON serialises the resource body, reconciling the type name
// and id part into it.
func (r *Resource) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Body)+2)
	for k, v := range r.Body {
		out[k] = v
	}
	if t := r.TypeName(); t != "" {
		out["resourceType"] = t
	}
	if r.ID.ID != "" {
		out["id"] = r.ID.ID
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a FHIR JSON object into the resource.
func (r *Resource) UnmarshalJSON(data []byte) error {
	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	*r = *FromMap(body)
	return nil
}
