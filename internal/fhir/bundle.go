package fhir

import (
	"fmt"
	"time"
)

// BundleType is the Bundle.type code.
type BundleType string

const (
	BundleTypeSearchSet           BundleType = "searchset"
	BundleTypeCollection          BundleType = "collection"
	BundleTypeDocument            BundleType = "document"
	BundleTypeMessage             BundleType = "message"
	BundleTypeHistory             BundleType = "history"
	BundleTypeBatch               BundleType = "batch"
	BundleTypeBatchResponse       BundleType = "batch-response"
	BundleTypeTransaction         BundleType = "transaction"
	BundleTypeTransactionResponse BundleType = "transaction-response"
)

// IsResponse reports whether the type is a batch or transaction
// response, which is when entry.response metadata gets populated.
func (t BundleType) IsResponse() bool {
	return t == BundleTypeBatchResponse || t == BundleTypeTransactionResponse
}

// Link relation names used on bundles.
const (
	LinkSelf     = "self"
	LinkNext     = "next"
	LinkPrevious = "previous"
)

// Bundle represents a FHIR Bundle resource under assembly.
type Bundle struct {
	ResourceType string         `json:"resourceType"`
	ID           string         `json:"id,omitempty"`
	Meta         *BundleMeta    `json:"meta,omitempty"`
	Type         BundleType     `json:"type,omitempty"`
	Total        *int           `json:"total,omitempty"`
	Link         []BundleLink   `json:"link,omitempty"`
	Entry        []*BundleEntry `json:"entry,omitempty"`
}

type BundleMeta struct {
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

type BundleLink struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

type BundleEntry struct {
	FullURL  string          `json:"fullUrl,omitempty"`
	Resource *Resource       `json:"resource,omitempty"`
	Search   *BundleSearch   `json:"search,omitempty"`
	Request  *BundleRequest  `json:"request,omitempty"`
	Response *BundleResponse `json:"response,omitempty"`
}

type BundleSearch struct {
	Mode string `json:"mode,omitempty"`
}

type BundleRequest struct {
	Method string `json:"method"`
	URL    string `json:"url,omitempty"`
}

type BundleResponse struct {
	Status       string     `json:"status,omitempty"`
	Location     string     `json:"location,omitempty"`
	Etag         string     `json:"etag,omitempty"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

// NewBundle creates an empty Bundle.
func NewBundle() *Bundle {
	return &Bundle{ResourceType: "Bundle"}
}

// AddEntry appends a new empty entry and returns it.
func (b *Bundle) AddEntry() *BundleEntry {
	entry := &BundleEntry{}
	b.Entry = append(b.Entry, entry)
	return entry
}

// SetID sets the bundle id unless one is already present. Blank values
// are ignored.
func (b *Bundle) SetID(id string) {
	if b.ID == "" && id != "" {
		b.ID = id
	}
}

// SetType sets the bundle type unless one is already present.
func (b *Bundle) SetType(t BundleType) {
	if b.Type == "" && t != "" {
		b.Type = t
	}
}

// SetTotal sets the total unless one is already present.
func (b *Bundle) SetTotal(total int) {
	if b.Total == nil {
		b.Total = &total
	}
}

// SetLastUpdated sets meta.lastUpdated unless already present.
func (b *Bundle) SetLastUpdated(t time.Time) {
	if b.Meta != nil && b.Meta.LastUpdated != nil {
		return
	}
	if b.Meta == nil {
		b.Meta = &BundleMeta{}
	}
	b.Meta.LastUpdated = &t
}

// AddLink adds a navigation link. Adding a relation that already exists
// is a no-op (first write wins), as is a blank URL.
func (b *Bundle) AddLink(relation, url string) {
	if url == "" || b.HasLink(relation) {
		return
	}
	b.Link = append(b.Link, BundleLink{Relation: relation, URL: url})
}

// HasLink reports whether a link with the given relation exists.
func (b *Bundle) HasLink(relation string) bool {
	for _, l := range b.Link {
		if l.Relation == relation {
			return true
		}
	}
	return false
}

// LinkURL returns the URL for a relation, or "".
func (b *Bundle) LinkURL(relation string) string {
	for _, l := range b.Link {
		if l.Relation == relation {
			return l.URL
		}
	}
	return ""
}

// BundleLinks carries the server base, navigation URLs, and bundle type
// for root-properties population.
type BundleLinks struct {
	ServerBase string
	Self       string
	Next       string
	Prev       string
	BundleType BundleType
}

// WeakEtag renders a version id as a weak validator etag.
func WeakEtag(versionID string) string {
	return fmt.Sprintf("W/%q", versionID)
}
