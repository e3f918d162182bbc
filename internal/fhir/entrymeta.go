package fhir

// TransactionMethod is the HTTP verb a resource was processed with in a
// transaction or batch.
type TransactionMethod string

const (
	MethodGET    TransactionMethod = "GET"
	MethodPOST   TransactionMethod = "POST"
	MethodPUT    TransactionMethod = "PUT"
	MethodDELETE TransactionMethod = "DELETE"
)

// SearchMode is the Bundle.entry.search.mode code.
type SearchMode string

const (
	SearchModeMatch   SearchMode = "match"
	SearchModeInclude SearchMode = "include"
	SearchModeOutcome SearchMode = "outcome"
)

// EntryMeta is the per-result metadata produced by upstream processing:
// the transaction verb the resource was handled with and the search mode
// it should be annotated with.
type EntryMeta struct {
	Method     TransactionMethod
	SearchMode SearchMode
}

// EntryMetadata maps a resource's dedup key (Identity.Key) to its entry
// metadata. It is passed alongside the result list instead of being
// stashed on the resource objects themselves.
type EntryMetadata map[string]EntryMeta

// Set records metadata for a resource identity.
func (m EntryMetadata) Set(id Identity, meta EntryMeta) {
	m[id.Key()] = meta
}

// Lookup returns the metadata for a resource identity, or the zero
// value when none was recorded. A nil map is valid and always empty.
func (m EntryMetadata) Lookup(id Identity) EntryMeta {
	if m == nil {
		return EntryMeta{}
	}
	return m[id.Key()]
}
