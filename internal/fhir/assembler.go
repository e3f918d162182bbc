package fhir

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Assembler builds a self-consistent Bundle for one request/response
// cycle: the requested resources, everything they transitively reference
// (subject to the inclusion rule and _include set), and per-entry
// request/response/search metadata. One assembler owns one bundle; it is
// not safe for concurrent use and is not meant to be reused across
// requests.
//
// Malformed input is skipped, not reported: references that never
// resolved, targets without a usable id, and resources without a base or
// configured server base simply contribute less to the bundle. Reference
// graphs arriving from arbitrary upstream data are expected to be
// incomplete.
type Assembler struct {
	scanner  ReferenceScanner
	registry *Registry
	log      zerolog.Logger

	bundle *Bundle
	base   string
}

// NewAssembler creates an assembler. The registry may be nil, in which
// case body-less entries are materialised generically.
func NewAssembler(scanner ReferenceScanner, registry *Registry, logger zerolog.Logger) *Assembler {
	return &Assembler{
		scanner:  scanner,
		registry: registry,
		log:      logger,
	}
}

func (a *Assembler) ensureBundle() {
	if a.bundle == nil {
		a.bundle = NewBundle()
	}
}

// AddResourcesToBundle appends one entry per result resource, in input
// order, followed by one entry per transitively referenced resource
// accepted by the inclusion rule, in discovery order. Included entries
// are marked search.mode=include. Entry request/response metadata is
// populated from meta and from the resource identities when bundleType
// is a batch or transaction response.
func (a *Assembler) AddResourcesToBundle(results []*Resource, bundleType BundleType, serverBase string, rule InclusionRule, includes []Include, meta EntryMetadata) {
	a.ensureBundle()
	if serverBase != "" {
		a.base = serverBase
	}

	var included []*Resource
	added := make(map[string]bool)

	for _, res := range results {
		if res != nil && !res.Identity().IsEmpty() {
			added[res.Identity().Key()] = true
		}
	}

	for _, res := range results {
		if res == nil {
			continue
		}

		containedIDs := res.ContainedIDs()

		// Breadth-first closure over references reachable from this
		// resource. A resource, once added, is never re-expanded, so
		// cycles terminate.
		refs := a.references(res)
		for len(refs) > 0 {
			var addedThisPass []*Resource

			for _, ref := range refs {
				if rule != nil && !rule(ref, includes) {
					continue
				}
				target := ref.Target
				if target == nil {
					continue
				}
				id := target.Identity()
				if !id.HasIDPart() {
					continue
				}
				if containedIDs[id.ID] {
					// Contained ids are not separately addressable.
					continue
				}
				if !id.HasResourceType() {
					id = id.WithResourceType(target.TypeName())
				}
				if !added[id.Key()] {
					added[id.Key()] = true
					addedThisPass = append(addedThisPass, target)
					a.log.Debug().Str("id", id.Value()).Str("via", ref.Path).Msg("promoting referenced resource")
				}
			}

			included = append(included, addedThisPass...)

			// Linked resources may themselves link further resources.
			refs = refs[:0]
			for _, r := range addedThisPass {
				refs = append(refs, a.references(r)...)
			}
		}

		entry := a.bundle.AddEntry()
		entry.Resource = res
		id := a.populateFullURL(res, entry)

		em := meta.Lookup(res.Identity())
		if em.Method != "" {
			entry.Request = &BundleRequest{Method: string(em.Method)}
			if em.Method == MethodDELETE {
				// Delete responses carry no payload.
				entry.Resource = nil
			} else if id != nil {
				entry.Request.URL = id.Unqualified()
			}
		}

		if bundleType.IsResponse() && id != nil && id.HasVersion() {
			entry.Response = &BundleResponse{Etag: WeakEtag(id.Version)}
			if id.Version == "1" {
				entry.Response.Status = "201 Created"
			} else {
				entry.Response.Status = "200 OK"
			}
		}

		if em.SearchMode != "" {
			entry.Search = &BundleSearch{Mode: string(em.SearchMode)}
		}
	}

	for _, res := range included {
		entry := a.bundle.AddEntry()
		entry.Resource = res
		entry.Search = &BundleSearch{Mode: string(SearchModeInclude)}
		a.populateFullURL(res, entry)
	}
}

func (a *Assembler) references(res *Resource) []Reference {
	if a.scanner == nil {
		return nil
	}
	return a.scanner.References(res)
}

// populateFullURL sets the entry's fullUrl and returns the identity it
// was derived from. Identities already carrying an absolute base are
// used as-is; otherwise the configured server base qualifies the id.
// Returns nil when neither applies, leaving fullUrl unset.
func (a *Assembler) populateFullURL(res *Resource, entry *BundleEntry) *Identity {
	id := res.Identity()
	if id.HasBaseURL() {
		entry.FullURL = id.Versionless()
		return &id
	}
	if a.base != "" && id.HasIDPart() {
		qualified := id.WithServerBase(a.base, res.TypeName())
		entry.FullURL = qualified.Versionless()
		return &qualified
	}
	return nil
}

// AddRootPropertiesToBundle records the server base for subsequent
// full-URL computation and populates the bundle's id, last-updated
// timestamp, navigation links, type, and total. Every root property is
// first-write-wins; links already present are left alone.
func (a *Assembler) AddRootPropertiesToBundle(id string, links BundleLinks, totalResults *int, lastUpdated *time.Time) {
	a.ensureBundle()

	a.base = links.ServerBase

	a.bundle.SetID(id)
	if lastUpdated != nil {
		a.bundle.SetLastUpdated(*lastUpdated)
	}

	a.bundle.AddLink(LinkSelf, links.Self)
	a.bundle.AddLink(LinkNext, links.Next)
	a.bundle.AddLink(LinkPrevious, links.Prev)

	a.AddTotalResultsToBundle(totalResults, links.BundleType)
}

// AddTotalResultsToBundle assigns a generated id when the bundle has
// none, then sets the type and total if still unset. All three are
// no-ops once a value is in place.
func (a *Assembler) AddTotalResultsToBundle(totalResults *int, bundleType BundleType) {
	a.ensureBundle()

	if a.bundle.ID == "" {
		a.bundle.ID = uuid.NewString()
	}
	a.bundle.SetType(bundleType)
	if totalResults != nil {
		a.bundle.SetTotal(*totalResults)
	}
}

// InitializeWithBundleResource replaces the bundle under construction
// with a caller-supplied one, e.g. a previously persisted bundle being
// re-served. No validation is performed.
func (a *Assembler) InitializeWithBundleResource(bundle *Bundle) {
	a.bundle = bundle
}

// ResourceBundle returns the bundle under construction, creating an
// empty one if nothing has been added yet.
func (a *Assembler) ResourceBundle() *Bundle {
	a.ensureBundle()
	return a.bundle
}

// ToListOfResources flattens the bundle back to a plain resource list.
// Entries with a body contribute it directly; body-less entries with a
// response location contribute an empty instance of the located type
// carrying the parsed identity. Entries with neither are skipped.
func (a *Assembler) ToListOfResources() []*Resource {
	a.ensureBundle()

	var out []*Resource
	for _, entry := range a.bundle.Entry {
		if entry.Resource != nil {
			out = append(out, entry.Resource)
			continue
		}
		if entry.Response != nil && entry.Response.Location != "" {
			id := ParseIdentity(entry.Response.Location)
			if id.Type == "" {
				continue
			}
			res := a.newInstance(id.Type)
			res.SetIdentity(id)
			out = append(out, res)
		}
	}
	return out
}

func (a *Assembler) newInstance(resourceType string) *Resource {
	if a.registry != nil {
		return a.registry.NewInstance(resourceType)
	}
	return NewResource(resourceType, "")
}
