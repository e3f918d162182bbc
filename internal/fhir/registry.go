package fhir

import (
	"sync"
)

// ResourceFactory constructs an empty resource instance.
type ResourceFactory func() *Resource

// Registry maps FHIR resource type names to factories for empty
// instances. It is used when an entry has to be materialised from a
// response location alone, with no resource body to decode.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ResourceFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ResourceFactory)}
}

// Register associates a factory with a resource type name.
func (r *Registry) Register(resourceType string, factory ResourceFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[resourceType] = factory
}

// RegisterType registers a resource type with the generic factory.
func (r *Registry) RegisterType(resourceType string) {
	r.Register(resourceType, func() *Resource {
		return NewResource(resourceType, "")
	})
}

// Known reports whether a type has been registered.
func (r *Registry) Known(resourceType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[resourceType]
	return ok
}

// NewInstance constructs an empty resource of the given type. Unknown
// types fall back to the generic representation rather than failing;
// the type name is all the generic Resource needs.
func (r *Registry) NewInstance(resourceType string) *Resource {
	r.mu.RLock()
	factory, ok := r.factories[resourceType]
	r.mu.RUnlock()
	if ok {
		return factory()
	}
	return NewResource(resourceType, "")
}

// defaultTypes is the set of R4 resource types pre-registered by
// DefaultRegistry. It covers the types the assembler is commonly fed;
// anything else falls back to the generic factory.
var defaultTypes = []string{
	"AllergyIntolerance", "Appointment", "Bundle", "CarePlan", "CareTeam",
	"Claim", "Communication", "Composition", "Condition", "Consent",
	"Coverage", "Device", "DiagnosticReport", "DocumentReference",
	"Encounter", "FamilyMemberHistory", "Goal", "ImagingStudy",
	"Immunization", "Location", "Medication", "MedicationAdministration",
	"MedicationDispense", "MedicationRequest", "MedicationStatement",
	"Observation", "Organization", "Patient", "Practitioner",
	"PractitionerRole", "Procedure", "Provenance", "Questionnaire",
	"QuestionnaireResponse", "RelatedPerson", "Schedule", "ServiceRequest",
	"Slot", "Specimen", "Task",
}

// DefaultRegistry returns a registry seeded with common R4 types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, t := range defaultTypes {
		r.RegisterType(t)
	}
	return r
}
