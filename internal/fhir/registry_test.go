package fhir

import (
	"testing"
)

func TestRegistryNewInstance(t *testing.T) {
	r := NewRegistry()
	r.RegisterType("Patient")

	res := r.NewInstance("Patient")
	if res.TypeName() != "Patient" {
		t.Errorf("expected Patient instance, got %q", res.TypeName())
	}
	if res.ID.HasIDPart() {
		t.Error("expected an empty id")
	}
}

func TestRegistryUnknownTypeFallsBack(t *testing.T) {
	r := NewRegistry()
	res := r.NewInstance("Basic")
	if res == nil || res.TypeName() != "Basic" {
		t.Error("expected generic fallback for unknown type")
	}
	if r.Known("Basic") {
		t.Error("fallback must not register the type")
	}
}

func TestRegistryCustomFactory(t *testing.T) {
	r := NewRegistry()
	r.Register("Patient", func() *Resource {
		return FromMap(map[string]interface{}{"resourceType": "Patient", "active": true})
	})

	res := r.NewInstance("Patient")
	if active, _ := res.Body["active"].(bool); !active {
		t.Error("expected custom factory to be used")
	}
}

func TestDefaultRegistryKnowsCommonTypes(t *testing.T) {
	r := DefaultRegistry()
	for _, typ := range []string{"Patient", "Observation", "Encounter", "MedicationRequest"} {
		if !r.Known(typ) {
			t.Errorf("expected %s to be pre-registered", typ)
		}
	}
}
