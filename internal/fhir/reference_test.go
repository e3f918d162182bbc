package fhir

import (
	"testing"
)

func TestMapScannerFindsNestedReferences(t *testing.T) {
	patient := makeResource("Patient", "p1", nil)
	practitioner := makeResource("Practitioner", "dr1", nil)
	obs := makeResource("Observation", "o1", map[string]interface{}{
		"subject": refTo("Patient/p1"),
		"performer": []interface{}{
			map[string]interface{}{"actor": refTo("Practitioner/dr1")},
		},
	})

	scanner := NewMapScanner(NewPool(patient, practitioner, obs))
	refs := scanner.References(obs)

	if len(refs) != 2 {
		t.Fatalf("expected 2 references, got %d", len(refs))
	}
	// Keys are walked in sorted order, so performer precedes subject.
	if refs[0].Path != "performer[0].actor" || refs[0].Target != practitioner {
		t.Errorf("unexpected first reference: %+v", refs[0])
	}
	if refs[1].Path != "subject" || refs[1].Target != patient {
		t.Errorf("unexpected second reference: %+v", refs[1])
	}
	for _, r := range refs {
		if r.Source != "Observation" {
			t.Errorf("expected source Observation, got %q", r.Source)
		}
	}
}

func TestMapScannerUnresolvedTarget(t *testing.T) {
	obs := makeResource("Observation", "o1", map[string]interface{}{
		"subject": refTo("Patient/absent"),
	})

	refs := NewMapScanner(NewPool(obs)).References(obs)
	if len(refs) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(refs))
	}
	if refs[0].Target != nil {
		t.Error("expected unresolved reference to have nil target")
	}
}

func TestMapScannerLocalReferenceNotResolved(t *testing.T) {
	med := makeResource("Medication", "med1", nil)
	req := makeResource("MedicationRequest", "mr1", map[string]interface{}{
		"medicationReference": refTo("#med1"),
	})

	refs := NewMapScanner(NewPool(med, req)).References(req)
	if len(refs) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(refs))
	}
	if !refs[0].IsLocal() {
		t.Error("expected local reference")
	}
	if refs[0].Target != nil {
		t.Error("local references must not resolve against the pool")
	}
}

func TestReferenceParamName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"subject", "subject"},
		{"performer[0].actor", "performer"},
		{"link[2].other", "link"},
	}
	for _, tt := range tests {
		ref := Reference{Path: tt.path}
		if got := ref.ParamName(); got != tt.want {
			t.Errorf("ParamName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPoolFind(t *testing.T) {
	patient := makeResource("Patient", "p1", nil)
	pool := NewPool(patient)

	if pool.Find(ParseIdentity("Patient/p1")) != patient {
		t.Error("expected pool hit for Patient/p1")
	}
	if pool.Find(ParseIdentity("Patient/other")) != nil {
		t.Error("expected pool miss for unknown id")
	}
	if pool.Find(ParseIdentity("https://x.example.org/fhir/Patient/p1/_history/9")) != patient {
		t.Error("expected base and version to be ignored on lookup")
	}
}

func TestPoolSkipsIDLessResources(t *testing.T) {
	pool := NewPool(FromMap(map[string]interface{}{"resourceType": "Patient"}))
	if pool.Find(Identity{Type: "Patient"}) != nil {
		t.Error("expected id-less resource to be unindexed")
	}
}
