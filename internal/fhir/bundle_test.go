package fhir

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBundleRootPropertiesFirstWriteWins(t *testing.T) {
	b := NewBundle()

	b.SetID("first")
	b.SetID("second")
	if b.ID != "first" {
		t.Errorf("expected first id to win, got %q", b.ID)
	}

	b.SetType(BundleTypeSearchSet)
	b.SetType(BundleTypeTransaction)
	if b.Type != BundleTypeSearchSet {
		t.Errorf("expected first type to win, got %q", b.Type)
	}

	b.SetTotal(5)
	b.SetTotal(50)
	if *b.Total != 5 {
		t.Errorf("expected first total to win, got %d", *b.Total)
	}

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b.SetLastUpdated(first)
	b.SetLastUpdated(first.Add(time.Hour))
	if !b.Meta.LastUpdated.Equal(first) {
		t.Error("expected first lastUpdated to win")
	}
}

func TestBundleAddLinkIdempotent(t *testing.T) {
	b := NewBundle()

	b.AddLink(LinkSelf, "https://example.org/a")
	b.AddLink(LinkSelf, "https://example.org/b")
	b.AddLink(LinkNext, "")

	if len(b.Link) != 1 {
		t.Fatalf("expected 1 link, got %d", len(b.Link))
	}
	if got := b.LinkURL(LinkSelf); got != "https://example.org/a" {
		t.Errorf("expected first self URL to win, got %q", got)
	}
	if b.HasLink(LinkNext) {
		t.Error("expected blank URL to be ignored")
	}
}

func TestBundleTypeIsResponse(t *testing.T) {
	if !BundleTypeBatchResponse.IsResponse() || !BundleTypeTransactionResponse.IsResponse() {
		t.Error("response types must report IsResponse")
	}
	if BundleTypeSearchSet.IsResponse() || BundleTypeTransaction.IsResponse() {
		t.Error("non-response types must not report IsResponse")
	}
}

func TestWeakEtag(t *testing.T) {
	if got := WeakEtag("3"); got != `W/"3"` {
		t.Errorf("WeakEtag = %q", got)
	}
}

func TestBundleJSONRoundTrip(t *testing.T) {
	b := NewBundle()
	b.SetID("b1")
	b.SetType(BundleTypeSearchSet)
	b.SetTotal(1)
	b.AddLink(LinkSelf, "https://example.org/fhir/Patient")
	entry := b.AddEntry()
	entry.FullURL = "https://example.org/fhir/Patient/1"
	entry.Resource = makeResource("Patient", "1", map[string]interface{}{"active": true})
	entry.Search = &BundleSearch{Mode: "match"}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Bundle
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ResourceType != "Bundle" || back.ID != "b1" || back.Type != BundleTypeSearchSet {
		t.Errorf("round trip lost root properties: %+v", back)
	}
	if len(back.Entry) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(back.Entry))
	}
	res := back.Entry[0].Resource
	if res == nil || res.TypeName() != "Patient" || res.ID.ID != "1" {
		t.Errorf("round trip lost entry resource: %+v", res)
	}
}
