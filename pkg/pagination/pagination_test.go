package pagination

import (
	"net/url"
	"testing"
)

func TestFromQueryDefaults(t *testing.T) {
	p := FromQuery(url.Values{})
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}

func TestFromQueryFHIRNames(t *testing.T) {
	q := url.Values{"_count": {"10"}, "_offset": {"30"}}
	p := FromQuery(q)
	if p.Limit != 10 || p.Offset != 30 {
		t.Errorf("unexpected params %+v", p)
	}
}

func TestFromQueryFallbackNames(t *testing.T) {
	q := url.Values{"limit": {"15"}, "offset": {"5"}}
	p := FromQuery(q)
	if p.Limit != 15 || p.Offset != 5 {
		t.Errorf("unexpected params %+v", p)
	}
}

func TestFromQueryCapsLimit(t *testing.T) {
	q := url.Values{"_count": {"5000"}}
	if p := FromQuery(q); p.Limit != MaxLimit {
		t.Errorf("expected limit capped at %d, got %d", MaxLimit, p.Limit)
	}
}

func TestLinksMiddlePage(t *testing.T) {
	p := Params{Limit: 20, Offset: 20}
	links := p.Links("https://example.org/fhir/Patient", "gender=female", 100)

	if links.Self != "https://example.org/fhir/Patient?gender=female&_offset=20&_count=20" {
		t.Errorf("unexpected self link %q", links.Self)
	}
	if links.Next != "https://example.org/fhir/Patient?gender=female&_offset=40&_count=20" {
		t.Errorf("unexpected next link %q", links.Next)
	}
	if links.Previous != "https://example.org/fhir/Patient?gender=female&_offset=0&_count=20" {
		t.Errorf("unexpected previous link %q", links.Previous)
	}
}

func TestLinksFirstPage(t *testing.T) {
	p := Params{Limit: 20, Offset: 0}
	links := p.Links("https://example.org/fhir/Patient", "", 10)

	if links.Next != "" {
		t.Error("expected no next link when all results fit")
	}
	if links.Previous != "" {
		t.Error("expected no previous link on the first page")
	}
	if links.Self == "" {
		t.Error("expected a self link")
	}
}

func TestLinksLastPagePreviousFloored(t *testing.T) {
	p := Params{Limit: 20, Offset: 10}
	links := p.Links("https://example.org/fhir/Patient", "", 30)

	if links.Previous != "https://example.org/fhir/Patient?_offset=0&_count=20" {
		t.Errorf("expected previous offset floored at 0, got %q", links.Previous)
	}
}
