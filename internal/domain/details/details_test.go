package details

import (
	"encoding/json"
	"testing"
)

func TestBuild(t *testing.T) {
	typ := "song"
	ev := &Event{
		Type:        EventType,
		User:        "U123",
		ExternalRef: ExternalRef{ID: "queen-001", Type: &typ},
		TriggerID:   "trig-1",
		Link:        Link{URL: "https://example.com/queen/bohemian-rhapsody", Domain: "example.com"},
	}

	p := Build(ev, DefaultPlaceholder())

	if p.TriggerID != "trig-1" {
		t.Errorf("TriggerID = %q", p.TriggerID)
	}
	if p.Metadata.EntityType != EntityType {
		t.Errorf("EntityType = %q", p.Metadata.EntityType)
	}
	if p.Metadata.URL != ev.Link.URL {
		t.Errorf("URL = %q", p.Metadata.URL)
	}
	if p.Metadata.ExternalRef.ID != "queen-001" || p.Metadata.ExternalRef.Type != nil {
		t.Errorf("ExternalRef = %+v", p.Metadata.ExternalRef)
	}
	title := p.Metadata.EntityPayload.Attributes.Title
	if title.Text != "hello world" || !title.Edit.Enabled || title.Edit.Text.MaxLength != 50 {
		t.Errorf("Title = %+v", title)
	}
	fields := p.Metadata.EntityPayload.CustomFields
	if len(fields) != 1 || fields[0].Key != "description" || fields[0].Value != "This is a description" {
		t.Errorf("CustomFields = %+v", fields)
	}
}

func TestBuild_IgnoresReferencedEntityForContent(t *testing.T) {
	a := Build(&Event{ExternalRef: ExternalRef{ID: "pf-001"}}, DefaultPlaceholder())
	b := Build(&Event{ExternalRef: ExternalRef{ID: "acdc-001"}}, DefaultPlaceholder())

	if a.Metadata.EntityPayload.Attributes.Title.Text != b.Metadata.EntityPayload.Attributes.Title.Text {
		t.Error("placeholder title should not depend on the referenced entity")
	}
}

func TestPayload_JSONShape(t *testing.T) {
	data, err := json.Marshal(Build(&Event{TriggerID: "t", Link: Link{URL: "u"}}, DefaultPlaceholder()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	meta, ok := m["metadata"].(map[string]any)
	if !ok {
		t.Fatalf("metadata missing: %s", data)
	}
	for _, key := range []string{"entity_type", "url", "external_ref", "entity_payload"} {
		if _, ok := meta[key]; !ok {
			t.Errorf("metadata.%s missing: %s", key, data)
		}
	}
}
