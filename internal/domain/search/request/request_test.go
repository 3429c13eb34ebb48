package request

import (
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/songsearch/internal/domain/search/filter"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return m
}

func TestParse_Empty(t *testing.T) {
	s := Parse(nil, filter.DefaultDimensions())
	if !s.IsEmpty() {
		t.Error("nil input should be an empty selection")
	}
	if s.Value("bands").IsActive() {
		t.Error("bands should be inactive")
	}
}

func TestParse_BothActive(t *testing.T) {
	s := Parse(decode(t, `{"is_single": true, "bands": ["Pink Floyd"]}`), filter.DefaultDimensions())
	if s.IsEmpty() {
		t.Fatal("expected active selection")
	}
	if !s.Value("is_single").On() {
		t.Error("is_single should be on")
	}
	if got := s.Value("bands").Values(); len(got) != 1 || got[0] != "Pink Floyd" {
		t.Errorf("bands = %v", got)
	}
	if len(s.Active()) != 2 {
		t.Errorf("Active() = %v", s.Active())
	}
}

func TestParse_IgnoresUnknownAndMalformed(t *testing.T) {
	s := Parse(decode(t, `{"tempo": "fast", "is_single": "false", "bands": 7}`), filter.DefaultDimensions())
	if !s.IsEmpty() {
		t.Errorf("expected empty selection, active = %v", s.Active())
	}
}

func TestParseInputs(t *testing.T) {
	dims := filter.DefaultDimensions()

	s := ParseInputs(decode(t, `{"filters": {"bands": ["Queen"]}}`), dims)
	if !s.Value("bands").IsActive() {
		t.Error("bands should be active")
	}

	for _, in := range []string{`{}`, `{"filters": null}`, `{"filters": []}`} {
		if !ParseInputs(decode(t, in), dims).IsEmpty() {
			t.Errorf("ParseInputs(%s) should be empty", in)
		}
	}
}

func TestNew_CopiesValues(t *testing.T) {
	values := map[string]filter.Value{"is_single": filter.ToggleValue(true)}
	s := New(values)
	delete(values, "is_single")

	if !s.Value("is_single").On() {
		t.Error("selection should not share the caller's map")
	}
}
