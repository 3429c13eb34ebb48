package filters

import (
	"context"
	"testing"

	domcat "github.com/kailas-cloud/songsearch/internal/domain/catalog"
	"github.com/kailas-cloud/songsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/songsearch/internal/repository/catalog"
)

func TestList_SeedCatalog(t *testing.T) {
	c, err := catalog.Seed()
	if err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	svc := New(c, filter.DefaultDimensions())

	defs := svc.List(context.Background())
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}

	bands := defs[0]
	if bands.Name != "bands" || bands.Kind != filter.MultiSelect {
		t.Errorf("unexpected first definition: %+v", bands)
	}
	want := []string{"Pink Floyd", "Rolling Stones", "The Beatles", "Led Zeppelin", "Queen", "AC/DC"}
	if len(bands.Options) != len(want) {
		t.Fatalf("expected %d band options, got %d", len(want), len(bands.Options))
	}
	for i, w := range want {
		if bands.Options[i].Name != w || bands.Options[i].Value != w {
			t.Errorf("option %d: expected %q, got %+v", i, w, bands.Options[i])
		}
	}

	single := defs[1]
	if single.Name != "is_single" || single.Kind != filter.Toggle {
		t.Errorf("unexpected second definition: %+v", single)
	}
	if len(single.Options) != 0 {
		t.Errorf("toggle must have no options, got %v", single.Options)
	}
}

func TestList_Idempotent(t *testing.T) {
	c, err := catalog.Seed()
	if err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	svc := New(c, filter.DefaultDimensions())

	first := svc.List(context.Background())
	second := svc.List(context.Background())

	if len(first) != len(second) {
		t.Fatalf("definition count changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name || first[i].Kind != second[i].Kind {
			t.Errorf("definition %d differs between calls", i)
		}
		a, b := optionSet(first[i].Options), optionSet(second[i].Options)
		if len(a) != len(b) {
			t.Errorf("definition %q: option sets differ in size: %d vs %d", first[i].Name, len(a), len(b))
		}
		for o := range a {
			if _, ok := b[o]; !ok {
				t.Errorf("definition %q: option %+v missing from second call", first[i].Name, o)
			}
		}
	}
}

func optionSet(opts []filter.Option) map[filter.Option]struct{} {
	set := make(map[filter.Option]struct{}, len(opts))
	for _, o := range opts {
		set[o] = struct{}{}
	}
	return set
}

func TestList_EmptyCatalogKeepsDefinitions(t *testing.T) {
	c, err := domcat.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	svc := New(c, filter.DefaultDimensions())

	defs := svc.List(context.Background())
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}
	if defs[0].Name != "bands" || len(defs[0].Options) != 0 {
		t.Errorf("expected empty bands definition, got %+v", defs[0])
	}
}
