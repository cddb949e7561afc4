package cypher

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	query, err := Render("find_nodes_by_keys.cql", map[string]string{"LabelPattern": ":App"})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(query, "MATCH (n:App)") {
		t.Fatalf("label pattern not rendered: %s", query)
	}
	if !strings.Contains(query, "IN $keys") {
		t.Fatalf("expected IN predicate: %s", query)
	}
}

func TestRenderMissingTemplate(t *testing.T) {
	if _, err := Render("missing.cql", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestRaw(t *testing.T) {
	query, err := Raw("stale_node_keys.cql")
	if err != nil {
		t.Fatalf("raw failed: %v", err)
	}
	if !strings.Contains(query, "$retention_run_id") {
		t.Fatalf("unexpected stale query: %s", query)
	}
}

func TestMustRenderPanicsOnMissingTemplate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustRender("missing.cql", nil)
}
