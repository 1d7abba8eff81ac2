package drawer

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/adminkit/pkg/view"
)

func textComponent(s string) Component {
	return func(ctx context.Context) *view.Node { return view.Text(s) }
}

func TestRegistryRegisterGetHas(t *testing.T) {
	r := NewRegistry()
	r.Register(Definition{Type: "product", Title: "Product", Component: textComponent("p"), Width: 800})

	if !r.Has("product") || r.Has("category") {
		t.Error("Has reported wrong membership")
	}
	def, ok := r.Get("product")
	if !ok || def.Width != 800 || def.Title != "Product" {
		t.Errorf("Get = %+v, %v", def, ok)
	}
	if def.DirtyClose != DirtyCloseConfirm {
		t.Errorf("default DirtyClose = %v, want confirm", def.DirtyClose)
	}
	if _, ok := r.Get("category"); ok {
		t.Error("Get returned an unregistered type")
	}
}

func TestRegistryDuplicateWarnsAndOverwrites(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := NewRegistry(WithRegistryLogger(logger))

	r.Register(Definition{Type: "product", Width: 600})
	r.Register(Definition{Type: "product", Width: 900})

	def, _ := r.Get("product")
	if def.Width != 900 {
		t.Errorf("Width = %d, want the later registration", def.Width)
	}
	if !strings.Contains(buf.String(), "already registered") || !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected a warning, log was %q", buf.String())
	}
	if diff := cmp.Diff([]string{"product"}, r.Types()); diff != "" {
		t.Errorf("Types mismatch:\n%s", diff)
	}
}

func TestRegistryRejectsIncompleteDefinitions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := NewRegistry(WithRegistryLogger(logger))

	r.Register(Definition{Title: "No type", Component: textComponent("x")})
	if r.Len() != 0 || r.Has("") {
		t.Error("definition without a type was registered")
	}
	if !strings.Contains(buf.String(), "has no type") {
		t.Errorf("expected an error log, got %q", buf.String())
	}

	buf.Reset()
	r.Register(Definition{Type: "stub"})
	if !r.Has("stub") {
		t.Error("definition without a component should still be listed")
	}
	if !strings.Contains(buf.String(), "has no component") || !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}

func TestRegistryManyUnregisterClear(t *testing.T) {
	r := NewRegistry()
	r.RegisterMany(
		Definition{Type: "product"},
		Definition{Type: "category"},
		Definition{Type: "order"},
	)
	if diff := cmp.Diff([]string{"product", "category", "order"}, r.Types()); diff != "" {
		t.Errorf("Types mismatch:\n%s", diff)
	}

	if !r.Unregister("category") {
		t.Error("Unregister(category) = false")
	}
	if r.Unregister("category") {
		t.Error("second Unregister(category) = true")
	}
	var got []string
	for _, d := range r.All() {
		got = append(got, d.Type)
	}
	if diff := cmp.Diff([]string{"product", "order"}, got); diff != "" {
		t.Errorf("All mismatch:\n%s", diff)
	}

	r.Clear()
	if r.Len() != 0 || len(r.Types()) != 0 {
		t.Error("Clear left definitions behind")
	}
}

func TestRegistrySubscribe(t *testing.T) {
	r := NewRegistry()
	calls := 0
	unsubscribe := r.Subscribe(func() { calls++ })

	r.Register(Definition{Type: "a"})
	r.Register(Definition{Type: "a"})
	r.Unregister("a")
	r.Unregister("a") // no change, no notification
	r.Clear()
	if calls != 4 {
		t.Errorf("listener called %d times, want 4", calls)
	}

	unsubscribe()
	r.Register(Definition{Type: "b"})
	if calls != 4 {
		t.Errorf("listener called after unsubscribe")
	}
}

func TestDirtyCloseString(t *testing.T) {
	if DirtyCloseConfirm.String() != "confirm" || DirtyCloseDiscard.String() != "discard" {
		t.Error("unexpected DirtyClose strings")
	}
}
