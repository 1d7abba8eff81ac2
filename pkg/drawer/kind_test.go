package drawer

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	aerrors "github.com/vango-dev/adminkit/internal/errors"
	"github.com/vango-dev/adminkit/pkg/view"
)

type productPayload struct {
	EntityID string `json:"entityId,omitempty"`
	Tab      string `json:"tab,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
}

var productKind = NewKind[productPayload]("product")

func TestKindOpenAndDecode(t *testing.T) {
	s := NewStore()
	id, err := productKind.Open(s, productPayload{EntityID: "1", Quantity: 3})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}

	inst, ok := s.Get(id)
	if !ok || inst.Type != "product" {
		t.Fatalf("Get = %+v, %v", inst, ok)
	}
	if inst.Payload["entityId"] != "1" {
		t.Errorf("raw payload = %v", inst.Payload)
	}

	got, err := productKind.Decode(inst.Payload)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if diff := cmp.Diff(productPayload{EntityID: "1", Quantity: 3}, got); diff != "" {
		t.Errorf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestKindDecodeMismatch(t *testing.T) {
	_, err := productKind.Decode(Payload{"quantity": "many"})
	if !aerrors.HasCode(err, "E031") {
		t.Errorf("err = %v, want E031", err)
	}
}

func TestKindPayloadReflectsUpdates(t *testing.T) {
	reg := NewRegistry()
	r := NewRenderer(reg)
	var got productPayload
	productKind.Register(reg, Definition{Title: "Product", Component: func(ctx context.Context) *view.Node {
		dc := MustFromContext(ctx)
		if err := productKind.Update(dc, productPayload{Tab: "pricing"}); err != nil {
			t.Errorf("Update error: %v", err)
		}
		got, _ = productKind.Payload(dc)
		return nil
	}})
	if !reg.Has("product") {
		t.Fatal("Kind.Register did not use the kind's type key")
	}

	s := NewStore()
	if _, err := productKind.Open(s, productPayload{EntityID: "7", Tab: "general"}); err != nil {
		t.Fatal(err)
	}
	r.Render(context.Background(), s, nil)

	if diff := cmp.Diff(productPayload{EntityID: "7", Tab: "pricing"}, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

type orderPayload struct {
	OrderID string `json:"orderId"`
	Tab     string `json:"tab"`
	Lines   int    `json:"lines"`
}

func TestKindUpdateKeepsZeroFields(t *testing.T) {
	orderKind := NewKind[orderPayload]("order")
	s := NewStore()
	id, err := orderKind.Open(s, orderPayload{OrderID: "o1", Lines: 2})
	if err != nil {
		t.Fatal(err)
	}
	dc := &Context{uuid: id, typ: "order", store: s}

	if err := orderKind.Update(dc, orderPayload{Tab: "shipping"}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	got, err := orderKind.Payload(dc)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(orderPayload{OrderID: "o1", Tab: "shipping", Lines: 2}, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}

	// Clearing goes through the untyped merge.
	dc.UpdatePayload(Payload{"tab": ""})
	got, _ = orderKind.Payload(dc)
	if got.Tab != "" || got.OrderID != "o1" {
		t.Errorf("after clearing tab: %+v", got)
	}
}

func TestKindOpenerWarnsForUnregisteredType(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	reg := NewRegistry()
	s := NewStore()

	open := productKind.Opener(reg, s, logger)
	if _, err := open(productPayload{EntityID: "1"}); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Error("unregistered type was not opened")
	}
	if !strings.Contains(buf.String(), "unregistered drawer type") {
		t.Errorf("expected a warning, got %q", buf.String())
	}

	buf.Reset()
	reg.Register(Definition{Type: "product", Component: func(context.Context) *view.Node { return nil }})
	if _, err := open(productPayload{EntityID: "2"}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log for a registered type: %q", buf.String())
	}
}
