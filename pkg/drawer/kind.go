package drawer

import (
	"encoding/json"
	"log/slog"
	"reflect"

	aerrors "github.com/vango-dev/adminkit/internal/errors"
)

// Kind binds a drawer type key to its payload struct P. P is converted to
// and from Payload through its JSON form, so json tags name the keys.
type Kind[P any] struct {
	typ string
}

// NewKind returns the Kind for type key typ.
func NewKind[P any](typ string) Kind[P] {
	return Kind[P]{typ: typ}
}

// Type returns the type key.
func (k Kind[P]) Type() string { return k.typ }

// Register registers def under this kind's type key.
func (k Kind[P]) Register(reg *Registry, def Definition) {
	def.Type = k.typ
	reg.Register(def)
}

// Encode converts p to a Payload.
func (k Kind[P]) Encode(p P) (Payload, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, k.codecError(err)
	}
	var out Payload
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, k.codecError(err)
	}
	return out, nil
}

// Decode converts a Payload to P.
func (k Kind[P]) Decode(payload Payload) (P, error) {
	var out P
	data, err := json.Marshal(payload)
	if err != nil {
		return out, k.codecError(err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, k.codecError(err)
	}
	return out, nil
}

// Open pushes a drawer of this kind.
func (k Kind[P]) Open(store *Store, p P) (string, error) {
	payload, err := k.Encode(p)
	if err != nil {
		return "", err
	}
	return store.Open(k.typ, payload), nil
}

// Payload decodes the live payload of the drawer behind dc.
func (k Kind[P]) Payload(dc *Context) (P, error) {
	return k.Decode(dc.Payload())
}

// Update merges the fields of partial that differ from the zero P into the
// payload. Zero-valued fields are left alone whether or not they are tagged
// omitempty, so Update cannot clear a field; use Context.UpdatePayload for
// that.
func (k Kind[P]) Update(dc *Context, partial P) error {
	payload, err := k.Encode(partial)
	if err != nil {
		return err
	}
	var zero P
	blank, err := k.Encode(zero)
	if err != nil {
		return err
	}
	for key, v := range payload {
		if z, ok := blank[key]; ok && reflect.DeepEqual(v, z) {
			delete(payload, key)
		}
	}
	if len(payload) == 0 {
		return nil
	}
	dc.UpdatePayload(payload)
	return nil
}

// Opener returns a typed open function for one store. Opening a type that
// reg does not know logs a warning and still opens the drawer.
func (k Kind[P]) Opener(reg *Registry, store *Store, logger *slog.Logger) func(P) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(p P) (string, error) {
		if !reg.Has(k.typ) {
			logger.Warn("opening unregistered drawer type", "type", k.typ)
		}
		return k.Open(store, p)
	}
}

func (k Kind[P]) codecError(err error) error {
	return aerrors.New("E031").WithField("type", k.typ).Wrap(err)
}
