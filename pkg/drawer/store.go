package drawer

import (
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Payload is the type-agnostic payload of an instance. Stored payloads are
// never mutated in place; updates replace the map.
type Payload map[string]any

// Instance is one open drawer.
type Instance struct {
	UUID    string  `json:"uuid"`
	Type    string  `json:"type"`
	Payload Payload `json:"payload"`
	IsDirty bool    `json:"isDirty"`
}

// Hooks observe stack changes. They run after the mutation, outside the
// store lock.
type Hooks struct {
	OnOpen  func(opened Instance, depth int)
	OnClose func(closed []Instance)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithHooks installs observation hooks.
func WithHooks(h Hooks) StoreOption {
	return func(s *Store) { s.hooks = h }
}

// WithIDGenerator replaces the uuid source.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) { s.newID = fn }
}

// Store is the ordered stack of open drawers. Every mutation replaces the
// stack slice under one mutex, so mutations apply in call order. Readers
// only ever get copies; changing a returned Instance or Payload does not
// touch the store.
type Store struct {
	hooks Hooks
	newID func() string

	mu        sync.Mutex
	stack     []Instance
	listeners map[int]func([]Instance)
	nextSub   int
}

// NewStore creates an empty stack.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		newID:     uuid.NewString,
		listeners: make(map[int]func([]Instance)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open pushes a new clean instance and returns its id. The type is not
// checked against any registry.
func (s *Store) Open(typ string, payload Payload) string {
	inst := Instance{
		UUID:    s.newID(),
		Type:    typ,
		Payload: clonePayload(payload),
	}

	s.mu.Lock()
	next := make([]Instance, len(s.stack), len(s.stack)+1)
	copy(next, s.stack)
	s.stack = append(next, inst)
	snap := s.stack
	s.mu.Unlock()

	if s.hooks.OnOpen != nil {
		s.hooks.OnOpen(inst.clone(), len(snap))
	}
	s.publish(snap)
	return inst.UUID
}

// Close removes the instance and everything above it. Unknown ids are
// ignored.
func (s *Store) Close(id string) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.truncateLocked(i)
}

// CloseTop removes the topmost instance.
func (s *Store) CloseTop() {
	s.mu.Lock()
	if len(s.stack) == 0 {
		s.mu.Unlock()
		return
	}
	s.truncateLocked(len(s.stack) - 1)
}

// CloseAll empties the stack.
func (s *Store) CloseAll() {
	s.mu.Lock()
	if len(s.stack) == 0 {
		s.mu.Unlock()
		return
	}
	s.truncateLocked(0)
}

// truncateLocked keeps stack[:i], releases the lock and notifies.
func (s *Store) truncateLocked(i int) {
	closed := slices.Clone(s.stack[i:])
	s.stack = slices.Clone(s.stack[:i])
	snap := s.stack
	s.mu.Unlock()

	if s.hooks.OnClose != nil {
		s.hooks.OnClose(closed)
	}
	s.publish(snap)
}

// SetDirty sets the dirty flag of one instance.
func (s *Store) SetDirty(id string, dirty bool) {
	s.update(id, func(inst *Instance) bool {
		if inst.IsDirty == dirty {
			return false
		}
		inst.IsDirty = dirty
		return true
	})
}

// UpdatePayload shallow-merges partial into the instance payload.
func (s *Store) UpdatePayload(id string, partial Payload) {
	s.update(id, func(inst *Instance) bool {
		merged := clonePayload(inst.Payload)
		maps.Copy(merged, partial)
		inst.Payload = merged
		return true
	})
}

func (s *Store) update(id string, fn func(*Instance) bool) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	next := slices.Clone(s.stack)
	if !fn(&next[i]) {
		s.mu.Unlock()
		return
	}
	s.stack = next
	snap := s.stack
	s.mu.Unlock()

	s.publish(snap)
}

// Get returns the instance with id.
func (s *Store) Get(id string) (Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Instance{}, false
	}
	return s.stack[i].clone(), true
}

// IndexOf returns the stack position of id, or -1.
func (s *Store) IndexOf(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(id)
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.stack, func(inst Instance) bool { return inst.UUID == id })
}

// Top returns the topmost instance.
func (s *Store) Top() (Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.stack) == 0 {
		return Instance{}, false
	}
	return s.stack[len(s.stack)-1].clone(), true
}

// Snapshot returns a copy of the current stack, bottom first.
func (s *Store) Snapshot() []Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneStack(s.stack)
}

// Len returns the stack depth.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stack)
}

// Subscribe registers fn to receive every new snapshot and returns a
// function that removes it. fn runs on the mutating goroutine; with
// concurrent writers it may be called concurrently, so consumers that only
// care about the latest state should re-read Snapshot.
func (s *Store) Subscribe(fn func([]Instance)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) publish(snap []Instance) {
	s.mu.Lock()
	fns := make([]func([]Instance), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(cloneStack(snap))
	}
}

func (inst Instance) clone() Instance {
	inst.Payload = clonePayload(inst.Payload)
	return inst
}

func cloneStack(stack []Instance) []Instance {
	out := make([]Instance, len(stack))
	for i, inst := range stack {
		out[i] = inst.clone()
	}
	return out
}

func clonePayload(p Payload) Payload {
	if p == nil {
		return Payload{}
	}
	return maps.Clone(p)
}
