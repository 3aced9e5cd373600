package hostapp

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrWrongThread is returned when host data is mutated off the main thread.
	ErrWrongThread = errors.New("hostapp: mutation off the main thread")

	// ErrObjectExists is returned when adding a name already in the scene.
	ErrObjectExists = errors.New("hostapp: object exists")

	// ErrObjectNotFound is returned for unknown object names.
	ErrObjectNotFound = errors.New("hostapp: object not found")
)

// Vector is a location in scene space.
type Vector [3]float64

// Object is a named scene object.
type Object struct {
	Name     string
	Location Vector
}

// State is the host's scene data: objects, a frame counter and named text
// buffers. Reads are safe from any goroutine; mutations are only accepted on
// the main thread.
type State struct {
	onMain func() bool

	mu      sync.RWMutex
	objects map[string]*Object
	texts   map[string]string
	frame   int
}

// NewState creates an empty State. onMain reports whether the caller is on
// the main thread; a nil onMain accepts every caller.
func NewState(onMain func() bool) *State {
	return &State{
		onMain:  onMain,
		objects: make(map[string]*Object),
		texts:   make(map[string]string),
	}
}

func (s *State) guard() error {
	if s.onMain != nil && !s.onMain() {
		return ErrWrongThread
	}
	return nil
}

// Add inserts a new object.
func (s *State) Add(name string, loc Vector) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[name]; ok {
		return fmt.Errorf("%w: %q", ErrObjectExists, name)
	}
	s.objects[name] = &Object{Name: name, Location: loc}
	return nil
}

// Remove deletes an object.
func (s *State) Remove(name string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[name]; !ok {
		return fmt.Errorf("%w: %q", ErrObjectNotFound, name)
	}
	delete(s.objects, name)
	return nil
}

// Move sets an object's location.
func (s *State) Move(name string, loc Vector) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrObjectNotFound, name)
	}
	obj.Location = loc
	return nil
}

// Location returns an object's location.
func (s *State) Location(name string) (Vector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[name]
	if !ok {
		return Vector{}, fmt.Errorf("%w: %q", ErrObjectNotFound, name)
	}
	return obj.Location, nil
}

// Objects returns object names in sorted order.
func (s *State) Objects() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Frame returns the current frame number.
func (s *State) Frame() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// Tick advances the frame counter. The loop calls it once per idle cycle.
func (s *State) Tick() {
	if s.guard() != nil {
		return
	}
	s.mu.Lock()
	s.frame++
	s.mu.Unlock()
}

// SetText replaces the contents of a text buffer, creating it if needed.
func (s *State) SetText(name, text string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[name] = text
	return nil
}

// Text returns a text buffer's contents.
func (s *State) Text(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.texts[name]
	return text, ok
}

// Texts returns text buffer names in sorted order.
func (s *State) Texts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.texts))
	for name := range s.texts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scratch returns a buffer view that mirrors payloads into the named text.
func (s *State) Scratch(name string) *Scratch {
	return &Scratch{state: s, name: name}
}

// Scratch is a named text buffer used to show the last payload.
type Scratch struct {
	state *State
	name  string
}

// SetText replaces the buffer contents. Off-thread writes are ignored.
func (b *Scratch) SetText(text string) {
	_ = b.state.SetText(b.name, text)
}

// Name returns the buffer name.
func (b *Scratch) Name() string { return b.name }
