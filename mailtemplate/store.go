package mailtemplate

import (
	"fmt"
	"sync"

	"github.com/masa23/crmmail/model"
)

type Store interface {
	Get(id string) (model.EmailTemplate, bool)
	List() []model.EmailTemplate
}

// MemoryStore keeps templates in insertion order.
type MemoryStore struct {
	mu        sync.RWMutex
	order     []string
	templates map[string]model.EmailTemplate
}

// NewMemoryStore validates and stores templates. Ids must be unique.
func NewMemoryStore(templates ...model.EmailTemplate) (*MemoryStore, error) {
	s := &MemoryStore{templates: map[string]model.EmailTemplate{}}
	for _, t := range templates {
		if err := s.Put(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewBuiltinStore returns a store seeded with Builtin().
func NewBuiltinStore() *MemoryStore {
	s, err := NewMemoryStore(Builtin()...)
	if err != nil {
		panic(err)
	}
	return s
}

// Put adds or replaces t after validating its declared variables.
func (s *MemoryStore) Put(t model.EmailTemplate) error {
	if t.ID == "" {
		return fmt.Errorf("template id is empty")
	}
	if err := Validate(t); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.templates[t.ID] = t
	return nil
}

func (s *MemoryStore) Get(id string) (model.EmailTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[id]
	return t, ok
}

func (s *MemoryStore) List() []model.EmailTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]model.EmailTemplate, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.templates[id])
	}
	return list
}

// Engine resolves active templates from a Store and renders them.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Template returns the active template id.
func (e *Engine) Template(id string) (model.EmailTemplate, error) {
	t, ok := e.store.Get(id)
	if !ok || !t.IsActive {
		return model.EmailTemplate{}, fmt.Errorf("%s: %w", id, ErrTemplateNotFound)
	}
	return t, nil
}

// Process renders the active template id with vars.
func (e *Engine) Process(id string, vars map[string]string) (Processed, error) {
	t, err := e.Template(id)
	if err != nil {
		return Processed{}, err
	}
	return Render(t, vars), nil
}

// List returns the active templates, restricted to category when it is set.
func (e *Engine) List(category model.TemplateCategory) []model.EmailTemplate {
	list := []model.EmailTemplate{}
	for _, t := range e.store.List() {
		if !t.IsActive {
			continue
		}
		if category != "" && t.Category != category {
			continue
		}
		list = append(list, t)
	}
	return list
}
