package server

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	errs "github.com/matzehuels/distortviz/pkg/errors"
	"github.com/matzehuels/distortviz/pkg/graph"
	"github.com/matzehuels/distortviz/pkg/view"
)

// session is one browser view: its controller and its event stream.
type session struct {
	id   string
	ctrl *view.Controller
	hub  *hub
}

type registry struct {
	mu    sync.RWMutex
	views map[string]*session
}

func newRegistry() *registry {
	return &registry{views: make(map[string]*session)}
}

// create starts a session whose frames go to its hub.
func (r *registry) create(logger *log.Logger, build func(view.RenderFunc) *view.Controller) *session {
	id := uuid.NewString()
	h := newHub(logger.With("view", id))
	s := &session{id: id, hub: h}
	s.ctrl = build(func(_ graph.Slot, f view.Frame) {
		h.publish("frame", f)
	})

	r.mu.Lock()
	r.views[id] = s
	r.mu.Unlock()
	return s
}

func (r *registry) get(id string) (*session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.views[id]
	if !ok {
		return nil, errs.New(errs.ErrCodeNotFound, "view %s not found", id)
	}
	return s, nil
}

func (r *registry) remove(id string) bool {
	r.mu.Lock()
	s, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()
	if ok {
		s.hub.close()
	}
	return ok
}

func (r *registry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

func (r *registry) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.views {
		s.hub.close()
	}
}
