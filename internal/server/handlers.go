package server

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/distortviz/pkg/distortion"
	errs "github.com/matzehuels/distortviz/pkg/errors"
	"github.com/matzehuels/distortviz/pkg/graph"
	"github.com/matzehuels/distortviz/pkg/region"
	"github.com/matzehuels/distortviz/pkg/render/nodelink"
	"github.com/matzehuels/distortviz/pkg/snapshot"
	"github.com/matzehuels/distortviz/pkg/view"
)

type createdResponse struct {
	ID string `json:"id"`
}

type paramsRequest struct {
	K       int    `json:"k"`
	Measure string `json:"measure" validate:"required"`
}

type paramsResponse struct {
	distortion.Params
	MaxK int `json:"maxK"`
}

type regionRequest struct {
	Region int `json:"region"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"status": "ok", "views": s.views.size()}, http.StatusOK)
}

func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	sess := s.views.create(s.logger, func(render view.RenderFunc) *view.Controller {
		return view.NewController(s.opts.Client,
			view.WithLayoutConfig(s.opts.Layout),
			view.WithParams(s.opts.Params),
			view.WithRenderer(render),
			view.WithLogger(s.logger),
		)
	})
	s.logger.Info("view created", "view", sess.id)
	writeJSON(w, createdResponse{ID: sess.id}, http.StatusCreated)
}

// session resolves {id} or writes the error.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, err := s.views.get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, sess.ctrl.Snapshot(), http.StatusOK)
}

func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.views.remove(sess.id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLoadGraph(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	slot, err := graph.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "bad slot"))
		return
	}
	body := http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := sess.ctrl.LoadGraph(r.Context(), slot, body); err != nil {
		s.writeError(w, r, err)
		return
	}
	snap := sess.ctrl.Snapshot()
	writeJSON(w, snap.Slot(slot), http.StatusOK)
}

func (s *Server) handleSetParams(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req paramsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := distortion.Validate(req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := sess.ctrl.SetParameters(req.K, req.Measure)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, paramsResponse{Params: p, MaxK: sess.ctrl.Snapshot().MaxK}, http.StatusOK)
}

func (s *Server) handleSelectRegion(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req regionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := region.Validate(req.Region); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.ctrl.SelectRegion(req.Region); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, sess.ctrl.Snapshot().Region, http.StatusOK)
}

func (s *Server) handleRunDistortion(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	res, err := sess.ctrl.RunDistortion(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, res, http.StatusOK)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	first, err := encodeEvent("snapshot", sess.ctrl.Snapshot())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.hub.serve(w, r, first)
}

func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap := snapshot.New(sess.ctrl.Snapshot(), r.URL.Query().Get("name"))
	if err := s.opts.Snapshots.Save(r.Context(), snap); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("snapshot saved", "view", sess.id, "snapshot", snap.ID)
	writeJSON(w, createdResponse{ID: snap.ID}, http.StatusCreated)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	list, err := s.opts.Snapshots.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []snapshot.Summary{}
	}
	writeJSON(w, list, http.StatusOK)
}

// loadSnapshot resolves {sid} or writes the error.
func (s *Server) loadSnapshot(w http.ResponseWriter, r *http.Request) (*snapshot.Snapshot, bool) {
	id := chi.URLParam(r, "sid")
	if err := snapshot.ValidateID(id); err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	snap, err := s.opts.Snapshots.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return snap, true
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, snap, http.StatusOK)
}

func (s *Server) diagramOptions() nodelink.Options {
	return nodelink.Options{Width: s.opts.Layout.Width}
}

func (s *Server) handleSnapshotDOT(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(nodelink.SideBySide(snap.View, s.diagramOptions())))
}

func (s *Server) handleSnapshotSVG(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	svg, err := nodelink.RenderSVG(r.Context(), nodelink.SideBySide(snap.View, s.diagramOptions()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = bytes.NewReader(svg).WriteTo(w)
}
