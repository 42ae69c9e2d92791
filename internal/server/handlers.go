package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/arbor/pkg/buildinfo"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/graph"
	"github.com/matzehuels/arbor/pkg/pipeline"
	"github.com/matzehuels/arbor/pkg/store"
)

// layoutRequest is the body of POST /v1/layout and POST /v1/layouts.
type layoutRequest struct {
	Tree    *graph.Tree      `json:"tree"`
	Options pipeline.Options `json:"options"`
}

// layoutResponse is the body returned by POST /v1/layout.
type layoutResponse struct {
	TreeHash string       `json:"tree_hash"`
	CacheHit bool         `json:"cache_hit"`
	Stats    statsBody    `json:"stats"`
	Layout   graph.Layout `json:"layout"`
}

type statsBody struct {
	Nodes        int     `json:"nodes"`
	Leaves       int     `json:"leaves"`
	MaxDepth     int     `json:"max_depth"`
	LayoutMillis float64 `json:"layout_ms"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type listResponse struct {
	Layouts []store.Record `json:"layouts"`
	Count   int            `json:"count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	res, ok := s.computeLayout(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		TreeHash: res.TreeHash,
		CacheHit: res.CacheHit,
		Stats: statsBody{
			Nodes:        res.Stats.NodeCount,
			Leaves:       res.Stats.LeafCount,
			MaxDepth:     res.Stats.MaxDepth,
			LayoutMillis: float64(res.Stats.LayoutTime) / float64(time.Millisecond),
		},
		Layout: res.Layout,
	})
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	res, ok := s.computeLayout(w, r)
	if !ok {
		return
	}
	rec := store.NewRecord(res.TreeHash, res.Layout)
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/layouts/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.ListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer, got %q", v))
			return
		}
		limit = min(n, s.cfg.ListLimit)
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, listResponse{Layouts: recs, Count: len(recs)})
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.runner.Tree(r.Context(), chi.URLParam(r, "hash"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// computeLayout decodes a layoutRequest and runs the pipeline. On failure
// it writes the error response and returns false.
func (s *Server) computeLayout(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	req, err := s.decodeLayoutRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	opts := s.withDefaults(req.Options)
	opts.Logger = s.logger.With("request_id", requestID(r))

	res, err := s.runner.Layout(r.Context(), *req.Tree, opts)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return res, true
}

func (s *Server) decodeLayoutRequest(w http.ResponseWriter, r *http.Request) (*layoutRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req layoutRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
	}
	if req.Tree == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree is required")
	}
	return &req, nil
}

// withDefaults fills options the request left unset from the server
// defaults. Node size is only inherited when the request sets neither.
func (s *Server) withDefaults(o pipeline.Options) pipeline.Options {
	d := s.cfg.Defaults
	if o.Algorithm == "" {
		o.Algorithm = d.Algorithm
	}
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.Separation == "" {
		o.Separation = d.Separation
	}
	if o.Orientation == "" {
		o.Orientation = d.Orientation
	}
	if o.NodeWidth == 0 && o.NodeHeight == 0 {
		o.NodeWidth, o.NodeHeight = d.NodeWidth, d.NodeHeight
	}
	return o
}
