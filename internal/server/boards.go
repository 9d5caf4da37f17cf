package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/easelkit/easel/pkg/board"
	"github.com/easelkit/easel/pkg/canvas"
	"github.com/easelkit/easel/pkg/errors"
	"github.com/easelkit/easel/pkg/observability"
)

// =============================================================================
// Board handlers
// =============================================================================

type createBoardRequest struct {
	Name string `json:"name"`
}

// handleBoardCreate handles POST /api/boards.
func (s *Server) handleBoardCreate(w http.ResponseWriter, r *http.Request) {
	var req createBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid request body"))
		return
	}
	if err := errors.ValidateBoardName(req.Name); err != nil {
		s.respondError(w, err)
		return
	}

	b := board.New(req.Name)
	if err := s.boards.Save(r.Context(), b); err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

// handleBoardList handles GET /api/boards.
func (s *Server) handleBoardList(w http.ResponseWriter, r *http.Request) {
	list, err := s.boards.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	if list == nil {
		list = []board.Summary{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"boards": list})
}

// handleBoardGet handles GET /api/boards/{boardID}.
func (s *Server) handleBoardGet(w http.ResponseWriter, r *http.Request) {
	b, err := s.boards.Load(r.Context(), chi.URLParam(r, "boardID"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

// handleBoardDelete handles DELETE /api/boards/{boardID}.
// Deleting an absent board succeeds, matching the store contract.
func (s *Server) handleBoardDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.boards.Delete(r.Context(), chi.URLParam(r, "boardID")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExports handles GET /api/boards/{boardID}/exports.
func (s *Server) handleExports(w http.ResponseWriter, r *http.Request) {
	b, err := s.boards.Load(r.Context(), chi.URLParam(r, "boardID"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	m, err := b.ToManager()
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"exports": m.Exports()})
}

// =============================================================================
// Node handlers
// =============================================================================

type rectPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (p rectPayload) rect() canvas.Rect {
	return canvas.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

type createNodeRequest struct {
	SourceID   string       `json:"source_id"`
	ImageURL   string       `json:"image_url"`
	RatioLabel string       `json:"ratio_label,omitempty"`
	Anchor     *rectPayload `json:"anchor,omitempty"`
}

// handleNodeCreate handles POST /api/boards/{boardID}/nodes.
// The anchor rect comes from the client, which owns source geometry.
// A missing or zero-area anchor yields 422 and no node.
func (s *Server) handleNodeCreate(w http.ResponseWriter, r *http.Request) {
	var req createNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid request body"))
		return
	}
	if req.SourceID == "" {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "source_id is required"))
		return
	}
	if err := errors.ValidateURL(req.ImageURL); err != nil {
		s.respondError(w, err)
		return
	}
	if req.RatioLabel != "" {
		if err := errors.ValidateRatioLabel(req.RatioLabel); err != nil {
			s.respondError(w, err)
			return
		}
	}

	var anchor canvas.Rect
	if req.Anchor != nil {
		anchor = req.Anchor.rect()
	}

	s.withBoard(w, r, func(b *board.Board, m *canvas.Manager) (any, int, error) {
		n, err := m.Create(req.SourceID, req.ImageURL, req.RatioLabel, anchor)
		if err != nil {
			if stderrors.Is(err, canvas.ErrAnchorUnavailable) {
				return nil, 0, errors.Wrap(errors.ErrCodeAnchorUnavailable, err,
					"source anchor for %s is unavailable", req.SourceID)
			}
			return nil, 0, err
		}
		observability.Canvas().OnNodeCreate(r.Context(), b.ID, n.ID, req.SourceID)
		return n, http.StatusCreated, nil
	})
}

type moveNodeRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// handleNodeMove handles PATCH /api/boards/{boardID}/nodes/{nodeID}.
func (s *Server) handleNodeMove(w http.ResponseWriter, r *http.Request) {
	var req moveNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid request body"))
		return
	}
	nodeID := chi.URLParam(r, "nodeID")

	s.withBoard(w, r, func(b *board.Board, m *canvas.Manager) (any, int, error) {
		if !m.Move(nodeID, canvas.Point{X: req.X, Y: req.Y}) {
			return nil, 0, errors.New(errors.ErrCodeNodeNotFound, "node %s not found", nodeID)
		}
		observability.Canvas().OnNodeMove(r.Context(), b.ID, nodeID)
		n, _ := m.Node(nodeID)
		return n, http.StatusOK, nil
	})
}

// handleNodeClose handles DELETE /api/boards/{boardID}/nodes/{nodeID}.
// Closing an already-closed node succeeds, matching canvas semantics.
func (s *Server) handleNodeClose(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	s.withBoard(w, r, func(b *board.Board, m *canvas.Manager) (any, int, error) {
		if m.Close(nodeID) {
			observability.Canvas().OnNodeClose(r.Context(), b.ID, nodeID)
		}
		return nil, http.StatusNoContent, nil
	})
}

// withBoard loads the request's board, runs op against its canvas manager,
// persists the result when op succeeds, and writes the response.
func (s *Server) withBoard(w http.ResponseWriter, r *http.Request, op func(*board.Board, *canvas.Manager) (any, int, error)) {
	boardID := chi.URLParam(r, "boardID")
	b, err := s.boards.Load(r.Context(), boardID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	m, err := b.ToManager()
	if err != nil {
		s.respondError(w, err)
		return
	}

	body, status, err := op(&b, m)
	if err != nil {
		s.respondError(w, err)
		return
	}

	b.FromManager(m)
	if err := s.boards.Save(r.Context(), b); err != nil {
		s.respondError(w, err)
		return
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	respondJSON(w, status, body)
}

// =============================================================================
// Connector handler
// =============================================================================

type connectorsRequest struct {
	Anchors map[string]rectPayload `json:"anchors"`
}

// handleConnectors handles POST /api/boards/{boardID}/connectors.
// The client posts current anchor geometry; the response carries one
// segment per node whose source anchor resolved.
func (s *Server) handleConnectors(w http.ResponseWriter, r *http.Request) {
	var req connectorsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid request body"))
		return
	}

	b, err := s.boards.Load(r.Context(), chi.URLParam(r, "boardID"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	m, err := b.ToManager()
	if err != nil {
		s.respondError(w, err)
		return
	}

	anchors := make(map[string]canvas.Rect, len(req.Anchors))
	for id, p := range req.Anchors {
		anchors[id] = p.rect()
	}

	segments := m.Connectors(canvas.StaticAnchors(anchors))
	if segments == nil {
		segments = []canvas.Segment{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"segments": segments})
}
