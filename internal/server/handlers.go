package server

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zwdscn-cloud/JFreports/pkg/buildinfo"
	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/errors"
	"github.com/zwdscn-cloud/JFreports/pkg/geometry"
	"github.com/zwdscn-cloud/JFreports/pkg/snap"
	"github.com/zwdscn-cloud/JFreports/pkg/storage"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
	"github.com/zwdscn-cloud/JFreports/pkg/workspace"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Current()})
}

// =============================================================================
// Dashboards
// =============================================================================

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []storage.Info{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"dashboards": list})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.Contains(r.Header.Get("Accept"), contentMsgpack) {
		v, err := plain(doc)
		if err == nil {
			err = writeMsgpack(w, http.StatusOK, v)
		}
		if err != nil {
			s.writeError(w, r, err)
		}
		return
	}
	w.Header().Set("Content-Type", contentJSON)
	if err := dashboard.Encode(w, doc); err != nil {
		s.logger.Warn("write dashboard", "error", err)
	}
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	doc, err := dashboard.Decode(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc.Elements = dashboard.Normalize(doc.Elements)
	if err := dashboard.Validate(doc.Elements); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidElement, err, "%s", err.Error()))
		return
	}
	if err := s.store.Put(r.Context(), name, doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Rendering
// =============================================================================

// handleRenderSVG renders a posted document. Query parameters: grid and
// margins (booleans) and zoom (percent, scales the output size).
func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	doc, err := dashboard.Decode(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	canvas := s.canvas
	canvas.ShowGrid = q.Get("grid") == "true"
	canvas.ShowMargins = q.Get("margins") == "true"

	ws := workspace.New(canvas, surface.ModeView, workspace.WithLogger(s.logger))
	defer ws.Close()
	if err := ws.Load(doc); err != nil {
		s.writeError(w, r, err)
		return
	}

	scene := ws.ExportScene()
	var opts []surface.SVGOption
	if z, err := strconv.ParseFloat(q.Get("zoom"), 64); err == nil && z > 0 {
		scene.Zoom = surface.ClampZoom(z, surface.ModeView)
		opts = append(opts, surface.WithZoomedSize())
	}
	if !canvas.ShowGrid && !canvas.ShowMargins {
		opts = append(opts, surface.WithExportOnly())
	}

	w.Header().Set("Content-Type", contentSVG)
	_, _ = io.Copy(w, bytes.NewReader(surface.RenderSVG(scene, opts...)))
}

// =============================================================================
// Geometry
// =============================================================================

type snapRequest struct {
	Moving  geometry.Rect  `json:"moving"`
	Others  []snap.Target  `json:"others"`
	Canvas  *geometry.Size `json:"canvas"`
	Options *snap.Options  `json:"options"`
}

func (s *Server) handleSnap(w http.ResponseWriter, r *http.Request) {
	var req snapRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	canvas := s.canvas.Size()
	if req.Canvas != nil {
		canvas = *req.Canvas
	}
	opts := s.snap
	if req.Options != nil {
		opts = *req.Options
	}
	res := snap.Compute(req.Moving, req.Others, canvas, opts)
	if res.Guides == nil {
		res.Guides = []snap.Guide{}
	}
	writeJSON(w, http.StatusOK, res)
}

type arrangeRequest struct {
	Targets   []snap.Target    `json:"targets"`
	Direction snap.Orientation `json:"direction"`
	Edge      string           `json:"edge"`
}

type arrangeResponse struct {
	Placements []snap.Placement `json:"placements"`
	Guides     []snap.Guide     `json:"guides"`
}

func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
	var req arrangeRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	switch req.Direction {
	case "":
		req.Direction = snap.Horizontal
	case snap.Horizontal, snap.Vertical:
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "direction must be horizontal or vertical, got %q", req.Direction))
		return
	}
	placements, guides := snap.Distribute(req.Targets, req.Direction)
	writeJSON(w, http.StatusOK, arrangeResponse{Placements: placements, Guides: nonNil(guides)})
}

func (s *Server) handleAlign(w http.ResponseWriter, r *http.Request) {
	var req arrangeRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	edge, ok := snap.ParseAlignEdge(req.Edge)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unknown align edge %q", req.Edge))
		return
	}
	placements, guides := snap.Align(req.Targets, edge)
	writeJSON(w, http.StatusOK, arrangeResponse{Placements: placements, Guides: nonNil(guides)})
}

func nonNil(g []snap.Guide) []snap.Guide {
	if g == nil {
		return []snap.Guide{}
	}
	return g
}
