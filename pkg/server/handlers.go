package server

import (
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/peoplesfeelings/mindmap/pkg/errors"
	"github.com/peoplesfeelings/mindmap/pkg/feed"
	"github.com/peoplesfeelings/mindmap/pkg/item"
	"github.com/peoplesfeelings/mindmap/pkg/render"
	"github.com/peoplesfeelings/mindmap/pkg/snapshot"
	"github.com/peoplesfeelings/mindmap/pkg/viewport"
)

const retryDelay = 50 * time.Millisecond

// maxBody bounds request bodies.
const maxBody = 32 << 20

// Info is the /info response.
type Info struct {
	Nodes     int                `json:"nodes"`
	Unplaced  int                `json:"unplaced"`
	Running   bool               `json:"running"`
	Transform viewport.Transform `json:"transform"`
	Frames    uint64             `json:"frames"`
	Summary   string             `json:"summary"`
}

// AddResult is the /items and /refresh response.
type AddResult struct {
	Received int `json:"received"`
	New      int `json:"new"`
	Nodes    int `json:"nodes"`
	Unplaced int `json:"unplaced"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) info(w http.ResponseWriter, _ *http.Request) {
	_, frames := s.surface.last()
	writeJSON(w, http.StatusOK, Info{
		Nodes:     s.mm.Len(),
		Unplaced:  len(s.mm.Unplaced()),
		Running:   s.mm.Running(),
		Transform: s.mm.Transform(),
		Frames:    frames,
		Summary:   s.mm.Info(),
	})
}

func (s *Server) addItems(w http.ResponseWriter, r *http.Request) {
	items, err := feed.Read(io.LimitReader(r.Body, maxBody))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mm.AddDataItems(items...)

	res := AddResult{Received: len(items)}
	if r.URL.Query().Get("refresh") != "false" {
		res.New = s.mm.UpdateSimulationData()
	}
	res.Nodes = s.mm.Len()
	res.Unplaced = len(s.mm.Unplaced())
	s.logger.Debug("received items", "count", len(items), "new", res.New)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) refresh(w http.ResponseWriter, _ *http.Request) {
	fresh := s.mm.UpdateSimulationData()
	writeJSON(w, http.StatusOK, AddResult{
		New:      fresh,
		Nodes:    s.mm.Len(),
		Unplaced: len(s.mm.Unplaced()),
	})
}

func (s *Server) unplaced(w http.ResponseWriter, _ *http.Request) {
	items := s.mm.Unplaced()
	if items == nil {
		items = []item.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) zoom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Level *float64 `json:"level"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	if body.Level == nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "level is required"))
		return
	}
	if err := errors.ValidatePositive("level", *body.Level); err != nil {
		s.writeError(w, err)
		return
	}
	s.mm.ZoomTo(*body.Level)
	writeJSON(w, http.StatusAccepted, map[string]float64{"level": *body.Level})
}

func (s *Server) freeze(w http.ResponseWriter, _ *http.Request) {
	s.mm.Freeze()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) center(w http.ResponseWriter, _ *http.Request) {
	s.mm.CenterView()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) untangle(w http.ResponseWriter, _ *http.Request) {
	steps := s.mm.Untangle()
	writeJSON(w, http.StatusOK, map[string]int{"steps": steps})
}

func (s *Server) resize(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := decode(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	if err := errors.ValidatePositive("width", body.Width); err != nil {
		s.writeError(w, err)
		return
	}
	if err := errors.ValidatePositive("height", body.Height); err != nil {
		s.writeError(w, err)
		return
	}
	s.mm.Resize(body.Width, body.Height)
	s.surface.resize(body.Width, body.Height)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getTransform(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.mm.Transform())
}

func (s *Server) putTransform(w http.ResponseWriter, r *http.Request) {
	var t viewport.Transform
	if err := decode(r, &t); err != nil {
		s.writeError(w, err)
		return
	}
	if !t.IsValid() {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid transform %s", t))
		return
	}
	s.mm.SetTransform(t)
	writeJSON(w, http.StatusOK, s.mm.Transform())
}

func (s *Server) getSnapshot(w http.ResponseWriter, _ *http.Request) {
	data, err := snapshot.Marshal(s.mm.Snapshot())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) putSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := snapshot.Read(io.LimitReader(r.Body, maxBody))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.mm.Restore(snap); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AddResult{Received: len(snap.Nodes), Nodes: s.mm.Len(), Unplaced: len(s.mm.Unplaced())})
}

func (s *Server) getSVG(w http.ResponseWriter, r *http.Request) {
	frame := s.mm.Snapshot().Frame()
	opts := []render.SVGOption{render.WithMeasurer(s.measurer)}
	if r.URL.Query().Get("view") == "true" {
		vw, vh := s.surface.Size()
		opts = append(opts, render.WithSize(int(vw), int(vh)))
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	render.WriteSVG(w, frame, opts...)
}

func (s *Server) getDOT(w http.ResponseWriter, _ *http.Request) {
	opts := s.mm.Options()
	dot := render.ToDOT(s.mm.Snapshot().Frame(), render.DOTOptions{
		TextKey: s.measurer.TextKey,
		Columns: s.measurer.Columns(opts.ItemWidth),
	})
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	io.WriteString(w, dot)
}

func (s *Server) saveSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.Save(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": s.name})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorBody{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFeed, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidOption, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
