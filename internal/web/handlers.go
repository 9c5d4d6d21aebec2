package web

import (
	"encoding/base64"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/qrsmith/qrsmith/internal/app"
	"github.com/qrsmith/qrsmith/internal/audit"
	"github.com/qrsmith/qrsmith/internal/payload"
	"github.com/qrsmith/qrsmith/internal/render"
	"github.com/qrsmith/qrsmith/internal/service"
	"github.com/qrsmith/qrsmith/internal/state"
)

// designIn is what the editor posts: the active mode, its field set and
// the render options. Name only matters when saving. Payload, when set,
// is a snapshot reload and is used verbatim instead of re-encoding the
// (empty) fields.
type designIn struct {
	Name    string         `json:"name,omitempty"`
	Mode    payload.Mode   `json:"mode"`
	Fields  payload.Fields `json:"fields"`
	Payload string         `json:"payload,omitempty"`
	Options render.Options `json:"options"`
}

func (in designIn) payloadString() string {
	if in.Payload != "" {
		return in.Payload
	}
	return payload.Encode(in.Mode, in.Fields)
}

func (s *Server) apiMeta(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"version":      app.Version,
		"modes":        payload.Modes(),
		"levels":       []render.Level{render.LevelLow, render.LevelMedium, render.LevelQuartile, render.LevelHigh},
		"styles":       []render.Style{render.StyleSquares, render.StyleDots},
		"minSize":      render.MinSize,
		"maxSize":      render.MaxSize,
		"defaults":     service.Defaults(s.State),
		"authDisabled": s.authDisabled(),
	})
}

func (s *Server) apiPreview(w http.ResponseWriter, r *http.Request) {
	var in designIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request body", 400)
		return
	}
	if !in.Mode.Valid() {
		http.Error(w, "unknown mode", 400)
		return
	}
	p := in.payloadString()
	if p == "" {
		// nothing to render yet; the client shows its placeholder
		writeJSON(w, map[string]any{"payload": "", "image": ""})
		return
	}
	png, err := render.PNG(p, in.Options)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, map[string]any{
		"payload": p,
		"image":   "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}

func (s *Server) apiExportPNG(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "png")
}

func (s *Server) apiExportSVG(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "svg")
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, format string) {
	var in designIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request body", 400)
		return
	}
	if !in.Mode.Valid() {
		http.Error(w, "unknown mode", 400)
		return
	}
	p := in.payloadString()
	if p == "" {
		http.Error(w, "nothing to export", 400)
		return
	}
	var b []byte
	var err error
	var ctype string
	if format == "svg" {
		b, err = render.SVG(p, in.Options)
		ctype = "image/svg+xml"
	} else {
		b, err = render.PNG(p, in.Options)
		ctype = "image/png"
	}
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("content-type", ctype)
	w.Header().Set("content-disposition", `attachment; filename="qrcode.`+format+`"`)
	_, _ = w.Write(b)
}

func (s *Server) apiSnapshots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"snapshots": s.State.SnapshotsSorted()})
}

func (s *Server) apiSnapshotSave(w http.ResponseWriter, r *http.Request) {
	var in designIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request body", 400)
		return
	}
	if !in.Mode.Valid() {
		http.Error(w, "unknown mode", 400)
		return
	}
	p := in.payloadString()
	if p == "" {
		http.Error(w, "empty payload", 400)
		return
	}
	sn, err := service.SnapshotSave(s.State, in.Name, in.Mode, p, in.Options)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	audit.Write(audit.Entry{IP: clientIP(r), User: s.State.AdminCopy().Username, Action: "snapshot.save", Object: sn.ID, Detail: sn.Name})
	writeJSON(w, map[string]any{"ok": true, "snapshot": sn})
}

func (s *Server) apiSnapshotGet(w http.ResponseWriter, r *http.Request) {
	sn := s.State.FindSnapshot(mux.Vars(r)["id"])
	if sn == nil {
		http.Error(w, "snapshot not found", 404)
		return
	}
	writeJSON(w, map[string]any{"snapshot": sn})
}

func (s *Server) apiSnapshotDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := service.SnapshotDelete(s.State, id); err != nil {
		http.Error(w, err.Error(), 404)
		return
	}
	audit.Write(audit.Entry{IP: clientIP(r), User: s.State.AdminCopy().Username, Action: "snapshot.delete", Object: id})
	writeJSON(w, map[string]any{"ok": true})
}

func (s *Server) apiSnapshotPNG(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	b, err := service.SnapshotPNG(s.State, id)
	if err != nil {
		http.Error(w, err.Error(), 404)
		return
	}
	w.Header().Set("content-type", "image/png")
	_, _ = w.Write(b)
}

func (s *Server) apiSnapshotSVG(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	b, err := service.SnapshotSVG(s.State, id)
	if err != nil {
		http.Error(w, err.Error(), 404)
		return
	}
	w.Header().Set("content-type", "image/svg+xml")
	_, _ = w.Write(b)
}

func (s *Server) apiAudit(w http.ResponseWriter, r *http.Request) {
	lines, _ := strconv.Atoi(r.URL.Query().Get("lines"))
	if lines <= 0 || lines > 2000 {
		lines = 200
	}
	out, err := audit.Tail(lines)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("content-type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

func (s *Server) apiSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"listen":   s.State.SettingsCopy().Listen,
		"defaults": service.Defaults(s.State),
	})
}

func (s *Server) apiSettingsSave(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Listen   string         `json:"listen"`
		Defaults render.Options `json:"defaults"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request body", 400)
		return
	}
	if in.Listen != "" {
		if _, port, err := net.SplitHostPort(in.Listen); err != nil || port == "" {
			http.Error(w, "invalid listen address", 400)
			return
		} else if p, err := strconv.Atoi(port); err != nil || p < 1 || p > 65535 {
			http.Error(w, "invalid listen port", 400)
			return
		}
	}
	restart := false
	if err := s.State.Update(func(st *state.State) error {
		if in.Listen != "" && in.Listen != st.Settings.Listen {
			st.Settings.Listen = in.Listen
			restart = true
		}
		st.Settings.Defaults = in.Defaults.Normalized()
		return nil
	}); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	audit.Write(audit.Entry{IP: clientIP(r), User: s.State.AdminCopy().Username, Action: "settings.save"})
	writeJSON(w, map[string]any{"ok": true, "restartRequired": restart})
}

func (s *Server) apiAdminPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request body", 400)
		return
	}
	if strings.TrimSpace(in.Password) == "" {
		http.Error(w, "password required", 400)
		return
	}
	if err := service.SetAdminPassword(s.State, in.Password); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	audit.Write(audit.Entry{IP: clientIP(r), User: s.State.AdminCopy().Username, Action: "admin.password.rotate"})
	writeJSON(w, map[string]any{"ok": true})
}
