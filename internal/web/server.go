package web

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/qrsmith/qrsmith/internal/audit"
	"github.com/qrsmith/qrsmith/internal/state"
)

const sessionName = "qrsmith"

type Server struct {
	Store *sessions.CookieStore
	State *state.State
}

func NewServer(st *state.State) *Server {
	cs := sessions.NewCookieStore([]byte(st.Settings.SecretKey))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 8,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Server{Store: cs, State: st}
}

// Router wires all routes without the CSRF wrapper; Handler is what the
// web command actually serves.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.PathPrefix("/static/").Handler(http.FileServer(http.FS(FS)))
	r.HandleFunc("/login", s.loginPage).Methods("GET")
	r.HandleFunc("/login", s.loginPost).Methods("POST")
	r.HandleFunc("/logout", s.logout).Methods("GET")

	authed := r.NewRoute().Subrouter()
	authed.Use(s.requireLogin)
	authed.HandleFunc("/", s.appShell).Methods("GET")
	authed.HandleFunc("/api/meta", s.apiMeta).Methods("GET")
	authed.HandleFunc("/api/preview", s.apiPreview).Methods("POST")
	authed.HandleFunc("/api/export/qrcode.png", s.apiExportPNG).Methods("POST")
	authed.HandleFunc("/api/export/qrcode.svg", s.apiExportSVG).Methods("POST")
	authed.HandleFunc("/api/snapshots", s.apiSnapshots).Methods("GET")
	authed.HandleFunc("/api/snapshots", s.apiSnapshotSave).Methods("POST")
	authed.HandleFunc("/api/snapshots/{id}", s.apiSnapshotGet).Methods("GET")
	authed.HandleFunc("/api/snapshots/{id}", s.apiSnapshotDelete).Methods("DELETE")
	authed.HandleFunc("/api/snapshots/{id}/qrcode.png", s.apiSnapshotPNG).Methods("GET")
	authed.HandleFunc("/api/snapshots/{id}/qrcode.svg", s.apiSnapshotSVG).Methods("GET")
	authed.HandleFunc("/api/audit", s.apiAudit).Methods("GET")
	authed.HandleFunc("/api/settings", s.apiSettings).Methods("GET")
	authed.HandleFunc("/api/settings", s.apiSettingsSave).Methods("POST")
	authed.HandleFunc("/api/admin/password", s.apiAdminPassword).Methods("POST")
	return r
}

// Handler adds CSRF protection for all POSTs plus request logging.
func (s *Server) Handler() http.Handler {
	protect := csrf.Protect([]byte(s.State.Settings.SecretKey), csrf.Secure(false), csrf.Path("/"))
	return logRequests(protect(s.Router()))
}

// authDisabled is the first-run state: no password set means the UI is
// open, which suits a loopback-only bind.
func (s *Server) authDisabled() bool { return s.State.AdminCopy().PasswordBcrypt == "" }

func (s *Server) appShell(w http.ResponseWriter, r *http.Request) {
	b, _ := FS.ReadFile("templates/layout.html")
	html := strings.ReplaceAll(string(b), "{{.CSRFToken}}", csrf.Token(r))
	w.Header().Set("content-type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	if s.authDisabled() {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.renderLogin(w, r, "")
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, msg string) {
	b, _ := FS.ReadFile("templates/login.html")
	html := string(b)
	html = strings.ReplaceAll(html, "{{.CSRFToken}}", csrf.Token(r))
	html = strings.ReplaceAll(html, "{{.Error}}", msg)
	totpClass := "hidden"
	if s.State.AdminCopy().TOTPEnabled {
		totpClass = ""
	}
	html = strings.ReplaceAll(html, "{{.TOTPClass}}", totpClass)
	w.Header().Set("content-type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func (s *Server) loginPost(w http.ResponseWriter, r *http.Request) {
	if s.authDisabled() {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	_ = r.ParseForm()
	u := r.FormValue("username")
	p := r.FormValue("password")
	code := r.FormValue("totp")

	ad := s.State.AdminCopy()
	if u != ad.Username || bcrypt.CompareHashAndPassword([]byte(ad.PasswordBcrypt), []byte(p)) != nil {
		s.renderLogin(w, r, "invalid credentials")
		return
	}
	if ad.TOTPEnabled && !totpCodeOK(ad.TOTPSecret, code) {
		s.renderLogin(w, r, "invalid one-time code")
		return
	}

	sess, _ := s.Store.Get(r, sessionName)
	sess.Values["auth"] = true
	sess.Values["ts"] = time.Now().Unix()
	_ = sess.Save(r, w)
	audit.Write(audit.Entry{IP: clientIP(r), User: u, Action: "login"})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.Store.Get(r, sessionName)
	sess.Options.MaxAge = -1
	_ = sess.Save(r, w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authDisabled() {
			next.ServeHTTP(w, r)
			return
		}
		sess, _ := s.Store.Get(r, sessionName)
		if v, ok := sess.Values["auth"].(bool); !ok || !v {
			if r.URL.Path == "/" {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ---- helpers ----

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("content-type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func clientIP(r *http.Request) string {
	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	if host == "" {
		return r.RemoteAddr
	}
	return host
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.WithFields(logrus.Fields{
			"component": "web",
			"method":    r.Method,
			"path":      r.URL.Path,
			"ip":        clientIP(r),
			"took":      time.Since(start).Round(time.Millisecond).String(),
		}).Debug("request")
	})
}
