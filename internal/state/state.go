package state

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/qrsmith/qrsmith/internal/app"
	"github.com/qrsmith/qrsmith/internal/payload"
	"github.com/qrsmith/qrsmith/internal/render"
)

type Settings struct {
	Listen    string         `json:"listen"`    // web UI bind, default 127.0.0.1:8089
	Defaults  render.Options `json:"defaults"`  // seed options for a fresh editor
	SecretKey string         `json:"secretKey"` // session/CSRF key, minted on first run
}

type Admin struct {
	Username       string `json:"username"`
	PasswordBcrypt string `json:"passwordBcrypt"` // empty means login is disabled
	TOTPEnabled    bool   `json:"totpEnabled"`
	TOTPSecret     string `json:"totpSecret"` // base32; never rendered in the UI
}

// Snapshot is an immutable saved design. Loading one copies its fields
// into the live editor; records are only ever created and deleted.
type Snapshot struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Mode      payload.Mode   `json:"mode"`
	Payload   string         `json:"payload"`
	Options   render.Options `json:"options"`
	CreatedAt string         `json:"createdAt"`
}

type State struct {
	Version   int        `json:"version"`
	Settings  Settings   `json:"settings"`
	Admin     Admin      `json:"admin"`
	Snapshots []Snapshot `json:"snapshots"`

	mu sync.RWMutex `json:"-"`
}

func Default() *State {
	return &State{
		Version: 1,
		Settings: Settings{
			Listen:   app.DefaultListen,
			Defaults: render.Default(),
		},
		Admin: Admin{
			Username: "admin",
		},
	}
}

// LoadOrInit reads the state file, creating it with defaults when none
// exists. The session key is minted on first run and persisted right
// away so it stays stable across restarts.
func LoadOrInit() (*State, error) {
	_ = app.EnsureDir(app.DataDir(), 0700)
	_ = app.EnsureDir(app.BackupsDir(), 0700)

	st := Default()
	dirty := true
	if _, err := os.Stat(app.StatePath()); !errors.Is(err, os.ErrNotExist) {
		b, err := os.ReadFile(app.StatePath())
		if err != nil {
			return nil, err
		}
		st = &State{}
		if err := json.Unmarshal(b, st); err != nil {
			return nil, err
		}
		dirty = false
		if st.Version == 0 {
			st.Version = 1
			dirty = true
		}
	}
	if st.Settings.Listen == "" {
		st.Settings.Listen = app.DefaultListen
		dirty = true
	}
	if st.Settings.SecretKey == "" {
		key, err := app.RandToken(32)
		if err != nil {
			return nil, err
		}
		st.Settings.SecretKey = key
		dirty = true
	}
	if dirty {
		if err := st.SaveAtomic(); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// Update applies fn under the write lock and persists the result. All
// mutations after startup go through here; an error from fn abandons
// the write.
func (s *State) Update(fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s); err != nil {
		return err
	}
	return s.saveLocked()
}

func (s *State) SaveAtomic() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *State) saveLocked() error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	// keep the previous content around so restore has something to go to
	if old, err := os.ReadFile(app.StatePath()); err == nil {
		backup := filepath.Join(app.BackupsDir(), filepath.Base(app.StatePath())+"."+app.NowRFC3339()+".bak")
		_ = os.WriteFile(backup, old, 0600)
	}
	return app.AtomicWriteFile(app.StatePath(), 0600, b)
}

// SettingsCopy returns the current settings under the read lock.
func (s *State) SettingsCopy() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Settings
}

// AdminCopy returns the current admin record under the read lock.
func (s *State) AdminCopy() Admin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Admin
}

// SnapshotsSorted returns a copy ordered oldest first, ties broken by
// name so listings are stable.
func (s *State) SnapshotsSorted() []Snapshot {
	s.mu.RLock()
	cp := append([]Snapshot{}, s.Snapshots...)
	s.mu.RUnlock()
	sort.SliceStable(cp, func(i, j int) bool {
		if cp[i].CreatedAt != cp[j].CreatedAt {
			return cp[i].CreatedAt < cp[j].CreatedAt
		}
		return cp[i].Name < cp[j].Name
	})
	return cp
}

// FindSnapshot returns a copy of the record with the given ID, or nil.
func (s *State) FindSnapshot(id string) *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.Snapshots {
		if s.Snapshots[i].ID == id {
			sn := s.Snapshots[i]
			return &sn
		}
	}
	return nil
}

// Backups lists backup files newest first.
func Backups() ([]string, error) {
	entries, err := os.ReadDir(app.BackupsDir())
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}
