package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/qrsmith/qrsmith/internal/app"
	"github.com/qrsmith/qrsmith/internal/bundle"
	"github.com/qrsmith/qrsmith/internal/payload"
	"github.com/qrsmith/qrsmith/internal/render"
	"github.com/qrsmith/qrsmith/internal/state"
)

// Defaults returns the stored render defaults, normalized, for seeding
// a fresh editor or CLI invocation.
func Defaults(st *state.State) render.Options {
	return st.SettingsCopy().Defaults.Normalized()
}

// SetDefaults stores new render defaults.
func SetDefaults(st *state.State, o render.Options) error {
	return st.Update(func(s *state.State) error {
		s.Settings.Defaults = o.Normalized()
		return nil
	})
}

// SnapshotSave appends an immutable snapshot of the final payload plus
// its render options. The payload is stored as given; callers encode
// fields first so a saved record never changes meaning later.
func SnapshotSave(st *state.State, name string, mode payload.Mode, final string, o render.Options) (*state.Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("snapshot name required")
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	sn := state.Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		Mode:      mode,
		Payload:   final,
		Options:   o.Normalized(),
		CreatedAt: app.NowRFC3339(),
	}
	if err := st.Update(func(s *state.State) error {
		s.Snapshots = append(s.Snapshots, sn)
		return nil
	}); err != nil {
		return nil, err
	}
	return &sn, nil
}

func SnapshotDelete(st *state.State, id string) error {
	return st.Update(func(s *state.State) error {
		for i := range s.Snapshots {
			if s.Snapshots[i].ID == id {
				s.Snapshots = append(s.Snapshots[:i], s.Snapshots[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("snapshot not found")
	})
}

// SnapshotPNG renders a stored snapshot with its own saved options.
func SnapshotPNG(st *state.State, id string) ([]byte, error) {
	sn := st.FindSnapshot(id)
	if sn == nil {
		return nil, fmt.Errorf("snapshot not found")
	}
	return render.PNG(sn.Payload, sn.Options)
}

func SnapshotSVG(st *state.State, id string) ([]byte, error) {
	sn := st.FindSnapshot(id)
	if sn == nil {
		return nil, fmt.Errorf("snapshot not found")
	}
	return render.SVG(sn.Payload, sn.Options)
}

// BundleExport serializes every snapshot into a portable YAML bundle.
func BundleExport(st *state.State) ([]byte, error) {
	snaps := st.SnapshotsSorted()
	if len(snaps) == 0 {
		return nil, fmt.Errorf("no snapshots to export")
	}
	return bundle.Generate(snaps, app.NowRFC3339())
}

// BundleImport appends the bundled snapshots, minting fresh IDs so an
// import never collides with existing records. With replace set the
// current set is dropped first.
func BundleImport(st *state.State, f *bundle.File, replace bool) (int, error) {
	err := st.Update(func(s *state.State) error {
		if replace {
			s.Snapshots = nil
		}
		for _, it := range f.Snapshots {
			created := it.CreatedAt
			if created == "" {
				created = app.NowRFC3339()
			}
			s.Snapshots = append(s.Snapshots, state.Snapshot{
				ID:        uuid.NewString(),
				Name:      it.Name,
				Mode:      payload.Mode(it.Mode),
				Payload:   it.Payload,
				Options:   it.Options.Render(),
				CreatedAt: created,
			})
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(f.Snapshots), nil
}

// SetAdminPassword hashes and stores a new password, enabling login.
func SetAdminPassword(st *state.State, plain string) error {
	if len(plain) < 8 {
		return fmt.Errorf("password too short, need at least 8 characters")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return st.Update(func(s *state.State) error {
		s.Admin.PasswordBcrypt = string(h)
		return nil
	})
}

// DisableAuth clears the stored password hash and TOTP settings; the
// web UI then serves without a login step.
func DisableAuth(st *state.State) error {
	return st.Update(func(s *state.State) error {
		s.Admin.PasswordBcrypt = ""
		s.Admin.TOTPEnabled = false
		s.Admin.TOTPSecret = ""
		return nil
	})
}
