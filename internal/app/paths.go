package app

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Env holds process-level configuration. Every knob is optional; zero
// values fall back to per-user defaults below.
type Env struct {
	DataDir string `env:"QRSMITH_DATA_DIR"`
	Listen  string `env:"QRSMITH_LISTEN"`
}

const DefaultListen = "127.0.0.1:8089"

// Environ parses the process environment. A parse failure yields the
// zero Env; defaults still apply.
func Environ() Env {
	var e Env
	_ = env.Parse(&e)
	return e
}

// DataDir resolves the directory holding qrsmith state: QRSMITH_DATA_DIR,
// else <user config dir>/qrsmith, else ~/.qrsmith.
func DataDir() string {
	if e := Environ(); e.DataDir != "" {
		return e.DataDir
	}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "qrsmith")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".qrsmith")
}

func StatePath() string  { return filepath.Join(DataDir(), "state.json") }
func BackupsDir() string { return filepath.Join(DataDir(), "backups") }
func AuditPath() string  { return filepath.Join(DataDir(), "audit.log") }

// TLS material for `qrsmith web --tls`.
func CertPath() string { return filepath.Join(DataDir(), "cert.pem") }
func KeyPath() string  { return filepath.Join(DataDir(), "key.pem") }
