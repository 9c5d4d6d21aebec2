package audit

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/qrsmith/qrsmith/internal/app"
)

// Entry is one line of the append-only audit log.
type Entry struct {
	Time   string `json:"time"`
	IP     string `json:"ip,omitempty"`
	User   string `json:"user,omitempty"`
	Action string `json:"action"`
	Object string `json:"object,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Write appends one entry. Best-effort: a failed append must never
// break the action being audited.
func Write(e Entry) {
	if e.Time == "" {
		e.Time = app.NowRFC3339()
	}
	_ = app.EnsureDir(app.DataDir(), 0700)
	b, _ := json.Marshal(e)
	f, err := os.OpenFile(app.AuditPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		logrus.WithError(err).Warn("audit append failed")
		return
	}
	defer f.Close()
	_, _ = f.Write(append(b, '\n'))
}

// Tail returns the last n lines, oldest first. A missing log is empty,
// not an error.
func Tail(n int) (string, error) {
	b, err := os.ReadFile(app.AuditPath())
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n"), nil
}
