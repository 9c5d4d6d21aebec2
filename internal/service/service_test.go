package service

import (
	"fmt"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/qrsmith/qrsmith/internal/bundle"
	"github.com/qrsmith/qrsmith/internal/payload"
	"github.com/qrsmith/qrsmith/internal/render"
	"github.com/qrsmith/qrsmith/internal/state"
)

func testState(t *testing.T) *state.State {
	t.Helper()
	t.Setenv("QRSMITH_DATA_DIR", t.TempDir())
	st, err := state.LoadOrInit()
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestSnapshotSaveAndReload(t *testing.T) {
	st := testState(t)
	f := payload.Fields{SSID: "Home", Security: "WPA", Password: "secret"}
	p := payload.Encode(payload.ModeWiFi, f)

	opts := render.Default()
	opts.Size = 320
	sn, err := SnapshotSave(st, "home wifi", payload.ModeWiFi, p, opts)
	if err != nil {
		t.Fatal(err)
	}
	if sn.ID == "" || sn.CreatedAt == "" {
		t.Fatalf("snapshot incomplete: %+v", sn)
	}
	if sn.Payload != "WIFI:S:Home;T:WPA;P:secret;;" {
		t.Fatalf("payload %q", sn.Payload)
	}

	// reload from disk and check the record round-trips untouched
	again, err := state.LoadOrInit()
	if err != nil {
		t.Fatal(err)
	}
	got := again.FindSnapshot(sn.ID)
	if got == nil {
		t.Fatal("snapshot lost on reload")
	}
	if got.Mode != payload.ModeWiFi || got.Payload != sn.Payload || got.Options.Size != 320 {
		t.Fatalf("round trip changed record: %+v", got)
	}
}

func TestSnapshotPayloadIndependentOfOptions(t *testing.T) {
	st := testState(t)
	f := payload.Fields{To: "a@b.com", Subject: "Hi", Body: "Hello there"}
	p := payload.Encode(payload.ModeEmail, f)

	a := render.Default()
	b := render.Default()
	b.Size = 512
	b.Foreground = "#ff0000"
	b.Level = render.LevelHigh
	b.Style = render.StyleDots
	b.Margin = false

	s1, err := SnapshotSave(st, "one", payload.ModeEmail, p, a)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := SnapshotSave(st, "two", payload.ModeEmail, p, b)
	if err != nil {
		t.Fatal(err)
	}
	if s1.Payload != s2.Payload {
		t.Fatalf("options leaked into payload: %q vs %q", s1.Payload, s2.Payload)
	}
}

func TestSnapshotDelete(t *testing.T) {
	st := testState(t)
	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		sn, err := SnapshotSave(st, name, payload.ModeText, name, render.Default())
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, sn.ID)
	}
	if err := SnapshotDelete(st, ids[1]); err != nil {
		t.Fatal(err)
	}
	if st.FindSnapshot(ids[1]) != nil {
		t.Fatal("deleted snapshot still present")
	}
	// the others keep their order
	sorted := st.SnapshotsSorted()
	if len(sorted) != 2 || sorted[0].ID != ids[0] || sorted[1].ID != ids[2] {
		t.Fatalf("unexpected survivors: %+v", sorted)
	}
	if err := SnapshotDelete(st, "nope"); err == nil {
		t.Fatal("deleting unknown id should fail")
	}
}

func TestSnapshotSaveConcurrent(t *testing.T) {
	st := testState(t)
	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			if _, err := SnapshotSave(st, fmt.Sprintf("qr-%02d", i), payload.ModeText, "hello", render.Default()); err != nil {
				t.Errorf("save %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(st.SnapshotsSorted()); got != n {
		t.Fatalf("kept %d of %d snapshots", got, n)
	}
	// reload from disk: the last write must contain every record
	again, err := state.LoadOrInit()
	if err != nil {
		t.Fatal(err)
	}
	if got := len(again.Snapshots); got != n {
		t.Fatalf("disk has %d of %d snapshots", got, n)
	}
}

func TestSnapshotSaveValidation(t *testing.T) {
	st := testState(t)
	if _, err := SnapshotSave(st, "   ", payload.ModeText, "x", render.Default()); err == nil {
		t.Fatal("blank name should fail")
	}
	if _, err := SnapshotSave(st, "ok", payload.Mode("barcode"), "x", render.Default()); err == nil {
		t.Fatal("unknown mode should fail")
	}
}

func TestSnapshotRenderers(t *testing.T) {
	st := testState(t)
	sn, err := SnapshotSave(st, "site", payload.ModeLink, "https://example.com", render.Default())
	if err != nil {
		t.Fatal(err)
	}
	png, err := SnapshotPNG(st, sn.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(png) == 0 || png[0] != 0x89 {
		t.Fatal("not a png")
	}
	svg, err := SnapshotSVG(st, sn.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(svg) == 0 || svg[0] != '<' {
		t.Fatal("not an svg")
	}
	if _, err := SnapshotPNG(st, "missing"); err == nil {
		t.Fatal("missing id should fail")
	}
}

func TestDefaultsRoundTrip(t *testing.T) {
	st := testState(t)
	o := render.Default()
	o.Size = 999 // clamped on store
	o.Level = "H"
	if err := SetDefaults(st, o); err != nil {
		t.Fatal(err)
	}
	got := Defaults(st)
	if got.Size != render.MaxSize || got.Level != render.LevelHigh {
		t.Fatalf("defaults %+v", got)
	}
}

func TestBundleRoundTrip(t *testing.T) {
	st := testState(t)
	if _, err := BundleExport(st); err == nil {
		t.Fatal("empty export should fail")
	}

	o := render.Default()
	o.Level = render.LevelHigh
	if _, err := SnapshotSave(st, "site", payload.ModeLink, "https://example.com", o); err != nil {
		t.Fatal(err)
	}
	if _, err := SnapshotSave(st, "note", payload.ModeText, "hello", render.Default()); err != nil {
		t.Fatal(err)
	}

	b, err := BundleExport(st)
	if err != nil {
		t.Fatal(err)
	}
	f, err := bundle.Parse(b)
	if err != nil {
		t.Fatal(err)
	}

	n, err := BundleImport(st, f, false)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || len(st.Snapshots) != 4 {
		t.Fatalf("append import: n=%d total=%d", n, len(st.Snapshots))
	}

	n, err = BundleImport(st, f, true)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || len(st.Snapshots) != 2 {
		t.Fatalf("replace import: n=%d total=%d", n, len(st.Snapshots))
	}
	var site *state.Snapshot
	for i := range st.Snapshots {
		if st.Snapshots[i].Name == "site" {
			site = &st.Snapshots[i]
		}
	}
	if site == nil {
		t.Fatal("imported snapshot missing")
	}
	if site.ID == "" || site.Payload != "https://example.com" || site.Options.Level != render.LevelHigh {
		t.Fatalf("imported record wrong: %+v", site)
	}
}

func TestAdminPassword(t *testing.T) {
	st := testState(t)
	if err := SetAdminPassword(st, "short"); err == nil {
		t.Fatal("short password should fail")
	}
	if err := SetAdminPassword(st, "correct horse battery"); err != nil {
		t.Fatal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(st.Admin.PasswordBcrypt), []byte("correct horse battery")) != nil {
		t.Fatal("stored hash does not match password")
	}
	if err := DisableAuth(st); err != nil {
		t.Fatal(err)
	}
	if st.Admin.PasswordBcrypt != "" || st.Admin.TOTPEnabled || st.Admin.TOTPSecret != "" {
		t.Fatal("auth not fully cleared")
	}
}
