package preset

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nerrad567/instrument-core/internal/address"
	"github.com/nerrad567/instrument-core/internal/cli"
	"github.com/nerrad567/instrument-core/internal/component"
	"github.com/nerrad567/instrument-core/internal/endpoint"
	"github.com/nerrad567/instrument-core/internal/infrastructure/config"
	"github.com/nerrad567/instrument-core/internal/infrastructure/database"
	"github.com/nerrad567/instrument-core/migrations"
)

type voice struct {
	Inputs struct {
		Cutoff    endpoint.Number[float32]
		Waveform  endpoint.Value[string]
		Mute      endpoint.Value[bool]
		Retrigger endpoint.Bang
		Note      endpoint.Text
	}
	Outputs struct {
		Level endpoint.Value[float32]
	}
}

type synth struct {
	Voice voice
}

func newSynth(t *testing.T) (*synth, *address.Table) {
	t.Helper()
	s := &synth{}
	s.Voice.Inputs.Cutoff = endpoint.NewNumber[float32]("cutoff", "filter cutoff in Hz", 20, 20000, 1000)
	s.Voice.Inputs.Waveform = endpoint.NewValue("waveform", "", "sine")
	tree, err := component.Build(s)
	if err != nil {
		t.Fatalf("component.Build() error = %v", err)
	}
	table, err := address.Build(tree, address.Slash)
	if err != nil {
		t.Fatalf("address.Build() error = %v", err)
	}
	return s, table
}

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "presets.db"),
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup
	if err := db.Migrate(context.Background(), migrations.FS); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewSQLiteRepository(db)
}

func TestCapture(t *testing.T) {
	_, table := newSynth(t)
	p := Capture(table, "init")

	want := map[string]string{
		"voice/cutoff":   "1000",
		"voice/waveform": "sine",
		"voice/mute":     "false",
	}
	if diff := cmp.Diff(want, p.Values); diff != "" {
		t.Errorf("Capture() values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"voice/cutoff", "voice/mute", "voice/waveform"}, p.Addresses()); diff != "" {
		t.Errorf("Addresses() mismatch (-want +got):\n%s", diff)
	}
}

func TestApply(t *testing.T) {
	s, table := newSynth(t)
	p := &Preset{Name: "lead", Values: map[string]string{
		"voice/cutoff":   "440",
		"voice/waveform": "saw",
		"voice/mute":     "maybe",
		"voice/level":    "3",
		"voice/gone":     "1",
	}}

	res := Apply(table, p)

	if res.Applied != 2 {
		t.Errorf("Applied = %d, want 2", res.Applied)
	}
	if diff := cmp.Diff([]string{"voice/gone", "voice/level"}, res.Skipped); diff != "" {
		t.Errorf("Skipped mismatch (-want +got):\n%s", diff)
	}
	if err := res.Failed["voice/mute"]; !errors.Is(err, endpoint.ErrParse) {
		t.Errorf("Failed[voice/mute] = %v, want ErrParse", err)
	}
	if got := s.Voice.Inputs.Cutoff.Get(); got != 440 {
		t.Errorf("cutoff = %v, want 440", got)
	}
	if got := s.Voice.Inputs.Waveform.Get(); got != "saw" {
		t.Errorf("waveform = %q, want saw", got)
	}
	if s.Voice.Inputs.Retrigger.Fresh() {
		t.Error("Apply fired a bang")
	}
}

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"warm-pad", true},
		{"", false},
		{"warm pad", false},
		{"tab\tname", false},
	}
	for _, tt := range tests {
		if got := ValidName(tt.name); got != tt.want {
			t.Errorf("ValidName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSQLiteRepository(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return clock }

	p := &Preset{
		Name:        "warm",
		Instrument:  "theremin",
		Description: "soft and low",
		Values:      map[string]string{"voice/cutoff": "300", "voice/mute": "false"},
	}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.Get(ctx, "warm")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if diff := cmp.Diff(p.Values, got.Values); diff != "" {
		t.Errorf("Get() values mismatch (-want +got):\n%s", diff)
	}
	if got.Instrument != "theremin" || got.Description != "soft and low" || !got.CreatedAt.Equal(clock) {
		t.Errorf("Get() = %+v", got)
	}

	// Replacing keeps the creation time and drops removed values.
	clock = clock.Add(time.Hour)
	p.Values = map[string]string{"voice/cutoff": "350"}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	got, err = repo.Get(ctx, "warm")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Values) != 1 || got.Values["voice/cutoff"] != "350" {
		t.Errorf("values after replace = %v", got.Values)
	}
	if !got.CreatedAt.Equal(clock.Add(-time.Hour)) || !got.UpdatedAt.Equal(clock) {
		t.Errorf("timestamps = %v / %v", got.CreatedAt, got.UpdatedAt)
	}

	if err := repo.Save(ctx, &Preset{Name: "bright", Values: map[string]string{}}); err != nil {
		t.Fatalf("Save(bright) error = %v", err)
	}
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].Name != "bright" || list[0].Values != 0 || list[1].Name != "warm" || list[1].Values != 1 {
		t.Errorf("List() = %+v", list)
	}

	if err := repo.Delete(ctx, "warm"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, "warm"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "warm"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
	if err := repo.Save(ctx, &Preset{Name: "two words"}); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Save(two words) error = %v, want ErrInvalidName", err)
	}
}

func TestCommands(t *testing.T) {
	s, table := newSynth(t)
	repo := newRepo(t)

	var buf bytes.Buffer
	d, err := cli.NewDispatcher(&buf, Commands(repo, table, "theremin")...)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	run := func(line string) (int, string) {
		buf.Reset()
		st := d.Dispatch(line)
		return st, buf.String()
	}

	if st, out := run("/save warm Warm pad"); st != cli.StatusOK || out != "saved warm 3 values\n" {
		t.Fatalf("/save = %d %q", st, out)
	}

	s.Voice.Inputs.Cutoff.Set(5000)
	s.Voice.Inputs.Mute.Set(true)

	if st, out := run("/load warm"); st != cli.StatusOK || out != "loaded warm 3 values\n" {
		t.Fatalf("/load = %d %q", st, out)
	}
	if got := s.Voice.Inputs.Cutoff.Get(); got != 1000 {
		t.Errorf("cutoff after /load = %v, want 1000", got)
	}
	if s.Voice.Inputs.Mute.Get() {
		t.Error("mute after /load = true, want false")
	}

	st, out := run("/presets")
	if st != cli.StatusOK || !strings.HasPrefix(out, "warm 3 values ") || !strings.HasSuffix(out, " Warm pad\n") {
		t.Errorf("/presets = %d %q", st, out)
	}

	tests := []struct {
		line string
		want int
	}{
		{"/load nope", cli.StatusError},
		{"/load", cli.StatusUsage},
		{"/save", cli.StatusUsage},
		{"/forget warm", cli.StatusOK},
		{"/forget warm", cli.StatusError},
	}
	for _, tt := range tests {
		if st, out := run(tt.line); st != tt.want {
			t.Errorf("%s = %d (%q), want %d", tt.line, st, out, tt.want)
		}
	}

	if st, out := run("/presets"); st != cli.StatusOK || out != "no presets\n" {
		t.Errorf("/presets on empty store = %d %q", st, out)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, table := newSynth(t)
	if _, err := Load(context.Background(), newRepo(t), table, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}
