package mood

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

type fakeClassifier struct {
	resp  string
	err   error
	calls int
	last  string
}

func (f *fakeClassifier) Classify(_ context.Context, _, text string) (string, error) {
	f.calls++
	f.last = text
	return f.resp, f.err
}

func newTestManager(c Classifier) *Manager {
	return NewManager(DefaultTable(), c, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestScore(t *testing.T) {
	m := newTestManager(nil)
	tests := []struct {
		text      string
		want      Label
		wantScore int
	}{
		{"hey lol", Happy, 1},
		{"хахаха це круто", Happy, 4},
		{"все пропало 😭", Sad, 3},
		{"це треш і жах", Evil, 2},
		{"напиши функцію для API", Neutral, 1},
		{"ok then", Happy, 0},
	}
	for _, tt := range tests {
		got, score := m.Score(tt.text)
		if got != tt.want || score != tt.wantScore {
			t.Errorf("Score(%q) = %s/%d, want %s/%d", tt.text, got, score, tt.want, tt.wantScore)
		}
	}
}

func TestScore_TieBreakIsDeterministic(t *testing.T) {
	m := newTestManager(nil)
	scores := m.Scores("круто, але жах")
	if scores[Happy] != 1 || scores[Evil] != 1 {
		t.Fatalf("scores = %v, want happy=1 evil=1", scores)
	}
	for i := 0; i < 50; i++ {
		if got, _ := m.Score("круто, але жах"); got != Happy {
			t.Fatalf("run %d: winner = %s, want %s", i, got, Happy)
		}
	}
}

func TestDetect(t *testing.T) {
	m := newTestManager(nil)
	if l, ok := m.Detect("ok then"); ok || l != Neutral {
		t.Errorf("Detect(no signal) = %s/%v, want neutral/false", l, ok)
	}
	if l, ok := m.Detect("lol"); !ok || l != Happy {
		t.Errorf("Detect(lol) = %s/%v, want happy/true", l, ok)
	}
}

func TestUpdate_KeywordSkipsClassifier(t *testing.T) {
	c := &fakeClassifier{resp: "evil"}
	m := newTestManager(c)

	label, temp, emoji := m.Update(context.Background(), "lol")
	if label != Happy || temp != 0.85 || emoji != "😎" {
		t.Errorf("Update = %s/%v/%s", label, temp, emoji)
	}
	if c.calls != 0 {
		t.Errorf("classifier calls = %d, want 0", c.calls)
	}
	if m.Current() != Happy {
		t.Errorf("Current = %s, want happy", m.Current())
	}
}

func TestUpdate_FallbackClassifier(t *testing.T) {
	tests := []struct {
		name string
		resp string
		err  error
		want Label
	}{
		{"valid label", "Evil.", nil, Evil},
		{"out of set", "angry", nil, Neutral},
		{"error", "", errors.New("quota exceeded"), Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeClassifier{resp: tt.resp, err: tt.err}
			m := newTestManager(c)
			label, temp, _ := m.Update(context.Background(), "ok then")
			if label != tt.want {
				t.Errorf("label = %s, want %s", label, tt.want)
			}
			if temp != m.Temperature(tt.want) {
				t.Errorf("temperature = %v, want %v", temp, m.Temperature(tt.want))
			}
			if c.calls != 1 {
				t.Errorf("classifier calls = %d, want 1", c.calls)
			}
		})
	}
}

func TestUpdate_RecentWindow(t *testing.T) {
	c := &fakeClassifier{resp: "neutral"}
	m := newTestManager(c)
	for _, s := range []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7"} {
		m.Update(context.Background(), s)
	}
	recent := m.Recent()
	if len(recent) != recentCap || recent[0] != "a3" || recent[4] != "a7" {
		t.Errorf("recent = %v", recent)
	}
	if c.last != "a5 a6 a7" {
		t.Errorf("classifier text = %q, want last three", c.last)
	}

	m.Reset()
	if len(m.Recent()) != 0 || m.Current() != Neutral {
		t.Error("Reset did not clear state")
	}
}

func TestUpdate_NoClassifier(t *testing.T) {
	m := newTestManager(nil)
	if label, _, _ := m.Update(context.Background(), "ok then"); label != Neutral {
		t.Errorf("label = %s, want neutral", label)
	}
}

func TestTemperatureEmoji(t *testing.T) {
	tests := []struct {
		t    float64
		want string
	}{
		{0.85, "🔥"}, {0.8, "🔥"}, {0.65, "🌡️"}, {0.55, "❄️"}, {0.4, "❄️"}, {0.25, "🧊"},
	}
	for _, tt := range tests {
		if got := TemperatureEmoji(tt.t); got != tt.want {
			t.Errorf("TemperatureEmoji(%v) = %s, want %s", tt.t, got, tt.want)
		}
	}
}

func TestStatusPrefix(t *testing.T) {
	m := newTestManager(nil)
	got := m.StatusPrefix(Happy, 0.85)
	want := "[🤖 Status: Happy 😎 | 🔥 Temp: 0.85]"
	if got != want {
		t.Errorf("StatusPrefix = %q, want %q", got, want)
	}
}

func TestFlavorLine(t *testing.T) {
	m := newTestManager(nil)
	for _, l := range Labels {
		line := m.FlavorLine(l)
		found := false
		for _, candidate := range m.table[l].Lines {
			if candidate == line {
				found = true
			}
		}
		if !found {
			t.Errorf("FlavorLine(%s) = %q, not in table", l, line)
		}
	}
}

func TestParseTable(t *testing.T) {
	data := []byte(`
happy:
  temperature: 0.9
  emoji: "🎉"
  keywords: ["yay"]
  patterns: ["wo+t"]
`)
	table, err := ParseTable(data)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	m := NewManager(table, nil, nil)
	if label, score := m.Score("yay woooot"); label != Happy || score != 3 {
		t.Errorf("Score = %s/%d, want happy/3", label, score)
	}
	if m.Temperature(Sad) != 0.25 {
		t.Errorf("sad temperature = %v, want default 0.25", m.Temperature(Sad))
	}
}

func TestParseTable_Invalid(t *testing.T) {
	tests := []struct {
		name, data, wantErr string
	}{
		{"unknown mood", "grumpy:\n  temperature: 0.5\n", "unknown mood"},
		{"temperature range", "sad:\n  temperature: 1.5\n", "out of [0,1]"},
		{"bad pattern", "evil:\n  patterns: [\"(\"]\n", "pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadTable_EmptyPathIsDefault(t *testing.T) {
	table, err := LoadTable("")
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if table[Neutral].Emoji != "🤖" {
		t.Errorf("neutral emoji = %q", table[Neutral].Emoji)
	}
}
