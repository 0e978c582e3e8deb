// Package mood scores chat text against a static keyword/pattern table and
// maps the winning mood to a sampling temperature and a tone emoji.
//
// Scoring is synchronous. Only when no mood scores at all does Update fall
// back to the external Classifier, which is always a separate call.
package mood

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
)

const (
	recentCap     = 5
	classifyTexts = 3
)

// Classifier is the fallback tone classifier, usually an LLM.
type Classifier interface {
	Classify(ctx context.Context, system, text string) (string, error)
}

const classifierPrompt = `Analyze the tone and emotional state of the following messages.
Respond with exactly one word from: happy, sad, evil, neutral

- happy: cheerful, playful, joking, positive emotions
- sad: melancholic, confused, frustrated, disappointed
- evil: sarcastic, angry, aggressive, dark humor
- neutral: factual, technical, dry, professional`

// Manager is the process-wide rolling mood state.
type Manager struct {
	table      Table
	classifier Classifier
	log        *slog.Logger

	mu      sync.Mutex
	current Label
	recent  []string
}

// NewManager builds a manager; a nil classifier disables the fallback.
func NewManager(table Table, classifier Classifier, log *slog.Logger) *Manager {
	if table == nil {
		table = DefaultTable()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		table:      table,
		classifier: classifier,
		log:        log,
		current:    Neutral,
	}
}

// Score sums +1 per keyword and +2 per pattern for every mood and returns
// the strictly highest one, ties resolved by Labels order.
func (m *Manager) Score(text string) (Label, int) {
	scores := m.Scores(text)
	best, bestScore := Labels[0], scores[Labels[0]]
	for _, l := range Labels[1:] {
		if scores[l] > bestScore {
			best, bestScore = l, scores[l]
		}
	}
	return best, bestScore
}

func (m *Manager) Scores(text string) map[Label]int {
	lower := strings.ToLower(text)
	scores := make(map[Label]int, len(Labels))
	for _, l := range Labels {
		p := m.table[l]
		for _, kw := range p.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				scores[l]++
			}
		}
		for _, re := range p.compiled {
			if re.MatchString(text) {
				scores[l] += 2
			}
		}
	}
	return scores
}

// Detect reports the keyword-scored mood; ok is false when nothing matched.
func (m *Manager) Detect(text string) (Label, bool) {
	label, score := m.Score(text)
	if score == 0 {
		return Neutral, false
	}
	return label, true
}

// Classify asks the fallback classifier about the last few texts.
// Errors and labels outside the table resolve to Neutral.
func (m *Manager) Classify(ctx context.Context, texts []string) Label {
	if m.classifier == nil || len(texts) == 0 {
		return Neutral
	}
	if len(texts) > classifyTexts {
		texts = texts[len(texts)-classifyTexts:]
	}
	resp, err := m.classifier.Classify(ctx, classifierPrompt, strings.Join(texts, " "))
	if err != nil {
		m.log.Error("mood: tone classification failed", slog.Any("err", err))
		return Neutral
	}
	label, ok := ParseLabel(strings.Trim(strings.TrimSpace(resp), ".!\"'"))
	if !ok {
		m.log.Debug("mood: classifier returned unknown label", slog.String("resp", resp))
	}
	return label
}

// Update records text, picks the mood and returns its temperature and emoji.
func (m *Manager) Update(ctx context.Context, text string) (Label, float64, string) {
	m.mu.Lock()
	if strings.TrimSpace(text) != "" {
		m.recent = append(m.recent, text)
		if len(m.recent) > recentCap {
			m.recent = append([]string(nil), m.recent[len(m.recent)-recentCap:]...)
		}
	}
	recent := append([]string(nil), m.recent...)
	m.mu.Unlock()

	label, ok := m.Detect(text)
	if !ok && strings.TrimSpace(text) != "" {
		label = m.Classify(ctx, recent)
	}

	m.mu.Lock()
	m.current = label
	m.mu.Unlock()

	p := m.table[label]
	m.log.Info("mood updated", slog.String("mood", string(label)), slog.Float64("temperature", p.Temperature))
	return label, p.Temperature, p.Emoji
}

func (m *Manager) Current() Label {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Recent returns the rolling texts, oldest first.
func (m *Manager) Recent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.recent...)
}

func (m *Manager) Temperature(label Label) float64 {
	if p, ok := m.table[label]; ok {
		return p.Temperature
	}
	return m.table[Neutral].Temperature
}

func (m *Manager) Emoji(label Label) string {
	if p, ok := m.table[label]; ok {
		return p.Emoji
	}
	return m.table[Neutral].Emoji
}

func (m *Manager) Reset() {
	m.mu.Lock()
	m.current = Neutral
	m.recent = nil
	m.mu.Unlock()
}

// StatusPrefix renders the line prepended to replies, e.g.
// "[🤖 Status: Happy 😎 | 🔥 Temp: 0.85]".
func (m *Manager) StatusPrefix(label Label, temperature float64) string {
	name := string(label)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("[🤖 Status: %s %s | %s Temp: %.2f]", name, m.Emoji(label), TemperatureEmoji(temperature), temperature)
}

// FlavorLine picks a random one-liner for the mood.
func (m *Manager) FlavorLine(label Label) string {
	p, ok := m.table[label]
	if !ok || len(p.Lines) == 0 {
		p = m.table[Neutral]
	}
	if len(p.Lines) == 0 {
		return ""
	}
	return p.Lines[rand.Intn(len(p.Lines))]
}

func TemperatureEmoji(t float64) string {
	switch {
	case t >= 0.8:
		return "🔥"
	case t >= 0.6:
		return "🌡️"
	case t >= 0.4:
		return "❄️"
	default:
		return "🧊"
	}
}
