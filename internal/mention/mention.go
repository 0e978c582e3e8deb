// Package mention decides whether a message addresses the bot.
//
// Both checks are case-insensitive: Telegram handles are case-insensitive,
// so "@DevBot" and "@devbot" address the same account.
package mention

import (
	"regexp"
	"strings"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const TypeMention = "mention"

// Span is a structured entity over the message text. Offset and Length
// are counted in UTF-16 code units, as Telegram reports them.
type Span struct {
	Type   string
	Offset int
	Length int
}

// SpansFromEntities adapts Telegram message entities.
func SpansFromEntities(entities []tgbotapi.MessageEntity) []Span {
	if len(entities) == 0 {
		return nil
	}
	out := make([]Span, 0, len(entities))
	for _, e := range entities {
		out = append(out, Span{Type: e.Type, Offset: e.Offset, Length: e.Length})
	}
	return out
}

type Detector struct {
	handle  string
	target  string
	pattern *regexp.Regexp
	strip   *regexp.Regexp
}

func NewDetector(botHandle string) *Detector {
	handle := strings.TrimPrefix(strings.TrimSpace(botHandle), "@")
	d := &Detector{handle: handle}
	if handle != "" {
		d.target = "@" + strings.ToLower(handle)
		// RE2 has no lookbehind and \w is ASCII-only, so both boundaries are
		// matched explicitly against Unicode letters and digits.
		d.pattern = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_@.])@` + regexp.QuoteMeta(handle) + `(?:$|[^\p{L}\p{N}_])`)
		d.strip = regexp.MustCompile(`(?i)@` + regexp.QuoteMeta(handle) + `\b`)
	}
	return d
}

func (d *Detector) Handle() string { return d.handle }

// Match reports whether text addresses the bot, via spans or the text pattern.
func (d *Detector) Match(text string, spans []Span) bool {
	if d == nil || d.handle == "" || strings.TrimSpace(text) == "" {
		return false
	}
	for _, s := range spans {
		if s.Type != TypeMention {
			continue
		}
		if strings.ToLower(sliceUTF16(text, s.Offset, s.Length)) == d.target {
			return true
		}
	}
	return d.pattern.MatchString(text)
}

// Strip removes every mention of the bot from text.
func (d *Detector) Strip(text string) string {
	if d == nil || d.handle == "" {
		return strings.TrimSpace(text)
	}
	return strings.Join(strings.Fields(d.strip.ReplaceAllString(text, "")), " ")
}

// IsMentioned is a one-shot Match for callers without a Detector.
func IsMentioned(text, botHandle string, spans []Span) bool {
	return NewDetector(botHandle).Match(text, spans)
}

func sliceUTF16(s string, offset, length int) string {
	if offset < 0 || length <= 0 || s == "" {
		return ""
	}
	units := utf16.Encode([]rune(s))
	if offset >= len(units) {
		return ""
	}
	end := offset + length
	if end > len(units) {
		end = len(units)
	}
	return string(utf16.Decode(units[offset:end]))
}
