package history

import (
	"strconv"
	"strings"
	"time"
)

type Kind int

const (
	KindText Kind = iota
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// ImagePlaceholder is logged as text for images sent without a caption.
const ImagePlaceholder = "[зображення]"

// Entry is one logged unit of conversation.
// AuthorID is nil for entries written by the bot itself.
type Entry struct {
	Kind          Kind
	AuthorID      *int64
	AuthorName    string
	Text          string
	ImageCount    int
	Images        [][]byte
	MediaGroupKey string
	MessageID     int
	CreatedAt     time.Time
}

// UserID returns a pointer usable as Entry.AuthorID.
func UserID(id int64) *int64 {
	return &id
}

func (e Entry) IsBot() bool { return e.AuthorID == nil }

// BotText builds a bot-authored text entry.
func BotText(botName, text string, at time.Time) Entry {
	return Entry{
		Kind:       KindText,
		AuthorName: botName,
		Text:       text,
		CreatedAt:  at,
	}
}

// WithoutAuthor drops entries written under the given display name.
// Callers that need "other party only" context apply it themselves.
func WithoutAuthor(entries []Entry, name string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.AuthorName == name {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Render turns entries into "[name]: text" lines for a model prompt.
func Render(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		name := e.AuthorName
		if name == "" {
			name = "user"
		}
		text := e.Text
		if e.Kind == KindImage && e.ImageCount > 1 {
			text = strings.TrimSpace(text + " (" + strconv.Itoa(e.ImageCount) + " фото)")
		}
		b.WriteString("[" + name + "]: " + text + "\n")
	}
	return b.String()
}
