package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxPhotoBytes caps a single downloaded photo.
const MaxPhotoBytes = 10 << 20

var ErrNoPhoto = errors.New("message has no photo")

// FileLinker resolves a Telegram file id into a direct download URL.
// *tgbotapi.BotAPI satisfies it.
type FileLinker interface {
	GetFileDirectURL(fileID string) (string, error)
}

// LargestPhoto picks the biggest size Telegram offers for a photo.
func LargestPhoto(sizes []tgbotapi.PhotoSize) (tgbotapi.PhotoSize, bool) {
	if len(sizes) == 0 {
		return tgbotapi.PhotoSize{}, false
	}
	best := sizes[0]
	for _, s := range sizes[1:] {
		if s.Width*s.Height > best.Width*best.Height || (s.Width*s.Height == best.Width*best.Height && s.FileSize > best.FileSize) {
			best = s
		}
	}
	return best, true
}

// DownloadPhoto fetches the largest size of the message photo.
func DownloadPhoto(ctx context.Context, bot FileLinker, client *http.Client, message *tgbotapi.Message) ([]byte, error) {
	if message == nil {
		return nil, ErrNoPhoto
	}
	photo, ok := LargestPhoto(message.Photo)
	if !ok {
		return nil, ErrNoPhoto
	}
	url, err := bot.GetFileDirectURL(photo.FileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get photo URL: %w", err)
	}
	return Download(ctx, client, url, MaxPhotoBytes)
}

// Download reads at most limit bytes from url.
func Download(ctx context.Context, client *http.Client, url string, limit int64) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("download: file exceeds %d bytes", limit)
	}
	return data, nil
}

// DisplayName is the name used for a user in history and prompts:
// the username when set, the first name otherwise.
func DisplayName(user *tgbotapi.User) string {
	if user == nil {
		return "user"
	}
	if name := strings.TrimSpace(user.UserName); name != "" {
		return name
	}
	if name := strings.TrimSpace(user.FirstName); name != "" {
		return name
	}
	return "user"
}

// FullName renders "First Last (@username)" for issue attribution.
func FullName(user *tgbotapi.User) string {
	if user == nil {
		return "Unknown"
	}
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if user.UserName != "" {
		if name == "" {
			return "@" + user.UserName
		}
		name += " (@" + user.UserName + ")"
	}
	return name
}
