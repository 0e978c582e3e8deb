package handlers

import (
	"context"
	"errors"
	"fmt"

	"telegram-team-bot/internal/jira"
	"telegram-team-bot/internal/text"
	"telegram-team-bot/internal/tg"
)

var ErrNoChannel = errors.New("digest channel is not configured")

// RenderDigest fetches the project's TO DO issues as a Markdown message.
func RenderDigest(ctx context.Context, j *jira.Client) (string, error) {
	issues, err := j.TodoIssues(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch todo issues: %w", err)
	}
	return text.TodoDigest(issues, j.BrowseURL), nil
}

// PostDigest renders the digest and posts it to channel.
func PostDigest(ctx context.Context, j *jira.Client, api tg.API, channel string) error {
	if channel == "" {
		return ErrNoChannel
	}
	body, err := RenderDigest(ctx, j)
	if err != nil {
		return err
	}
	if err := (tg.ChatSender{API: api}).SendTo(channel, body); err != nil {
		return fmt.Errorf("post digest to %s: %w", channel, err)
	}
	return nil
}
