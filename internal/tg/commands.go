package tg

import "strings"

// StripCommandText removes any leading telegram command token
// like "/command" or "/command@botname" from the start of text
// and returns the remaining trimmed string.
// Example: "/status_issue@mybot KEY-1" -> "KEY-1"
func StripCommandText(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "/") {
		return s
	}
	// Token ends at first whitespace.
	i := strings.IndexAny(s, " \t\n\r")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(s[i+1:])
}

// ParseCommand splits "/name@bot args" into name and args. ok is false for
// non-commands and for commands addressed to a different bot.
func ParseCommand(text, botName string) (name, args string, ok bool) {
	s := strings.TrimSpace(text)
	if len(s) < 2 || s[0] != '/' {
		return "", "", false
	}
	token := s[1:]
	if i := strings.IndexAny(token, " \t\n\r"); i >= 0 {
		token = token[:i]
	}
	name, target, addressed := strings.Cut(token, "@")
	if addressed && botName != "" && !strings.EqualFold(target, strings.TrimPrefix(botName, "@")) {
		return "", "", false
	}
	if name == "" {
		return "", "", false
	}
	return strings.ToLower(name), StripCommandText(s), true
}
