package notify

import (
	"fmt"
	"strings"
)

type mentionKind int

const (
	mentionNone mentionKind = iota
	mentionEveryone
	mentionHere
	mentionRole
	mentionLiteral
)

// parseMention classifies the configured mention setting: none, everyone, here,
// role:<id>, or a literal token. The second value is the role ID or the literal.
func parseMention(value string) (mentionKind, string) {
	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "", "none", "off", "false":
		return mentionNone, ""
	case "everyone", "@everyone", "all":
		return mentionEveryone, ""
	case "here", "@here", "online":
		return mentionHere, ""
	}
	if id, ok := strings.CutPrefix(strings.ToLower(v), "role:"); ok && id != "" {
		return mentionRole, strings.TrimSpace(v[len("role:"):])
	}
	return mentionLiteral, v
}

// ParseMention renders the mention setting in Discord syntax.
func ParseMention(value string) string {
	kind, arg := parseMention(value)
	switch kind {
	case mentionEveryone:
		return "@everyone"
	case mentionHere:
		return "@here"
	case mentionRole:
		return "<@&" + arg + ">"
	default:
		return arg
	}
}

// TelegramMention renders the mention setting for a Telegram chat. Telegram has no
// broadcast mention, so everyone and here render as nothing; roles do not exist there.
func TelegramMention(value string) (string, error) {
	kind, arg := parseMention(value)
	switch kind {
	case mentionRole:
		return "", fmt.Errorf("role mentions are not supported by telegram: %q", value)
	case mentionLiteral:
		return arg, nil
	default:
		return "", nil
	}
}

// Clip shortens s to at most max runes, marking the cut with "...".
func Clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
