// Package featureflags evaluates FEATURE_FLAGS toggles.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Known flags.
const (
	// FollowNotifications notifies an author when someone starts following them.
	FollowNotifications = "follow_notifications"
)

// defaults apply when a known flag is absent from the configuration.
var defaults = map[string]string{
	FollowNotifications: "off",
}

// Manager evaluates feature flags defined in a key=value list.
// Example: "follow_notifications=on" or "follow_notifications=25%".
type Manager struct {
	flags map[string]string
}

// NewManager creates a feature-flag manager from a comma-separated config string.
// Malformed pairs are ignored.
func NewManager(raw string) *Manager {
	out := make(map[string]string, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}

	return &Manager{flags: out}
}

// Enabled reports whether name is on for the given author.
// Values: on/true/1, off/false/0, or N% for a deterministic per-author rollout.
func (m *Manager) Enabled(name string, authorID uint) bool {
	if m == nil {
		return false
	}

	value, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return false
	}
	pct, err := strconv.Atoi(pctRaw)
	if err != nil || pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	if authorID == 0 {
		return false
	}
	return rolloutBucket(name, authorID) < pct
}

// Snapshot returns the evaluated state of every configured flag for one author.
func (m *Manager) Snapshot(authorID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, authorID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, authorID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), authorID)))
	return int(h.Sum32() % 100)
}
