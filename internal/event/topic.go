package event

import "strings"

// Topic is a hierarchical event type using dot notation,
// e.g. "journal.transaction.applied".
type Topic string

// Wildcards and separator for topic patterns.
const (
	WildcardSingle = "*"
	WildcardMulti  = "**"
	Separator      = "."
)

// Topics published by the engine.
const (
	TopicTransactionApplied Topic = "journal.transaction.applied"
	TopicTransactionFailed  Topic = "journal.transaction.failed"
	TopicMinorActivated     Topic = "mode.minor.activated"
	TopicMinorDeactivated   Topic = "mode.minor.deactivated"
	TopicMajorActivated     Topic = "mode.major.activated"
	TopicMajorDeactivated   Topic = "mode.major.deactivated"
	TopicConfigReloaded     Topic = "config.reloaded"
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split on the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// IsValid reports whether the topic is non-empty and has no empty
// segments.
func (t Topic) IsValid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

// Matches reports whether t matches pattern.
func (t Topic) Matches(pattern Topic) bool {
	return matchSegments(t.Segments(), pattern.Segments())
}

func matchSegments(topic, pattern []string) bool {
	ti, pi := 0, 0
	for pi < len(pattern) {
		if pattern[pi] == WildcardMulti {
			for ti <= len(topic) {
				if matchSegments(topic[ti:], pattern[pi+1:]) {
					return true
				}
				ti++
			}
			return false
		}
		if ti >= len(topic) {
			return false
		}
		if pattern[pi] != WildcardSingle && pattern[pi] != topic[ti] {
			return false
		}
		ti++
		pi++
	}
	return ti == len(topic)
}
