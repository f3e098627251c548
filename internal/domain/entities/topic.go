package entities

import (
	"errors"
	"strings"
)

// TopicKeySeparator joins subject and topic names into a topic key.
const TopicKeySeparator = "::"

var (
	ErrEmptyTopic       = errors.New("empty topic")
	ErrInvalidTopicName = errors.New("topic name contains key separator")
)

// TopicKey builds the composite key identifying a subject/topic pair.
func TopicKey(subject, topic string) string {
	return subject + TopicKeySeparator + topic
}

// ParseTopicKey splits a topic key on the first separator.
// A key without a separator is treated as a bare subject.
func ParseTopicKey(key string) (subject, topic string) {
	subject, topic, _ = strings.Cut(key, TopicKeySeparator)
	return subject, topic
}

// NormalizeTopic trims subject and topic names and rejects an empty topic.
func NormalizeTopic(subject, topic string) (string, string, error) {
	subject = strings.TrimSpace(subject)
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", "", ErrEmptyTopic
	}
	if strings.Contains(subject, TopicKeySeparator) || strings.Contains(topic, TopicKeySeparator) {
		return "", "", ErrInvalidTopicName
	}
	return subject, topic, nil
}
