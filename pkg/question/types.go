package question

import (
	"fmt"
	"strings"
)

// Type tags the kind of control a question is answered with.
type Type string

const (
	// TypeEmoji asks the user to pick one emoji out of Choices.
	TypeEmoji Type = "choice-emoji"
	// TypeScale asks for an integer in [Min, Max], optionally labelled.
	TypeScale Type = "choice-scale"
	// TypeText asks for free text.
	TypeText Type = "free-text"
)

// ExtraSuffix is appended to a question id to derive the key of its
// secondary free-text answer.
const ExtraSuffix = "_extra"

// Valid reports whether t is one of the known type tags.
func (t Type) Valid() bool {
	switch t {
	case TypeEmoji, TypeScale, TypeText:
		return true
	default:
		return false
	}
}

// Question describes one survey step. Question values are static
// configuration: walkers copy the list on construction and never mutate it.
type Question struct {
	ID         string         `json:"id" yaml:"id"`
	Prompt     string         `json:"prompt" yaml:"prompt"`
	Type       Type           `json:"type" yaml:"type"`
	Choices    []string       `json:"choices,omitempty" yaml:"choices,omitempty"`
	Min        int            `json:"min,omitempty" yaml:"min,omitempty"`
	Max        int            `json:"max,omitempty" yaml:"max,omitempty"`
	Labels     map[int]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	AllowExtra bool           `json:"allowExtra,omitempty" yaml:"allowExtra,omitempty"`
}

// ExtraKey returns the answer-set key holding the secondary free text for
// the question identified by id.
func ExtraKey(id string) string {
	return id + ExtraSuffix
}

// ExtraKey returns the answer-set key of the question's secondary text.
func (q Question) ExtraKey() string {
	return ExtraKey(q.ID)
}

// ScaleValues lists the selectable integers of a scale question in order.
// Non-scale questions and inverted ranges yield nil.
func (q Question) ScaleValues() []int {
	if q.Type != TypeScale || q.Min > q.Max {
		return nil
	}
	out := make([]int, 0, q.Max-q.Min+1)
	for n := q.Min; n <= q.Max; n++ {
		out = append(out, n)
	}
	return out
}

// ScaleLabel formats a scale value the way it is displayed next to its
// control: "2 (Regular)" when a label exists, "2" otherwise.
func (q Question) ScaleLabel(n int) string {
	if label := strings.TrimSpace(q.Labels[n]); label != "" {
		return fmt.Sprintf("%d (%s)", n, label)
	}
	return fmt.Sprintf("%d", n)
}

// HasChoice reports whether value is one of the question's choices.
func (q Question) HasChoice(value string) bool {
	for _, choice := range q.Choices {
		if choice == value {
			return true
		}
	}
	return false
}

// InRange reports whether n is a selectable scale value.
func (q Question) InRange(n int) bool {
	return n >= q.Min && n <= q.Max
}

// Clone returns a deep copy so callers can hold the question without sharing
// the Choices slice or Labels map.
func (q Question) Clone() Question {
	out := q
	if q.Choices != nil {
		out.Choices = append([]string(nil), q.Choices...)
	}
	if q.Labels != nil {
		out.Labels = make(map[int]string, len(q.Labels))
		for k, v := range q.Labels {
			out.Labels[k] = v
		}
	}
	return out
}

// CloneAll deep-copies a question list.
func CloneAll(questions []Question) []Question {
	if questions == nil {
		return nil
	}
	out := make([]Question, len(questions))
	for i, q := range questions {
		out[i] = q.Clone()
	}
	return out
}
