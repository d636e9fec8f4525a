package models

import (
	"censorship/pkg/censor"
	"censorship/pkg/element"
)

// CensorRequest carries either raw markup in Content or a parsed tree in Elements.
type CensorRequest struct {
	Content  *string            `json:"content,omitempty"`
	Elements []*element.Element `json:"elements,omitempty"`
	Session  *censor.Session    `json:"session,omitempty"`
}

// CensorResponse has the same shape as the request it answers.
type CensorResponse struct {
	Content  *string            `json:"content,omitempty"`
	Elements []*element.Element `json:"elements,omitempty"`
}

type PatternStatus struct {
	Pattern string `json:"pattern"`
	Error   string `json:"error,omitempty"`
}

type Stats struct {
	Entries  int             `json:"entries"`
	Words    int             `json:"words"`
	Cached   int             `json:"cached"`
	Patterns []PatternStatus `json:"patterns"`
}
