package models

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// GeneralSymbol marks a chat session not bound to any company.
const GeneralSymbol = "GENERAL"

// Source is a citation attached to an assistant reply.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ChartSpec is a renderable chart the model may attach to a reply.
type ChartSpec struct {
	Type   string    `json:"type"` // line, bar, pie
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// ChatMessage is one turn in a session. Messages are append-only and
// strictly timestamp-ordered; they are never mutated after persist.
type ChatMessage struct {
	Role          string     `json:"role"`
	Content       string     `json:"content"`
	Timestamp     time.Time  `json:"timestamp"`
	UsedWebSearch bool       `json:"usedWebSearch,omitempty"`
	Sources       []Source   `json:"sources,omitempty"`
	Chart         *ChartSpec `json:"chartData,omitempty"`
}

// ChatSession is the persisted conversation log, keyed by session ID.
// Sessions idle past the session TTL are eligible for deletion by the
// reaper; the full message history is stored but only a trailing window is
// read back into prompt context.
type ChatSession struct {
	SessionID string        `json:"sessionId" badgerhold:"key"`
	Symbol    string        `json:"symbol"` // ticker or GeneralSymbol
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Tail returns the last n messages.
func (s *ChatSession) Tail(n int) []ChatMessage {
	if len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// ChatReply is the orchestrator's response for one conversational turn.
type ChatReply struct {
	SessionID     string     `json:"sessionId"`
	Answer        string     `json:"answer"`
	Chart         *ChartSpec `json:"chart,omitempty"`
	Sources       []Source   `json:"sources,omitempty"`
	UsedWebSearch bool       `json:"usedWebSearch"`
	Timestamp     time.Time  `json:"timestamp"`
}

// SearchResult is one web-search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}
