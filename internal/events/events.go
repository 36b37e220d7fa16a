package events

import "time"

const (
	StreamName   = "BRAINNOVA_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectChatAnswered() string { return "brainnova.chat.answered" }

func SubjectIndexComputed(territory string) string {
	return "brainnova.index." + territory + ".computed"
}

// ChatAnsweredEvent records one resolved chat interaction.
type ChatAnsweredEvent struct {
	Message   string    `json:"message"`
	Intent    string    `json:"intent"`
	Timestamp time.Time `json:"timestamp"`
}

// IndexComputedEvent records one global index computation.
type IndexComputedEvent struct {
	Territory string    `json:"territory"`
	Period    int       `json:"period,omitempty"`
	Index     float64   `json:"index"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}
