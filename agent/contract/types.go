package contract

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn entry as sent to the model and as persisted.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
