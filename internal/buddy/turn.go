package buddy

// Role represents the author of a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Turn is one role-tagged unit of conversation content.
// Turns are values: two turns are the same turn when role and content match.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserTurn returns a turn with the user role.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn returns a turn with the assistant role.
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// SystemTurn returns a turn with the system role.
func SystemTurn(content string) Turn {
	return Turn{Role: RoleSystem, Content: content}
}

// WithSystem returns turns with a system turn prepended.
// If system is blank after sanitization, turns is returned unchanged.
func WithSystem(system string, turns []Turn) []Turn {
	system = Sanitize(system)
	if system == "" {
		return turns
	}
	out := make([]Turn, 0, len(turns)+1)
	out = append(out, SystemTurn(system))
	return append(out, turns...)
}

// SplitSystem separates a leading system turn from the conversation.
// Providers that carry the system prompt outside the message list use it.
func SplitSystem(turns []Turn) (string, []Turn) {
	if len(turns) > 0 && turns[0].Role == RoleSystem {
		return turns[0].Content, turns[1:]
	}
	return "", turns
}
