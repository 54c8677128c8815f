package buddy

import "strings"

// Serialize renders turn in the fence notation. Assistant turns become a
// ```buddy block; every other role is emitted as plain text. The fragment
// starts with a newline and has no trailing newline.
func Serialize(turn Turn) string {
	return serializeFence(turn)
}

func serializeFence(turn Turn) string {
	if turn.Role != RoleAssistant {
		return "\n" + turn.Content
	}
	return "\n" + fenceMarker + FenceTag + "\n" + turn.Content + "\n" + fenceMarker
}

func serializeCallout(turn Turn) string {
	if turn.Role != RoleAssistant {
		return "\n" + turn.Content
	}
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(calloutMarker)
	for _, line := range strings.Split(turn.Content, "\n") {
		sb.WriteString("\n>")
		if line != "" {
			sb.WriteString(" ")
			sb.WriteString(line)
		}
	}
	return sb.String()
}
