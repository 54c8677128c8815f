package buddy

import (
	"fmt"
	"regexp"
	"strings"
)

// Notation selects how assistant turns are embedded in a document.
// A document is parsed with exactly one notation; the two are never mixed.
type Notation string

const (
	// NotationFence embeds assistant turns as ```buddy fenced blocks.
	NotationFence Notation = "fence"
	// NotationCallout embeds assistant turns as "> [!gpt-assistant]" callouts.
	NotationCallout Notation = "callout"
)

const (
	FenceTag      = "buddy"
	fenceMarker   = "```"
	CalloutTag    = "[!gpt-assistant]"
	calloutMarker = "> " + CalloutTag
)

var (
	fenceOpenRegex   = regexp.MustCompile("^" + fenceMarker + FenceTag + `\s*$`)
	fenceCloseRegex  = regexp.MustCompile("^" + fenceMarker + `\s*$`)
	calloutOpenRegex = regexp.MustCompile(`^>\s*` + regexp.QuoteMeta(CalloutTag) + `(\s.*)?$`)
)

// ParseNotation converts a configuration value into a Notation.
// The empty string selects the fence notation.
func ParseNotation(s string) (Notation, error) {
	switch Notation(strings.ToLower(strings.TrimSpace(s))) {
	case "", NotationFence:
		return NotationFence, nil
	case NotationCallout:
		return NotationCallout, nil
	default:
		return "", fmt.Errorf("unsupported notation: %s (expected fence or callout)", s)
	}
}

func (n Notation) String() string {
	return string(n)
}
