package buddy

import (
	"strings"
)

type state int

const (
	noTurn state = iota
	accumulatingUser
	accumulatingAssistant
)

// accumulator holds the in-progress state of a single Parse call.
type accumulator struct {
	state  state
	lines  []string
	opened int // line of the marker that opened the current assistant turn
	turns  []Turn
}

func (a *accumulator) role() Role {
	if a.state == accumulatingAssistant {
		return RoleAssistant
	}
	return RoleUser
}

// flush emits the accumulated content as a turn unless it is blank.
func (a *accumulator) flush() {
	if a.state != noTurn {
		if content := Sanitize(strings.Join(a.lines, "\n")); content != "" {
			a.turns = append(a.turns, Turn{Role: a.role(), Content: content})
		}
	}
	a.lines = a.lines[:0]
}

// switchTo flushes the current turn and starts accumulating a new one.
func (a *accumulator) switchTo(s state, line int) {
	a.flush()
	a.state = s
	if s == accumulatingAssistant {
		a.opened = line
	}
}

func (a *accumulator) add(line string) {
	if a.state == noTurn {
		a.state = accumulatingUser
	}
	a.lines = append(a.lines, line)
}

// Parser converts documents to turns and turns back to document fragments
// using a single notation.
type Parser struct {
	notation Notation
}

// Option configures a Parser.
type Option func(*Parser)

// WithNotation selects the notation. The default is NotationFence.
func WithNotation(n Notation) Option {
	return func(p *Parser) {
		p.notation = n
	}
}

// NewParser creates a Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{notation: NotationFence}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Notation returns the notation the parser reads and writes.
func (p *Parser) Notation() Notation {
	return p.notation
}

// Parse splits document into an ordered sequence of user and assistant turns.
// Blank spans never produce a turn, so an empty or whitespace-only document
// yields an empty sequence.
func (p *Parser) Parse(document string) ([]Turn, error) {
	if p.notation == NotationCallout {
		return parseCallout(document), nil
	}
	return parseFence(document)
}

// Serialize renders turn as a fragment to append to a document.
func (p *Parser) Serialize(turn Turn) string {
	if p.notation == NotationCallout {
		return serializeCallout(turn)
	}
	return serializeFence(turn)
}

// Parse parses document using the fence notation.
func Parse(document string) ([]Turn, error) {
	return parseFence(document)
}

func parseFence(document string) ([]Turn, error) {
	a := &accumulator{turns: []Turn{}}
	for i, line := range strings.Split(document, "\n") {
		switch {
		case a.state != accumulatingAssistant && fenceOpenRegex.MatchString(line):
			a.switchTo(accumulatingAssistant, i+1)
		case a.state == accumulatingAssistant && fenceCloseRegex.MatchString(line):
			a.switchTo(accumulatingUser, i+1)
		default:
			a.add(line)
		}
	}

	if a.state == accumulatingAssistant {
		return nil, &MalformedDocumentError{Line: a.opened, Err: ErrUnterminatedAssistantBlock}
	}
	a.flush()
	return a.turns, nil
}

// parseCallout reads the callout notation. A callout runs until the first
// line that is not quoted, so it cannot be left unterminated.
func parseCallout(document string) []Turn {
	a := &accumulator{turns: []Turn{}}
	for i, line := range strings.Split(document, "\n") {
		switch {
		case a.state == accumulatingAssistant && strings.HasPrefix(line, ">"):
			a.add(StripQuote(line))
		case a.state == accumulatingAssistant:
			a.switchTo(accumulatingUser, i+1)
			a.add(line)
		case calloutOpenRegex.MatchString(line):
			a.switchTo(accumulatingAssistant, i+1)
		default:
			a.add(line)
		}
	}
	a.flush()
	return a.turns
}
