package document

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/longkey1/mdbuddy/internal/buddy"
	"github.com/sirupsen/logrus"
)

var (
	// ErrEmptyDocument is returned when the document contains no turns to send.
	ErrEmptyDocument = errors.New("document has no content to send")
	// ErrAwaitingUser is returned when the last turn already is an assistant reply.
	ErrAwaitingUser = errors.New("document ends with an assistant reply; add a message after it")
	// ErrEmptyReply is returned when the provider replied with blank content.
	ErrEmptyReply = errors.New("provider returned an empty reply")
)

// Options configures a single exchange.
type Options struct {
	// SystemPrompt is prepended as the system turn when not blank.
	SystemPrompt string
	// Parser selects the notation. Nil means the fence notation.
	Parser *buddy.Parser
	// Log receives progress entries. Nil discards them.
	Log *logrus.Entry
}

// Prepare reads and parses the document and returns the turns that would be
// submitted, system turn included. A malformed document is returned as-is so
// callers can inspect it with errors.As.
func Prepare(src Source, opts Options) ([]buddy.Turn, error) {
	parser := opts.parser()

	text, err := src.Text()
	if err != nil {
		return nil, err
	}

	turns, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	if len(turns) == 0 {
		return nil, ErrEmptyDocument
	}
	if turns[len(turns)-1].Role != buddy.RoleUser {
		return nil, ErrAwaitingUser
	}

	return buddy.WithSystem(opts.SystemPrompt, turns), nil
}

// Exchange sends the document's turns to provider and appends the rendered
// reply to sink. Nothing is sent when the document cannot be parsed, and
// nothing is appended when the provider fails.
func Exchange(ctx context.Context, src Source, sink Sink, provider buddy.Provider, opts Options) (buddy.Turn, error) {
	log := opts.logger().WithField("exchange_id", uuid.NewString())

	turns, err := Prepare(src, opts)
	if err != nil {
		return buddy.Turn{}, err
	}
	log.WithFields(logrus.Fields{
		"turns":    len(turns),
		"notation": opts.parser().Notation(),
	}).Debug("Sending turns to provider")

	reply, err := provider.Complete(ctx, turns)
	if err != nil {
		return buddy.Turn{}, fmt.Errorf("completion failed: %w", err)
	}
	if reply.Role != buddy.RoleAssistant {
		return buddy.Turn{}, fmt.Errorf("provider returned a %s turn, expected assistant", reply.Role)
	}
	if buddy.Sanitize(reply.Content) == "" {
		return buddy.Turn{}, ErrEmptyReply
	}

	fragment := opts.parser().Serialize(reply)
	if err := sink.Append(fragment); err != nil {
		return buddy.Turn{}, err
	}
	log.WithField("bytes", len(fragment)).Debug("Appended reply to document")

	return reply, nil
}

func (o Options) parser() *buddy.Parser {
	if o.Parser == nil {
		return buddy.NewParser()
	}
	return o.Parser
}

func (o Options) logger() *logrus.Entry {
	if o.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return logrus.NewEntry(l)
	}
	return o.Log
}
