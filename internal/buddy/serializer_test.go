package buddy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize(t *testing.T) {
	tests := []struct {
		name string
		turn Turn
		want string
	}{
		{
			name: "assistant",
			turn: AssistantTurn("4"),
			want: "\n```buddy\n4\n```",
		},
		{
			name: "assistant content is not modified",
			turn: AssistantTurn("  a\n\n b  "),
			want: "\n```buddy\n  a\n\n b  \n```",
		},
		{
			name: "user",
			turn: UserTurn("What is 2+2?"),
			want: "\nWhat is 2+2?",
		},
		{
			name: "system",
			turn: SystemTurn("be brief"),
			want: "\nbe brief",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Serialize(tt.turn))
		})
	}
}

func TestSerializeCallout(t *testing.T) {
	p := NewParser(WithNotation(NotationCallout))

	assert.Equal(t, "\n> [!gpt-assistant]\n> one\n>\n> two", p.Serialize(AssistantTurn("one\n\ntwo")))
	assert.Equal(t, "\nhello", p.Serialize(UserTurn("hello")))
}

func TestRoundTrip(t *testing.T) {
	doc := "What is 2+2?\n```buddy\n4\n```\n\nAnd in binary?\n\n```buddy\n100\n\nThat is:\n  1*4 + 0*2 + 0*1\n```\n```buddy\nB\n```\nthanks\n\n> a quote\n```go\nx := 1\n```"

	for _, notation := range []Notation{NotationFence, NotationCallout} {
		t.Run(notation.String(), func(t *testing.T) {
			p := NewParser(WithNotation(notation))
			turns, err := p.Parse(doc)
			require.NoError(t, err)
			require.NotEmpty(t, turns)

			for _, turn := range turns {
				got, err := p.Parse(p.Serialize(turn))
				require.NoError(t, err)
				assert.Equal(t, []Turn{turn}, got)
			}
		})
	}
}

func TestAppendedReplyParsesBack(t *testing.T) {
	doc := "What is 2+2?"
	reply := AssistantTurn("It is 4.\n\nAnything else?")

	turns, err := Parse(doc + Serialize(reply))
	require.NoError(t, err)
	assert.Equal(t, []Turn{UserTurn("What is 2+2?"), reply}, turns)
}
