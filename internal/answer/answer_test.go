package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeCompleter struct {
	reply  string
	err    error
	delay  time.Duration
	prompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func TestClassify(t *testing.T) {
	long := strings.Repeat("Running shoes should fit well and support the arch. ", 6)

	tests := []struct {
		name string
		text string
		want Format
	}{
		{name: "numbered steps", text: "1. First step\n2. Second step", want: FormatStepByStep},
		{name: "parenthesised steps", text: "Intro\n1) Lace up", want: FormatStepByStep},
		{name: "step keyword", text: "Step 1 measure\nStep 2 order", want: FormatStepByStep},
		{name: "short bulleted list", text: "- one\n- two", want: FormatBulletList},
		{name: "asterisk bullets", text: "Options:\n* red\n* blue", want: FormatBulletList},
		{name: "unicode bullets", text: "• comfort\n• price", want: FormatBulletList},
		{name: "steps beat bullets", text: "- overview\n1. do this", want: FormatStepByStep},
		{name: "short definition", text: strings.Repeat("a", 50), want: FormatDefinition},
		{name: "long paragraph", text: long, want: FormatParagraph},
		{name: "number mid-line is not a step", text: long + " There are 3. options", want: FormatParagraph},
		{name: "empty", text: "", want: FormatDefinition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestFormat_IsList(t *testing.T) {
	assert.True(t, FormatStepByStep.IsList())
	assert.True(t, FormatBulletList.IsList())
	assert.False(t, FormatDefinition.IsList())
	assert.False(t, FormatParagraph.IsList())
}

func TestConceptExtractor_Extract(t *testing.T) {
	completer := &fakeCompleter{reply: "```json\n{\"topics\":[\"cushioning\",\" \",\"sizing\"],\"entities\":[\"Nike\"]}\n```"}
	e := NewConceptExtractor(completer, zaptest.NewLogger(t))

	res := e.Extract(context.Background(), "Choose shoes with cushioning.")

	require.False(t, res.Degraded)
	assert.Equal(t, []string{"cushioning", "sizing"}, res.Value.Topics)
	assert.Equal(t, []string{"Nike"}, res.Value.Entities)
	assert.Contains(t, completer.prompt, "Choose shoes with cushioning.")
}

func TestConceptExtractor_Degrades(t *testing.T) {
	tests := []struct {
		name      string
		completer *fakeCompleter
	}{
		{name: "network error", completer: &fakeCompleter{err: errors.New("connection refused")}},
		{name: "invalid json", completer: &fakeCompleter{reply: "Here are the topics: cushioning"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewConceptExtractor(tt.completer, zaptest.NewLogger(t)).Extract(context.Background(), "text")

			assert.True(t, res.Degraded)
			require.Error(t, res.Reason)
			assert.Equal(t, Concepts{Topics: []string{}, Entities: []string{}}, res.Value)
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSONResponse("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONResponse("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONResponse("  {\"a\":1} "))
}

func TestQueryEnhancer_Enhance(t *testing.T) {
	e := NewQueryEnhancer(&fakeCompleter{reply: "  \"What are the best running shoes for flat feet?\"\n"}, time.Second, zaptest.NewLogger(t))

	res := e.Enhance(context.Background(), "shoes flat feet")

	require.False(t, res.Degraded)
	assert.Equal(t, "What are the best running shoes for flat feet?", res.Value)
}

func TestQueryEnhancer_Timeout(t *testing.T) {
	e := NewQueryEnhancer(&fakeCompleter{reply: "late", delay: time.Second}, 20*time.Millisecond, zaptest.NewLogger(t))
	query := "shoes flat feet"

	res := e.Enhance(context.Background(), query)

	assert.True(t, res.Degraded)
	assert.ErrorIs(t, res.Reason, context.DeadlineExceeded)
	assert.Equal(t, query, res.OrElse(query))
	assert.Equal(t, "shoes flat feet", query)
}

func TestQueryEnhancer_EmptyReply(t *testing.T) {
	e := NewQueryEnhancer(&fakeCompleter{reply: `""`}, time.Second, zaptest.NewLogger(t))

	res := e.Enhance(context.Background(), "shoes")

	assert.True(t, res.Degraded)
	assert.Equal(t, "shoes", res.Value)
}
