package outputparser

import (
	"errors"
	"sync"
	"testing"

	"github.com/rickchristie/mrkl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParser_Parse(t *testing.T) {
	type input struct {
		text string
	}

	type expected struct {
		isFinish   bool
		output     string
		tool       string
		toolInput  string
		parseError bool
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "final answer",
			input:    input{text: "Thought: done\nFinal Answer: 42 degrees"},
			expected: expected{isFinish: true, output: "42 degrees"},
		},
		{
			name: "final answer wins over action block",
			input: input{text: "Thought: x\nAction: [HelloWorldPrinter]\nAction Input: \"\"\n" +
				"Final Answer: printed"},
			expected: expected{isFinish: true, output: "printed"},
		},
		{
			name:     "last final answer is used",
			input:    input{text: "Final Answer: first\nFinal Answer:   second  \n"},
			expected: expected{isFinish: true, output: "second"},
		},
		{
			name:     "final answer with empty output",
			input:    input{text: "Final Answer:"},
			expected: expected{isFinish: true, output: ""},
		},
		{
			name:     "action with empty input",
			input:    input{text: "Thought: I should print\nAction: [HelloWorldPrinter]\nAction Input: "},
			expected: expected{tool: "[HelloWorldPrinter]", toolInput: ""},
		},
		{
			name:     "action input quotes stripped",
			input:    input{text: "Action: [TodaysWeatherGetter]\nAction Input: \"30\""},
			expected: expected{tool: "[TodaysWeatherGetter]", toolInput: "30"},
		},
		{
			name:     "repeated quotes stripped greedily",
			input:    input{text: "Action: search\nAction Input: \"\"golang\"\""},
			expected: expected{tool: "search", toolInput: "golang"},
		},
		{
			name:     "inner quotes kept",
			input:    input{text: "Action: search\nAction Input: say \"hi\" now"},
			expected: expected{tool: "search", toolInput: "say \"hi\" now"},
		},
		{
			name:     "tool name trimmed",
			input:    input{text: "Action:   search  \nAction Input:golang\n"},
			expected: expected{tool: "search", toolInput: "golang"},
		},
		{
			name:     "multiline input captured to end",
			input:    input{text: "Action: write\nAction Input: line one\nline two"},
			expected: expected{tool: "write", toolInput: "line one\nline two"},
		},
		{
			name: "name capture runs to last action input",
			input: input{text: "Action: a\nAction Input: 1\n" +
				"Action: b\nAction Input: 2"},
			expected: expected{tool: "a\nAction Input: 1\nAction: b", toolInput: "2"},
		},
		{
			name:     "no markers",
			input:    input{text: "I am not sure what to do."},
			expected: expected{parseError: true},
		},
		{
			name:     "truncated action block",
			input:    input{text: "Thought: hmm\nAction: search"},
			expected: expected{parseError: true},
		},
		{
			name:     "action input without newline",
			input:    input{text: "Action: search Action Input: golang"},
			expected: expected{parseError: true},
		},
		{
			name:     "empty text",
			input:    input{text: ""},
			expected: expected{parseError: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := New().Parse(tt.input.text)

			if tt.expected.parseError {
				require.Error(t, err)
				assert.ErrorIs(t, err, mrkl.ErrUnparseableResponse)

				var pErr *mrkl.ParseError
				require.True(t, errors.As(err, &pErr))
				assert.Equal(t, tt.input.text, pErr.Text)
				assert.Nil(t, parsed.Action)
				assert.Nil(t, parsed.Finish)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected.isFinish, parsed.IsFinish())
			if tt.expected.isFinish {
				require.NotNil(t, parsed.Finish)
				assert.Nil(t, parsed.Action)
				assert.Equal(t, tt.expected.output, parsed.Output())
				assert.Equal(t, tt.input.text, parsed.Finish.Log)
				return
			}

			require.NotNil(t, parsed.Action)
			assert.Nil(t, parsed.Finish)
			assert.Equal(t, tt.expected.tool, parsed.Action.Tool)
			assert.Equal(t, tt.expected.toolInput, parsed.Action.ToolInput)
			assert.Equal(t, tt.input.text, parsed.Action.Log)
		})
	}
}

func TestParser_LogsRawText(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p := New().WithLogger(zap.New(core))

	_, err := p.Parse("Final Answer: ok")
	require.NoError(t, err)

	entries := logs.FilterMessage("parsing model output").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Final Answer: ok", entries[0].ContextMap()["text"])
}

func TestParser_ConcurrentUse(t *testing.T) {
	p := New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			parsed, err := p.Parse("Action: echo\nAction Input: \"x\"")
			assert.NoError(t, err)
			assert.Equal(t, "x", parsed.Action.ToolInput)
		}()
	}
	wg.Wait()
}
