// Package outputparser turns raw model text into a decision: a final answer
// or a single tool action.
//
// The model is expected to follow the MRKL format:
//
//	Thought: I should print hello world
//	Action: [HelloWorldPrinter]
//	Action Input: ""
//
// or, when done:
//
//	Thought: I now know the final answer
//	Final Answer: 42 degrees
package outputparser

import (
	"regexp"
	"strings"

	"github.com/rickchristie/mrkl"
	"go.uber.org/zap"
)

// FinalAnswerMarker marks a final answer. It takes precedence over any action
// block in the same response.
const FinalAnswerMarker = "Final Answer:"

// actionPattern matches the first "Action: " and captures the tool name up to
// the last newline that is followed by "Action Input:". The input capture runs
// to the end of the text.
var actionPattern = regexp.MustCompile(`(?s)Action: (.*)\nAction Input:(.*)`)

// Parser extracts a mrkl.ParsedResponse from model text. It is stateless and
// safe for concurrent use.
type Parser struct {
	logger *zap.Logger
}

// New creates a Parser that does not log.
func New() *Parser {
	return &Parser{logger: zap.NewNop()}
}

// WithLogger sets the logger used for debug output of every parsed response.
func (p *Parser) WithLogger(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	p.logger = logger
	return p
}

// Parse classifies text.
//
//   - If text contains "Final Answer:", the part after the last occurrence,
//     trimmed, is returned as a finish.
//   - Otherwise the tool name and input are taken from the action block, both
//     trimmed, and surrounding double quotes are stripped from the input.
//   - Text matching neither returns a *mrkl.ParseError carrying the text.
func (p *Parser) Parse(text string) (mrkl.ParsedResponse, error) {
	p.logger.Debug("parsing model output", zap.String("text", text))

	if strings.Contains(text, FinalAnswerMarker) {
		parts := strings.Split(text, FinalAnswerMarker)
		output := strings.TrimSpace(parts[len(parts)-1])
		return mrkl.NewFinishResponse(output, text), nil
	}

	match := actionPattern.FindStringSubmatch(text)
	if match == nil {
		return mrkl.ParsedResponse{}, &mrkl.ParseError{Text: text}
	}

	tool := strings.TrimSpace(match[1])
	input := strings.Trim(strings.TrimSpace(match[2]), `"`)
	return mrkl.NewActionResponse(tool, input, text), nil
}
