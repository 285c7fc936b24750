package prompt

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
)

//go:embed mrkl.tmpl
var mrklTemplateContent string

// TemplateData is passed to prompt templates.
type TemplateData struct {
	// ToolListing has one "name: description" line per tool.
	ToolListing string

	// ToolNames has one tool name per line. The default template places it
	// inside "[...]" in the format instructions.
	ToolNames string

	// Question is the user question, unmodified.
	Question string

	// Scratchpad is the replay of previous steps, see Scratchpad.
	Scratchpad string
}

// DefaultTemplate is the MRKL prompt: preamble, tool listing, format
// instructions and the question followed by the scratchpad.
//
// The file's trailing newline is dropped so the prompt ends right after the
// scratchpad, where the model continues.
var DefaultTemplate = template.Must(
	template.New("mrkl").Parse(strings.TrimSuffix(mrklTemplateContent, "\n")),
)

// ExecuteTemplate executes tmpl with data and returns the result.
func ExecuteTemplate(tmpl *template.Template, data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
