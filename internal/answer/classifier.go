// Package answer classifies and mines AI-generated answers.
package answer

import (
	"regexp"
	"unicode/utf8"
)

// Format is the structural shape of an answer.
type Format string

const (
	FormatStepByStep Format = "step_by_step"
	FormatBulletList Format = "bullet_list"
	FormatDefinition Format = "definition"
	FormatParagraph  Format = "paragraph"
)

// DefinitionMaxChars is the length under which an unstructured answer counts as a definition.
const DefinitionMaxChars = 200

var (
	stepPattern   = regexp.MustCompile(`(?m)^(\d+[.)]|Step\s+\d+)`)
	bulletPattern = regexp.MustCompile(`(?m)^[*\-•]`)
)

// Classify returns the format of text. Rules are tried in order and the first match wins.
func Classify(text string) Format {
	switch {
	case stepPattern.MatchString(text):
		return FormatStepByStep
	case bulletPattern.MatchString(text):
		return FormatBulletList
	case utf8.RuneCountInString(text) < DefinitionMaxChars:
		return FormatDefinition
	default:
		return FormatParagraph
	}
}

// IsList reports whether f describes list-shaped content.
func (f Format) IsList() bool {
	return f == FormatStepByStep || f == FormatBulletList
}
