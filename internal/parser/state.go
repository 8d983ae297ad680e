package parser

import "fmt"

// lexState is the lexical state of the character transducer.
type lexState uint8

const (
	stateStart lexState = iota
	stateComment
	stateExpectValue
	stateBetweenFields
	stateQuotedString
	stateUnquotedString
	stateEscapedValue
	stateDone
)

func (s lexState) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateComment:
		return "comment"
	case stateExpectValue:
		return "expect_value"
	case stateBetweenFields:
		return "between_fields"
	case stateQuotedString:
		return "quoted_string"
	case stateUnquotedString:
		return "unquoted_string"
	case stateEscapedValue:
		return "escaped_value"
	case stateDone:
		return "done"
	default:
		return fmt.Sprintf("lexState(%d)", s)
	}
}
