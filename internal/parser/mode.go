package parser

import "fmt"

// Mode is the structural parsing context of the transducer.
type Mode uint8

const (
	// ModeInitial is present for the whole parse, at the bottom of the stack.
	ModeInitial Mode = iota
	// ModeHeader is active while header lines are consumed.
	ModeHeader
	// ModeData is active while data records are consumed.
	ModeData
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeInitial:
		return "initial"
	case ModeHeader:
		return "header"
	case ModeData:
		return "data"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// modeStack holds the nested parsing modes. Depth never exceeds two
// (initial plus header or data).
type modeStack struct {
	modes []Mode
}

func (s *modeStack) push(m Mode) {
	s.modes = append(s.modes, m)
}

// peek returns the top mode, or false when the stack is empty.
func (s *modeStack) peek() (Mode, bool) {
	if len(s.modes) == 0 {
		return 0, false
	}
	return s.modes[len(s.modes)-1], true
}

// is reports whether the top mode is m.
func (s *modeStack) is(m Mode) bool {
	top, ok := s.peek()
	return ok && top == m
}

// flip replaces the top mode with next if it currently equals expected.
func (s *modeStack) flip(expected, next Mode) bool {
	if !s.is(expected) {
		return false
	}
	s.modes[len(s.modes)-1] = next
	return true
}

// pop removes the top mode if it equals expected.
func (s *modeStack) pop(expected Mode) bool {
	if !s.is(expected) {
		return false
	}
	s.modes = s.modes[:len(s.modes)-1]
	return true
}

func (s *modeStack) depth() int {
	return len(s.modes)
}
