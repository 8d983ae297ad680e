package parser

import "testing"

func TestModeStack(t *testing.T) {
	var s modeStack
	if _, ok := s.peek(); ok {
		t.Fatal("peek on empty stack succeeded")
	}
	if s.pop(ModeInitial) {
		t.Fatal("pop on empty stack succeeded")
	}

	s.push(ModeInitial)
	s.push(ModeHeader)
	if s.depth() != 2 {
		t.Fatalf("depth = %d, want 2", s.depth())
	}

	if s.flip(ModeData, ModeHeader) {
		t.Error("flip with wrong expected mode succeeded")
	}
	if !s.flip(ModeHeader, ModeData) {
		t.Fatal("flip header -> data failed")
	}
	if top, _ := s.peek(); top != ModeData {
		t.Errorf("top = %v, want %v", top, ModeData)
	}

	if s.pop(ModeInitial) {
		t.Error("pop with wrong expected mode succeeded")
	}
	if !s.pop(ModeData) || !s.pop(ModeInitial) {
		t.Fatal("unwinding failed")
	}
	if s.depth() != 0 {
		t.Errorf("depth = %d after unwinding, want 0", s.depth())
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		line, col int
	}{
		{"start", "", 1, 1},
		{"columns", "abc", 1, 4},
		{"LF", "a\nb", 2, 2},
		{"CR", "a\rb", 2, 2},
		{"CRLF counts once", "a\r\nb", 2, 2},
		{"LF LF", "\n\n", 3, 1},
		{"CR CR", "\r\r", 3, 1},
		{"LF CR", "\n\r", 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := newPosition()
			for _, c := range tt.input {
				pos.advance(c)
			}
			if pos.line != tt.line || pos.column != tt.col {
				t.Errorf("position = %d:%d, want %d:%d", pos.line, pos.column, tt.line, tt.col)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	if got := stateQuotedString.String(); got != "quoted_string" {
		t.Errorf("String() = %q", got)
	}
	if got := ModeHeader.String(); got != "header" {
		t.Errorf("String() = %q", got)
	}
	if got := ErrorInvalidCSVText.String(); got != "invalid_csv_text" {
		t.Errorf("String() = %q", got)
	}
}
