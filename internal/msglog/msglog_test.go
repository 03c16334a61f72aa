package msglog

import (
	"reflect"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  []string
	}{
		{"hello world", 20, []string{"hello world"}},
		{"hello world", 5, []string{"hello", "world"}},
		{"a bb ccc dddd", 6, []string{"a bb", "ccc", "dddd"}},
		{"abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"  spaced   out  ", 20, []string{"spaced out"}},
		{"", 10, nil},
	}

	for _, tt := range tests {
		if got := Wrap(tt.text, tt.width); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Wrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestLogCapacityAndScroll(t *testing.T) {
	l := New(60, 2)
	for _, s := range []string{"one", "two", "three", "four", "five", "six", "seven"} {
		l.Add(s, "")
	}

	if l.Len() != 6 {
		t.Fatalf("history should be capped at 3 windows, got %d lines", l.Len())
	}
	if l.Lines()[0].Text != "two" {
		t.Errorf("oldest retained line = %q, want %q", l.Lines()[0].Text, "two")
	}
	if l.Lines()[0].Color != ColorDefault {
		t.Errorf("empty colour should default, got %q", l.Lines()[0].Color)
	}

	visible := l.Visible()
	if len(visible) != 2 || visible[0].Text != "six" || visible[1].Text != "seven" {
		t.Errorf("window should show the newest lines, got %v", visible)
	}

	l.ScrollDown()
	if l.Offset() != 4 {
		t.Errorf("scrolling past the bottom should clamp, offset = %d", l.Offset())
	}
	for i := 0; i < 10; i++ {
		l.ScrollUp()
	}
	if l.Offset() != 0 || l.Visible()[0].Text != "two" {
		t.Errorf("scrolling past the top should clamp, offset = %d", l.Offset())
	}

	l.Add("eight", ColorGood)
	if l.Offset() != 4 {
		t.Errorf("adding should scroll to the bottom, offset = %d", l.Offset())
	}
}

func TestLogMultilineAndBlank(t *testing.T) {
	l := New(10, 5)
	l.Add("first line\nsecond", ColorWarning)
	l.Add("", "")

	lines := l.Lines()
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %v", len(lines), lines)
	}
	if lines[0].Text != "first line" || lines[1].Text != "second" || lines[2].Text != "" {
		t.Errorf("unexpected lines %v", lines)
	}
	if lines[1].Color != ColorWarning {
		t.Errorf("wrapped lines keep the message colour, got %q", lines[1].Color)
	}

	var sink Sink = l
	sink.Add("via sink", "")
	if l.Len() != 4 {
		t.Error("Log should satisfy Sink")
	}
}
