// Package msglog implements the scrolling, word-wrapped message log the game
// writes its (text, colour) messages to.
package msglog

import "strings"

// Colour tags used for messages. Any palette tag is accepted.
const (
	ColorDefault = "default"
	ColorWarning = "dark_red"
	ColorGood    = "green"
	ColorInfo    = "gray"
)

// Message is one (text, colour tag) tuple as emitted by the game.
type Message struct {
	Text  string `json:"text" yaml:"text"`
	Color string `json:"color" yaml:"color"`
}

// Sink receives messages in the order they were produced.
type Sink interface {
	Add(text, color string)
}

// Line is a wrapped display line.
type Line struct {
	Text  string
	Color string
}

// Log wraps messages to a fixed width, keeps a bounded history and tracks a
// scroll window of Height lines over it.
type Log struct {
	width    int
	height   int
	capacity int
	lines    []Line
	offset   int
}

// New creates a log wrapping at width with a window of height lines. History
// is capped at three windows.
func New(width, height int) *Log {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Log{width: width, height: height, capacity: height * 3}
}

// Add appends a message, wrapping it to the log width, and scrolls to the
// bottom. An empty message adds a blank line.
func (l *Log) Add(text, color string) {
	if color == "" {
		color = ColorDefault
	}
	for _, part := range strings.Split(text, "\n") {
		wrapped := Wrap(part, l.width)
		if len(wrapped) == 0 {
			wrapped = []string{""}
		}
		for _, s := range wrapped {
			l.lines = append(l.lines, Line{Text: s, Color: color})
		}
	}
	if len(l.lines) > l.capacity {
		l.lines = append([]Line(nil), l.lines[len(l.lines)-l.capacity:]...)
	}
	l.ScrollToBottom()
}

// AddAll appends messages in order.
func (l *Log) AddAll(msgs []Message) {
	for _, m := range msgs {
		l.Add(m.Text, m.Color)
	}
}

// ScrollUp moves the window one line towards older messages.
func (l *Log) ScrollUp() {
	if l.offset > 0 {
		l.offset--
	}
}

// ScrollDown moves the window one line towards newer messages.
func (l *Log) ScrollDown() {
	if l.offset < l.maxOffset() {
		l.offset++
	}
}

// ScrollToBottom shows the newest lines.
func (l *Log) ScrollToBottom() {
	l.offset = l.maxOffset()
}

func (l *Log) maxOffset() int {
	return max(0, len(l.lines)-l.height)
}

// Offset returns the index of the first visible line.
func (l *Log) Offset() int {
	return l.offset
}

// Visible returns the lines inside the scroll window.
func (l *Log) Visible() []Line {
	end := min(l.offset+l.height, len(l.lines))
	return append([]Line(nil), l.lines[l.offset:end]...)
}

// Lines returns the whole retained history.
func (l *Log) Lines() []Line {
	return append([]Line(nil), l.lines...)
}

// Len returns the number of retained lines.
func (l *Log) Len() int {
	return len(l.lines)
}

// Width returns the wrap width.
func (l *Log) Width() int {
	return l.width
}

// Height returns the window height.
func (l *Log) Height() int {
	return l.height
}

// Clear drops all history.
func (l *Log) Clear() {
	l.lines = nil
	l.offset = 0
}

// Wrap splits text on whitespace into lines of at most width runes. Words
// longer than width are broken.
func Wrap(text string, width int) []string {
	var lines []string
	var current []rune
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		if len(current) > 0 && len(current)+1+len(w) <= width {
			current = append(append(current, ' '), w...)
			continue
		}
		if len(current) > 0 {
			lines = append(lines, string(current))
		}
		current = w
		for len(current) > width {
			lines = append(lines, string(current[:width]))
			current = current[width:]
		}
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	return lines
}
