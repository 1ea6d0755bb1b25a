package source

import (
	"fmt"

	"fortio.org/safecast"
)

// EnclosingLine is the first line of text that contains the start of a span.
//
// Start and End are byte offsets of the line within the text; End excludes the
// line terminator. Text is the raw line without its terminator.
type EnclosingLine struct {
	Number    int // 1-based
	Start     int
	End       int
	Text      string
	SpanStart int
	SpanEnd   int
}

// ColumnStart returns the span start relative to the line start.
func (l EnclosingLine) ColumnStart() int {
	return l.SpanStart - l.Start
}

// ColumnEnd returns the span end relative to the line start. A span that runs
// past the line is cut at the line end, so the result is never below
// ColumnStart and never past the line.
func (l EnclosingLine) ColumnEnd() int {
	end := min(l.SpanEnd, l.End)
	if end < l.SpanStart {
		end = l.SpanStart
	}
	return end - l.Start
}

// Enclose scans text from offset 0, line by line, until it reaches the line
// containing span.Start. Only that line is reported even when the span covers
// several lines.
func Enclose(text []byte, span Span) EnclosingLine {
	size := len(text)
	start := clampOffset(span.Start, size)
	end := clampOffset(span.End, size)
	if end < start {
		end = start
	}

	line, lineStart, lineEnd := 0, 0, 0
	for lineEnd < size && lineEnd <= start {
		lineStart = lineEnd
		lineEnd = nextLine(text, lineEnd)
		line++
	}
	if line == 0 {
		// пустой текст: считаем, что есть одна пустая строка
		line = 1
	}
	lineEnd = min(lineEnd, size)
	lineText := trimTerminator(text[lineStart:lineEnd])

	return EnclosingLine{
		Number:    line,
		Start:     lineStart,
		End:       lineStart + len(lineText),
		Text:      lineText,
		SpanStart: start,
		SpanEnd:   end,
	}
}

// nextLine returns the offset just past the '\n' that ends the line at index.
func nextLine(text []byte, index int) int {
	for index < len(text) && text[index] != '\n' {
		index++
	}
	return index + 1
}

func clampOffset(off uint32, size int) int {
	n, err := safecast.Conv[int](off)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return min(n, size)
}

func trimTerminator(line []byte) string {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}
	if n > 0 && line[n-1] == '\r' {
		n--
	}
	return string(line[:n])
}
