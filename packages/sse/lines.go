package sse

import (
	"bufio"
	"bytes"
	"io"
	"iter"
	"strings"
)

// MaxLineSize bounds a single line read by Lines.
const MaxLineSize = 1 << 20

const bom = "\uFEFF"

// Lines splits r into lines terminated by CR, LF or CRLF and strips a
// leading UTF-8 byte order mark. A line ending in CR is yielded as soon as
// the CR is read; an LF arriving after it is then skipped. A final line with
// no terminator is incomplete and is not yielded. A read error is yielded
// once, last.
func Lines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var split lineSplitter
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 4096), MaxLineSize)
		scanner.Split(split.scan)

		first := true
		for scanner.Scan() {
			line := scanner.Text()
			if first {
				line = strings.TrimPrefix(line, bom)
				first = false
			}
			if !yield(line, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", err)
		}
	}
}

// lineSplitter splits on the three event-stream line terminators. skipLF
// is set when a line ended with the last buffered byte being CR, so the LF
// of a CRLF split across reads is not taken for a blank line.
type lineSplitter struct {
	skipLF bool
}

func (s *lineSplitter) scan(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if s.skipLF && len(data) > 0 {
		s.skipLF = false
		if data[0] == '\n' {
			return 1, nil, nil
		}
	}

	i := bytes.IndexAny(data, "\r\n")
	if i < 0 {
		// Incomplete trailing line: drop it at EOF, otherwise read more.
		if atEOF {
			return len(data), nil, nil
		}
		return 0, nil, nil
	}

	if data[i] == '\n' {
		return i + 1, data[:i], nil
	}

	if i+1 < len(data) {
		if data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		return i + 1, data[:i], nil
	}
	s.skipLF = true
	return i + 1, data[:i], nil
}
