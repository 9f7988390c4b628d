package pandoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Location is a line:column position inside a JSON document.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// locate converts a byte offset into a 1-based line and column; a leading
// byte order mark is skipped.
func locate(buf []byte, offset int64) Location {
	cur, end := 0, len(buf)
	if len(buf) >= 3 && buf[0] == 0xef && buf[1] == 0xbb && buf[2] == 0xbf {
		cur = 3
	}
	stop := int(offset)
	if stop > end {
		stop = end
	}

	line, lineStart := 1, cur
	for cur < stop {
		c := buf[cur]
		cur++
		if c == '\n' {
			line++
			lineStart = cur
		} else if c == '\r' {
			if cur < stop && buf[cur] == '\n' {
				cur++
			}
			line++
			lineStart = cur
		}
	}
	if lineStart > stop {
		lineStart = stop
	}
	return Location{Line: line, Column: 1 + utf8.RuneCount(buf[lineStart:stop])}
}

// DecodeError reports malformed JSON input together with its position.
type DecodeError struct {
	Loc Location
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("json %s > %s", e.Loc, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeError(buf []byte, err error) error {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return &DecodeError{Loc: locate(buf, se.Offset), Err: err}
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return &DecodeError{Loc: locate(buf, te.Offset), Err: err}
	}
	return err
}
