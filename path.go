package modeladaptor

import "strings"

// ParsePath splits a dotted expression such as "order.items[last].price" into
// its segments. Dots inside brackets stay with their segment. Trailing empty
// segments are dropped, so "a." is "a" and an empty expression has no segments.
func ParsePath(expression string) []string {
	if expression == "" {
		return nil
	}
	var segments []string
	depth, start := 0, 0
	for i := 0; i < len(expression); i++ {
		switch expression[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '.':
			if depth == 0 {
				segments = append(segments, expression[start:i])
				start = i + 1
			}
		}
	}
	segments = append(segments, expression[start:])
	for len(segments) > 0 && segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}
	if len(segments) == 0 {
		return nil
	}
	return segments
}

// segment is a parsed path segment: a property name with an optional index suffix.
type segment struct {
	name    string
	index   string
	indexed bool
}

// parseSegment recognizes the "name[index]" form. A segment without a
// non-empty name before the bracket is taken as a plain property name.
func parseSegment(s string) segment {
	open := strings.IndexByte(s, '[')
	if open <= 0 || !strings.HasSuffix(s, "]") {
		return segment{name: s}
	}
	return segment{
		name:    s[:open],
		index:   strings.TrimSpace(s[open+1 : len(s)-1]),
		indexed: true,
	}
}
