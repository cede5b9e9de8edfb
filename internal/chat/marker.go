package chat

import (
	"encoding/json"
	"strings"
)

// markerPrefix opens an inline tool-call marker in free-form model
// output: [TOOL_CALL:<name>:<json-arguments>]
const markerPrefix = "[TOOL_CALL:"

// MarkerCall is one tool invocation extracted from inline markup. Raw
// holds the full marker text, brackets included, so the caller can
// replace it in place with the tool's result.
type MarkerCall struct {
	Name      string
	Arguments map[string]any
	Raw       string
}

// ExtractMarkers scans text for inline tool-call markers and returns
// them in left-to-right order. The scanner counts braces explicitly so
// nested argument objects and adjacent markers never merge. An empty or
// unparseable argument blob degrades to an empty argument map; an
// unterminated marker is ignored.
func ExtractMarkers(text string) []MarkerCall {
	var calls []MarkerCall
	pos := 0

	for {
		start := strings.Index(text[pos:], markerPrefix)
		if start < 0 {
			return calls
		}
		start += pos

		call, end, ok := scanMarker(text, start)
		if !ok {
			// Not a complete marker; resume after the prefix so an
			// overlapping later marker is still found.
			pos = start + len(markerPrefix)
			continue
		}

		calls = append(calls, call)
		pos = end
	}
}

// scanMarker parses one marker beginning at start. It returns the call,
// the index just past the closing bracket, and whether the marker was
// well formed.
func scanMarker(text string, start int) (MarkerCall, int, bool) {
	i := start + len(markerPrefix)

	// Tool name runs up to the next ':'. Names are word characters
	// only, which is what the system prompt tells the model to emit.
	nameEnd := i
	for nameEnd < len(text) && isNameChar(text[nameEnd]) {
		nameEnd++
	}
	if nameEnd >= len(text) || text[nameEnd] != ':' || nameEnd == i {
		return MarkerCall{}, 0, false
	}
	name := text[i:nameEnd]

	argStart := nameEnd + 1
	argEnd, end, ok := scanArguments(text, argStart)
	if !ok {
		return MarkerCall{}, 0, false
	}

	return MarkerCall{
		Name:      name,
		Arguments: decodeArguments(text[argStart:argEnd]),
		Raw:       text[start:end],
	}, end, true
}

// scanArguments finds the end of the argument blob. A blob starting
// with '{' is delimited by its matching close brace (string-aware brace
// counting); anything else runs up to the next ']'. Returns the blob
// end, the index just past the marker's closing bracket and whether a
// closing bracket was found.
func scanArguments(text string, argStart int) (argEnd, end int, ok bool) {
	i := argStart
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}

	if i < len(text) && text[i] == '{' {
		depth := 0
		inString := false
		escaped := false
		for ; i < len(text); i++ {
			c := text[i]
			switch {
			case escaped:
				escaped = false
			case inString && c == '\\':
				escaped = true
			case c == '"':
				inString = !inString
			case !inString && c == '{':
				depth++
			case !inString && c == '}':
				depth--
				if depth == 0 {
					argEnd = i + 1
					// The marker must close right after the JSON span
					if argEnd < len(text) && text[argEnd] == ']' {
						return argEnd, argEnd + 1, true
					}
					return 0, 0, false
				}
			}
		}
		return 0, 0, false
	}

	// No JSON object: the blob is whatever sits before the next ']'
	close := strings.IndexByte(text[argStart:], ']')
	if close < 0 {
		return 0, 0, false
	}
	return argStart + close, argStart + close + 1, true
}

func isNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_' || c == '-'
}

// decodeArguments turns an argument blob into a map. Blank blobs and
// blobs that fail JSON decoding both mean "no arguments".
func decodeArguments(blob string) map[string]any {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return map[string]any{}
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(blob), &args); err != nil || args == nil {
		return map[string]any{}
	}
	return args
}
