// Package jsonutil recovers structured JSON from free-form model output.
//
// Text generated under a token ceiling frequently arrives wrapped in
// prose or markdown fences, with sloppy syntax, or cut off mid-array.
// ExtractObject applies a layered repair chain tuned for those failure
// modes instead of discarding the whole response.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports that no parseable object could be recovered.
// Head and Tail carry excerpts of the original text for diagnostics.
type ParseError struct {
	Head string
	Tail string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jsonutil: no recoverable JSON object: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

const excerptLen = 500

// ExtractObject locates the outermost {...} span in text and returns it
// as valid JSON, repairing it if needed. The repair chain is ordered;
// each stage runs only if the previous one failed:
//
//  1. direct parse of the located span
//  2. syntactic cleanup (fences, trailing commas, unquoted keys)
//  3. truncation recovery (cut after the last complete sub-object,
//     then balance brackets and braces)
func ExtractObject(text string) ([]byte, error) {
	span, ok := locateObject(text)
	if !ok {
		return nil, newParseError(text, fmt.Errorf("no object span found"))
	}

	if raw, err := tryParse(span); err == nil {
		return raw, nil
	}

	cleaned := Cleanup(span)
	if raw, err := tryParse(cleaned); err == nil {
		return raw, nil
	}

	if repaired, ok := RepairTruncated(cleaned); ok {
		if raw, err := tryParse(repaired); err == nil {
			return raw, nil
		}
	}

	_, parseErr := tryParse(span)
	return nil, newParseError(span, parseErr)
}

// ExtractInto extracts the first object span from text and unmarshals
// it into v.
func ExtractInto(text string, v any) error {
	raw, err := ExtractObject(text)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// locateObject returns the greedy span from the first '{' to the last
// '}' in text. A balanced match is not required here; later stages deal
// with imbalance.
func locateObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, '}')
	if end < start {
		// Truncated before any closing brace. Keep the open span so the
		// truncation stage can still balance it.
		return text[start:], true
	}
	return text[start : end+1], true
}

func tryParse(s string) (json.RawMessage, error) {
	var scratch any
	if err := json.Unmarshal([]byte(s), &scratch); err != nil {
		return nil, err
	}
	return json.RawMessage(s), nil
}

var (
	fenceRe       = regexp.MustCompile("```(?:json)?\n?")
	trailingComma = regexp.MustCompile(`,(\s*[}\]])`)
	unquotedKeyRe = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`)
)

// Cleanup applies textual repairs common in model-generated JSON:
// markdown code-fence markers, trailing commas before a closing
// brace or bracket, and unquoted object keys.
func Cleanup(s string) string {
	s = fenceRe.ReplaceAllString(s, "")
	s = trailingComma.ReplaceAllString(s, "$1")
	s = unquotedKeyRe.ReplaceAllString(s, `$1"$2"$3`)
	return s
}

// RepairTruncated assumes s is a valid JSON prefix cut off mid-structure.
// It drops everything after the last complete sub-object terminator and
// appends the closing brackets and braces needed to balance the text.
// Returns false when no complete sub-object exists to anchor the cut.
func RepairTruncated(s string) (string, bool) {
	anchor := strings.LastIndex(s, `"}`)
	if anchor <= 0 {
		return "", false
	}
	fixed := s[:anchor+2]

	opens := strings.Count(fixed, "{") - strings.Count(fixed, "}")
	brackets := strings.Count(fixed, "[") - strings.Count(fixed, "]")

	var b bytes.Buffer
	b.WriteString(fixed)
	for i := 0; i < brackets; i++ {
		b.WriteByte(']')
	}
	for i := 0; i < opens; i++ {
		b.WriteByte('}')
	}
	return b.String(), true
}

func newParseError(text string, err error) *ParseError {
	head := text
	if len(head) > excerptLen {
		head = head[:excerptLen]
	}
	tail := text
	if len(tail) > excerptLen {
		tail = tail[len(tail)-excerptLen:]
	}
	return &ParseError{Head: head, Tail: tail, Err: err}
}
