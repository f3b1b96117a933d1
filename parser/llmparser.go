package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoJSON indicates the model response contained no recoverable JSON object.
var ErrNoJSON = errors.New("failed to locate JSON in model response")

// LLMParser extracts fields with a single-turn completion call. It never
// retries; on failure the operator falls back to manual entry in the UI.
type LLMParser struct {
	llm LLMClient
}

// Compile-time interface check.
var _ FieldParser = (*LLMParser)(nil)

func NewLLMParser(llm LLMClient) (*LLMParser, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &LLMParser{llm: llm}, nil
}

func (p *LLMParser) Parse(ctx context.Context, text string) (ParsedFields, error) {
	raw, err := p.llm.Complete(ctx, BuildExtractionPrompt(text))
	if err != nil {
		return ParsedFields{}, err
	}

	obj, err := ExtractJSONObject(raw)
	if err != nil {
		return ParsedFields{}, err
	}

	var fields ParsedFields
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return ParsedFields{}, fmt.Errorf("parse model JSON: %w", err)
	}
	return fields, nil
}

// ExtractJSONObject returns the first balanced {...} object in s. Models
// occasionally wrap the payload in prose; a bracket-depth scan that tracks
// string and escape state recovers it where a regex cannot (nested braces).
func ExtractJSONObject(s string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if start == -1 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], nil
				}
			}
		}
	}
	return "", ErrNoJSON
}
