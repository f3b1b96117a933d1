package parser

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubLLM struct {
	response string
	err      error
}

func (s stubLLM) Complete(context.Context, Prompt) (string, error) {
	return s.response, s.err
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"prose wrapped", "解析結果は以下です。\n{\"a\":1}\nご確認ください。", `{"a":1}`},
		{"nested objects", `before {"a":{"b":{"c":1}}} after`, `{"a":{"b":{"c":1}}}`},
		{"brace inside string", `{"a":"}","b":"{"}`, `{"a":"}","b":"{"}`},
		{"escaped quote inside string", `{"a":"\"}"}`, `{"a":"\"}"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractJSONObjectMissing(t *testing.T) {
	for _, input := range []string{"", "no json here", "{unterminated"} {
		if _, err := ExtractJSONObject(input); !errors.Is(err, ErrNoJSON) {
			t.Errorf("ExtractJSONObject(%q) err = %v, want ErrNoJSON", input, err)
		}
	}
}

func TestLLMParserParse(t *testing.T) {
	llm := stubLLM{response: `以下が解析結果です。
{
  "title": "第15回研究会",
  "date": "2026-03-15",
  "venue": "オンライン",
  "summary": "概要",
  "speakers": [{"name": "木田悟", "affiliation": "理事長", "topic": "基調講演"}],
  "tags": ["木田悟"]
}`}
	p, err := NewLLMParser(llm)
	if err != nil {
		t.Fatal(err)
	}

	fields, err := p.Parse(context.Background(), "dummy flyer text")
	if err != nil {
		t.Fatal(err)
	}
	if fields.Title != "第15回研究会" {
		t.Errorf("title = %q", fields.Title)
	}
	if fields.Date != "2026-03-15" {
		t.Errorf("date = %q", fields.Date)
	}
	if len(fields.Speakers) != 1 || fields.Speakers[0].Affiliation != "理事長" {
		t.Errorf("speakers = %v", fields.Speakers)
	}
}

func TestLLMParserWithMockLLM(t *testing.T) {
	p, err := NewLLMParser(MockLLM{})
	if err != nil {
		t.Fatal(err)
	}
	fields, err := p.Parse(context.Background(), "なんでも良い")
	if err != nil {
		t.Fatal(err)
	}
	if fields.Title != "サンプルセミナー" || fields.Venue != "オンライン" {
		t.Errorf("fields = %+v", fields)
	}
	if len(fields.Speakers) != 0 || len(fields.Tags) != 0 {
		t.Errorf("expected empty speakers/tags, got %+v %+v", fields.Speakers, fields.Tags)
	}
}

func TestLLMParserMalformedJSON(t *testing.T) {
	p, err := NewLLMParser(stubLLM{response: `{"title": unquoted}`})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Parse(context.Background(), "text"); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestLLMParserNoJSON(t *testing.T) {
	p, err := NewLLMParser(stubLLM{response: "すみません、解析できませんでした。"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Parse(context.Background(), "text"); !errors.Is(err, ErrNoJSON) {
		t.Errorf("err = %v, want ErrNoJSON", err)
	}
}

func TestBuildExtractionPromptEmbedsText(t *testing.T) {
	prompt := BuildExtractionPrompt("フライヤー本文")
	if prompt.System == "" {
		t.Error("system prompt is empty")
	}
	for _, want := range []string{"フライヤー本文", "YYYY-MM-DD", "令和"} {
		if !strings.Contains(prompt.User, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
