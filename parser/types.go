package parser

import "context"

// Speaker is one presenter extracted from a flyer.
type Speaker struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
	Topic       string `json:"topic"`
}

// ParsedFields は解析結果。オペレーターがUIで修正してから送信する。
type ParsedFields struct {
	Title    string    `json:"title"`
	Date     string    `json:"date"` // YYYY-MM-DD、不明なら空
	Venue    string    `json:"venue"`
	Summary  string    `json:"summary"`
	Speakers []Speaker `json:"speakers"`
	Tags     []string  `json:"tags"`
}

// FieldParser turns extracted flyer text into structured fields. The two
// implementations (model-backed and heuristic) are selected once at startup.
type FieldParser interface {
	Parse(ctx context.Context, text string) (ParsedFields, error)
}
