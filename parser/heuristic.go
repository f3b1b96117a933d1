package parser

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// 令和元年 = 2019年なので西暦 = 2018 + N。
const reiwaEpoch = 2018

var (
	dateRe    = regexp.MustCompile(`日時[：:]\s*([0-9]{1,2})\s*月\s*([0-9]{1,2})\s*日`)
	reiwaRe   = regexp.MustCompile(`令和\s*([0-9]+)\s*年`)
	venueRe   = regexp.MustCompile(`開催場所[：:][ \t　]*(.+)`)
	speakerRe = regexp.MustCompile(`[①②③④⑤⑥⑦⑧⑨]\s*([一-龥ぁ-んァ-ン　\s]{2,10})[：:]`)
	keynoteRe = regexp.MustCompile(`([一-龥ぁ-んァ-ン　]{2,6})\s*([一-龥]{2,4})\s*[：:]\s*スポーツ庁`)
)

// HeuristicParser is the rule-based fallback used when no LLM credential is
// configured. It is a total function: whatever it can infer is returned,
// empty fields and all, and correction is left to the operator.
type HeuristicParser struct {
	// now is overridable for tests; the current year backs dates that carry
	// no era marker.
	now func() time.Time
}

// Compile-time interface check.
var _ FieldParser = (*HeuristicParser)(nil)

func NewHeuristicParser() *HeuristicParser {
	return &HeuristicParser{now: time.Now}
}

func (h *HeuristicParser) Parse(_ context.Context, text string) (ParsedFields, error) {
	fields := ParsedFields{
		Title:    firstLine(text),
		Date:     h.parseDate(NormalizeDigits(text)),
		Venue:    parseVenue(text),
		Speakers: []Speaker{},
		Tags:     []string{},
	}

	seen := map[string]bool{}
	for _, m := range speakerRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		fields.Speakers = append(fields.Speakers, Speaker{Name: name})
	}

	// 基調講演者（「氏名 肩書：スポーツ庁」パターン）を拾う。
	for _, m := range keynoteRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1] + m[2])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		fields.Speakers = append(fields.Speakers, Speaker{Name: name})
	}

	for _, s := range fields.Speakers {
		fields.Tags = append(fields.Tags, s.Name)
	}
	return fields, nil
}

// NormalizeDigits converts full-width digits (０-９) to half-width. It is
// idempotent: half-width input passes through unchanged.
func NormalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return r - 0xFEE0
		}
		return r
	}, s)
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return "タイトル未設定"
}

// parseDate expects digit-normalized text. The year comes from a 令和N年
// marker when present; months January through March belong to the next
// calendar year because the fiscal year runs April to March.
func (h *HeuristicParser) parseDate(textH string) string {
	m := dateRe.FindStringSubmatch(textH)
	if m == nil {
		return ""
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])

	year := h.now().Year()
	if rm := reiwaRe.FindStringSubmatch(textH); rm != nil {
		n, _ := strconv.Atoi(rm[1])
		year = reiwaEpoch + n
		if month <= 3 {
			year++
		}
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func parseVenue(text string) string {
	if m := venueRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
