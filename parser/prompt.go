package parser

import (
	"fmt"
	"strings"
)

// Prompt はLLMへ送るメッセージの組。
type Prompt struct {
	System string
	User   string
}

// BuildExtractionPrompt はフィールド抽出の固定プロンプトを組み立てる。
// 出力スキーマと和暦→西暦の変換規則を明示する。
func BuildExtractionPrompt(flyerText string) Prompt {
	var sb strings.Builder
	sb.WriteString("以下はスポーツコミッション研究会・セミナーの開催概要PDFから抽出したテキストです。\n")
	sb.WriteString("このテキストを解析して、以下のJSONフォーマットで情報を抽出してください。\n\n")
	sb.WriteString("テキスト:\n")
	sb.WriteString(flyerText)
	sb.WriteString("\n\n出力するJSONフォーマット（コードブロックなしで純粋なJSONのみ）:\n")
	sb.WriteString(`{
  "title": "セミナーのタイトル（サブタイトル含む）",
  "date": "YYYY-MM-DD形式の開催日（不明な場合は空文字）",
  "venue": "開催場所",
  "summary": "開催趣旨の要約（100文字程度）",
  "speakers": [
    {"name": "氏名", "affiliation": "所属・役職", "topic": "演題"}
  ],
  "tags": ["検索用タグ（講演者名・キーワードなど）の配列"]
}`)
	sb.WriteString("\n\n注意:\n")
	sb.WriteString("- dateは「令和X年Y月Z日」「R7.2.20」などを YYYY-MM-DD に変換\n")
	sb.WriteString(fmt.Sprintf("- 令和N年=%d+N年（例: 令和7年=2025年、令和8年=2026年）\n", reiwaEpoch))
	sb.WriteString("- tagsは講演者全員の名前 + セミナーのキーワードを含める\n")
	sb.WriteString("- speakersはコーディネーター・パネリストも含む")

	return Prompt{
		System: "JSONのみを出力し、余計な説明を付けないこと。",
		User:   sb.String(),
	}
}
