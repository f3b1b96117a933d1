package parser

import "context"

// LLMClient 抽象大規模言語モデルのクライアント。差し替え/Mock用。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings 具体的な実装に渡す基本設定。
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
