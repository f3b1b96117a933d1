package parser

import "context"

// MockLLM 外部モデルを呼ばないローカルデバッグ用の実装。固定のJSONを返す。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, _ Prompt) (string, error) {
	return `{
  "title": "サンプルセミナー",
  "date": "",
  "venue": "オンライン",
  "summary": "動作確認用のダミー応答です。",
  "speakers": [],
  "tags": []
}`, nil
}
