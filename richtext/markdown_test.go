package richtext

import "testing"

func TestFromMarkdownHeadingAndParagraph(t *testing.T) {
	doc := FromMarkdown([]byte("# 開催報告\n\n本文です。\n"))
	if len(doc.Content) != 2 {
		t.Fatalf("blocks = %d, want 2", len(doc.Content))
	}
	if doc.Content[0].NodeType != "heading-1" || blockText(doc.Content[0]) != "開催報告" {
		t.Errorf("heading block = %+v", doc.Content[0])
	}
	if doc.Content[1].NodeType != NodeParagraph || blockText(doc.Content[1]) != "本文です。" {
		t.Errorf("paragraph block = %+v", doc.Content[1])
	}
}

func TestFromMarkdownLists(t *testing.T) {
	doc := FromMarkdown([]byte("- 一つ目\n- 二つ目\n\n1. 最初\n2. 次\n"))
	want := []string{"• 一つ目", "• 二つ目", "1. 最初", "2. 次"}
	if len(doc.Content) != len(want) {
		t.Fatalf("blocks = %d, want %d", len(doc.Content), len(want))
	}
	for i, w := range want {
		if doc.Content[i].NodeType != NodeParagraph {
			t.Errorf("block[%d] type = %q", i, doc.Content[i].NodeType)
		}
		if got := blockText(doc.Content[i]); got != w {
			t.Errorf("block[%d] = %q, want %q", i, got, w)
		}
	}
}

func TestFromMarkdownSoftBreak(t *testing.T) {
	doc := FromMarkdown([]byte("一行目\n二行目\n"))
	if len(doc.Content) != 1 {
		t.Fatalf("blocks = %d, want 1", len(doc.Content))
	}
	runs := doc.Content[0].Content
	if len(runs) != 3 {
		t.Fatalf("runs = %d, want 3 (%+v)", len(runs), runs)
	}
	if runs[0].Value != "一行目" || runs[1].Value != "\n" || runs[2].Value != "二行目" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestFromMarkdownEmpty(t *testing.T) {
	doc := FromMarkdown(nil)
	if len(doc.Content) != 1 || blockText(doc.Content[0]) != "（本文なし）" {
		t.Errorf("empty markdown doc = %+v", doc.Content)
	}
}

func TestFromMarkdownDropsInlineFormatting(t *testing.T) {
	doc := FromMarkdown([]byte("**強調** と [リンク](https://example.com) を含む。\n"))
	if len(doc.Content) != 1 {
		t.Fatalf("blocks = %d, want 1", len(doc.Content))
	}
	if got := blockText(doc.Content[0]); got != "強調 と リンク を含む。" {
		t.Errorf("text = %q", got)
	}
}
