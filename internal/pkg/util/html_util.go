package util

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// PlainText 提取 HTML 正文文本，忽略 script/style，空白折叠为单个空格
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt 由正文生成摘要，按 rune 截断并尽量停在词边界
func Excerpt(html string, maxRunes int) string {
	text := PlainText(html)
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	runes := []rune(text)
	cut := runes[:maxRunes]
	if idx := strings.LastIndex(string(cut), " "); idx > len(string(cut))/2 {
		return strings.TrimSpace(string(cut)[:idx]) + "…"
	}
	return strings.TrimSpace(string(cut)) + "…"
}
