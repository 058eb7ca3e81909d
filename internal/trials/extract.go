package trials

import (
	"regexp"
	"strings"
)

var codeBlockRe = regexp.MustCompile("(?s)```(?:go|golang)?[ \t]*\n(.*?)\n[ \t]*```")

// ExtractCode pulls the first fenced code block out of a generator
// response. When no fence is present the whole response is treated as
// code, since some models return bare source despite instructions.
func ExtractCode(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimPrefix(text, "\uFEFF")

	if m := codeBlockRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return text + "\n"
}
