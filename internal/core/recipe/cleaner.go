package recipe

import (
	"regexp"
	"strings"
)

var (
	// 行首的數量（含區間），前面可能帶著項目符號
	leadingAmountPattern = regexp.MustCompile(`^[\s.,;:*•-]*\d+(?:[.,]\d+)?(?:\s*(?:[-–—]|to|到)\s*\d+(?:[.,]\d+)?)?\s*`)
	// 數量後面可能跟著的英文單位 token
	leadingWordPattern = regexp.MustCompile(`^([A-Za-z]+\.?)(?:\s+|$)`)
)

// CleanName 去掉食材行開頭的數量與單位，回傳純食材名稱。
// 空輸入回空字串；完全解析不了就退回去掉前後空白的原始行，永不 panic。
func CleanName(rawLine string) string {
	line := strings.TrimSpace(rawLine)
	if line == "" {
		return ""
	}

	name := leadingAmountPattern.ReplaceAllString(line, "")

	// 去掉緊接的單位 token（英文以空白分詞）
	if m := leadingWordPattern.FindStringSubmatch(name); len(m) == 2 {
		token := strings.ToLower(strings.TrimSuffix(m[1], "."))
		if _, ok := unitAliases[token]; ok {
			name = strings.TrimSpace(name[len(m[0]):])
			// "2 tbsp of sugar" 的 of
			if len(name) > 3 && strings.EqualFold(name[:3], "of ") {
				name = strings.TrimSpace(name[3:])
			}
		}
	}

	// 中文單位直接黏在數字後（例如 "2克糖"），長別名先比
	for _, entry := range cjkAliases {
		if strings.HasPrefix(name, entry.alias) {
			name = strings.TrimPrefix(name, entry.alias)
			break
		}
	}

	// 去掉外圍標點
	name = strings.Trim(name, " \t-–—.,:;()\"'")

	if name == "" {
		return line
	}
	return name
}
