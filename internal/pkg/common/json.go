package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseJSON 解析 JSON 字符串到結構體
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v)
}

// ParseJSONBytes 解析 JSON 位元組切片到結構體
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeJSON(bytes.NewReader(data), v)
}

// DecodeJSON 使用統一設定解析 JSON
func DecodeJSON(r io.Reader, v interface{}) error {
	return decodeJSON(r, v)
}

func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	for {
		t, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		// 若讀到額外 token，視為錯誤
		if t != nil {
			return fmt.Errorf("unexpected extra JSON data")
		}
	}
}

var (
	unquotedKeyPattern = regexp.MustCompile(`([{\[,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	fencedJSONPattern  = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")
)

// QuoteJSONKeys 將未加雙引號的鍵補上雙引號
func QuoteJSONKeys(raw string) string {
	return unquotedKeyPattern.ReplaceAllString(raw, `$1"$2":`)
}

// ExtractJSONObject 從模型回覆文字中取出第一個合法的 JSON 物件。
// 依序嘗試：整段嚴格解析、```json 圍欄區塊、第一個 { 到最後一個 } 的子字串。
// 找不到合法物件時回傳 nil。
func ExtractJSONObject(text string) json.RawMessage {
	content := strings.TrimSpace(text)
	if content == "" {
		return nil
	}

	// 1. 整段就是 JSON
	if raw := validObject(content); raw != nil {
		return raw
	}

	// 2. 圍欄區塊
	if m := fencedJSONPattern.FindStringSubmatch(content); len(m) == 2 {
		if raw := validObject(m[1]); raw != nil {
			return raw
		}
	}

	// 3. 第一個 { 到最後一個 }
	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start != -1 && end > start {
		candidate := content[start : end+1]
		if raw := validObject(candidate); raw != nil {
			return raw
		}
		// 4. 模型偶爾漏掉鍵的雙引號，補上後再試一次
		if raw := validObject(QuoteJSONKeys(candidate)); raw != nil {
			return raw
		}
	}

	return nil
}

func validObject(candidate string) json.RawMessage {
	candidate = strings.TrimSpace(candidate)
	if !strings.HasPrefix(candidate, "{") {
		return nil
	}
	var probe map[string]json.RawMessage
	if err := decodeJSON(strings.NewReader(candidate), &probe); err != nil {
		return nil
	}
	return json.RawMessage(candidate)
}

// ToJSON 將結構體轉換為 JSON 字符串
func ToJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
