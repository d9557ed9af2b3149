package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "whole text is json",
			text: `{"title":"t"}`,
			want: `{"title":"t"}`,
		},
		{
			name: "fenced json block",
			text: "以下是結果：\n```json\n{\"title\":\"t\"}\n```\n請確認。",
			want: `{"title":"t"}`,
		},
		{
			name: "fenced block without language tag",
			text: "```\n{\"title\":\"t\"}\n```",
			want: `{"title":"t"}`,
		},
		{
			name: "fenced block with nested object",
			text: "```json\n{\"a\":{\"b\":1}}\n```",
			want: `{"a":{"b":1}}`,
		},
		{
			name: "braces substring",
			text: `模型說了一堆話 {"title":"t","n":2} 然後又說了一堆`,
			want: `{"title":"t","n":2}`,
		},
		{
			name: "leading and trailing noise with nested braces",
			text: `prefix {"a":{"b":{"c":3}}} suffix`,
			want: `{"a":{"b":{"c":3}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSONObject(tt.text)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestExtractJSONObjectNoObject(t *testing.T) {
	assert.Nil(t, ExtractJSONObject(""))
	assert.Nil(t, ExtractJSONObject("純文字回覆，沒有任何物件"))
	assert.Nil(t, ExtractJSONObject("[1,2,3]"))
	assert.Nil(t, ExtractJSONObject("{broken"))
}

func TestExtractJSONObjectRepairsUnquotedKeys(t *testing.T) {
	raw := ExtractJSONObject("模型回覆：{title: \"洋蔥湯\", servings: 2}")
	require.NotNil(t, raw)

	var parsed map[string]interface{}
	require.NoError(t, ParseJSONBytes(raw, &parsed))
	assert.Equal(t, "洋蔥湯", parsed["title"])
}

func TestQuoteJSONKeys(t *testing.T) {
	assert.Equal(t, `{"title": "t", "n": 1}`, QuoteJSONKeys(`{title: "t", n: 1}`))
	// 已加引號的鍵保持不變
	assert.Equal(t, `{"title": "t"}`, QuoteJSONKeys(`{"title": "t"}`))
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]interface{}
	assert.Error(t, ParseJSON(`{"a":1} extra`, &v))
	assert.NoError(t, ParseJSON(`{"a":1}`, &v))
}

func TestDedupStrings(t *testing.T) {
	got := DedupStrings([]string{" a ", "b", "a", "", "b", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "滷肉", TruncateString("滷肉飯", 2))
	assert.Equal(t, "abc", TruncateString("abc", 10))
	assert.Equal(t, "", TruncateString("abc", 0))
}
