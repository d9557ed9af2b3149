package recipe

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// 單位別名字典：英文縮寫、全名與繁體中文慣用寫法。
// 中文別名依長度排序比對（公克要先於克）。
var unitAliases = map[string]Unit{
	"g":           UnitGram,
	"gr":          UnitGram,
	"gram":        UnitGram,
	"grams":       UnitGram,
	"克":           UnitGram,
	"公克":          UnitGram,
	"kg":          UnitKilogram,
	"kilogram":    UnitKilogram,
	"kilograms":   UnitKilogram,
	"公斤":          UnitKilogram,
	"千克":          UnitKilogram,
	"ml":          UnitMilliliter,
	"cc":          UnitMilliliter,
	"milliliter":  UnitMilliliter,
	"milliliters": UnitMilliliter,
	"毫升":          UnitMilliliter,
	"l":           UnitLiter,
	"liter":       UnitLiter,
	"liters":      UnitLiter,
	"litre":       UnitLiter,
	"litres":      UnitLiter,
	"公升":          UnitLiter,
	"tsp":         UnitTeaspoon,
	"teaspoon":    UnitTeaspoon,
	"teaspoons":   UnitTeaspoon,
	"茶匙":          UnitTeaspoon,
	"小匙":          UnitTeaspoon,
	"tbsp":        UnitTablespoon,
	"tablespoon":  UnitTablespoon,
	"tablespoons": UnitTablespoon,
	"大匙":          UnitTablespoon,
	"湯匙":          UnitTablespoon,
	"pc":          UnitPiece,
	"pcs":         UnitPiece,
	"piece":       UnitPiece,
	"pieces":      UnitPiece,
	"顆":           UnitPiece,
	"個":           UnitPiece,
	"根":           UnitPiece,
	"條":           UnitPiece,
	"支":           UnitPiece,
	"隻":           UnitPiece,
	"瓣":           UnitPiece,
	"片":           UnitPiece,
	"pinch":       UnitToTaste,
	"適量":          UnitToTaste,
	"少許":          UnitToTaste,
	"酌量":          UnitToTaste,
}

// 中文別名需要子字串比對（中文不以空白分詞），長的先比
var cjkAliases = []struct {
	alias string
	unit  Unit
}{
	{"公克", UnitGram},
	{"公斤", UnitKilogram},
	{"千克", UnitKilogram},
	{"毫升", UnitMilliliter},
	{"公升", UnitLiter},
	{"茶匙", UnitTeaspoon},
	{"小匙", UnitTeaspoon},
	{"大匙", UnitTablespoon},
	{"湯匙", UnitTablespoon},
	{"適量", UnitToTaste},
	{"少許", UnitToTaste},
	{"酌量", UnitToTaste},
	{"克", UnitGram},
	{"顆", UnitPiece},
	{"個", UnitPiece},
	{"根", UnitPiece},
	{"條", UnitPiece},
	{"支", UnitPiece},
	{"隻", UnitPiece},
	{"瓣", UnitPiece},
	{"片", UnitPiece},
}

// 從上下文關鍵字推斷單位（沒有明確單位 token 時用）
var contextKeywords = []struct {
	keyword string
	unit    Unit
}{
	{"to taste", UnitToTaste},
	{"as needed", UnitToTaste},
	{"clove", UnitPiece},
	{"leaf", UnitPiece},
	{"leaves", UnitPiece},
	{"蒜瓣", UnitPiece},
	{"葉", UnitPiece},
}

var (
	rangePattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:[-–—]|to|到)\s*(\d+(?:\.\d+)?)`)
	numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
	wordPattern   = regexp.MustCompile(`[a-z]+`)
)

// NormalizeUnit 將單位 token 映射到封閉單位集合，認不得時回 pcs。
// 對任何輸入都是全函數，不會 panic。
func NormalizeUnit(rawToken string) Unit {
	token := strings.ToLower(strings.TrimSpace(rawToken))
	token = strings.Trim(token, ".")
	if token == "" {
		return UnitPiece
	}
	// 已是正規單位值的情況（結構化回應常直接給 "to_taste"）
	if u := Unit(token); u.Valid() {
		return u
	}
	if u, ok := unitAliases[token]; ok {
		return u
	}
	return UnitPiece
}

// ParseAmount 從自由文字解析數量。
// 回傳 (數量, 是否含糊)：來源是區間（如 "2-3"）時取中點、四捨五入到
// 小數兩位，並回報含糊，呼叫端必須把該食材標成 needs_review。
// 純函數，相同輸入永遠得到相同輸出。
func ParseAmount(rawText string) (float64, bool) {
	s := strings.TrimSpace(rawText)
	if s == "" {
		return 0, false
	}

	// 已是正數字串就直接用
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if v > 0 {
			return v, false
		}
		return 0, false
	}

	// 正規化小數點與空白
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.Join(strings.Fields(s), " ")

	// 區間：連字號、en-dash、em-dash 或 to/到
	if m := rangePattern.FindStringSubmatch(s); len(m) == 3 {
		a, errA := strconv.ParseFloat(m[1], 64)
		b, errB := strconv.ParseFloat(m[2], 64)
		if errA == nil && errB == nil {
			mid := math.Round((a+b)/2*100) / 100
			return mid, true
		}
	}

	// 第一個獨立的數字
	if m := numberPattern.FindString(s); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil && v > 0 {
			return v, false
		}
	}

	return 0, false
}

// DetectUnitFromText 從整行文字推斷單位：先找明確的單位 token，
// 再比對上下文關鍵字，最後退回 pcs。
func DetectUnitFromText(line string) Unit {
	lower := strings.ToLower(line)
	if lower == "" {
		return UnitPiece
	}

	// 英文 token 逐字比對
	for _, word := range wordPattern.FindAllString(lower, -1) {
		if u, ok := unitAliases[word]; ok {
			return u
		}
	}

	// 中文別名子字串比對
	for _, entry := range cjkAliases {
		if strings.Contains(lower, entry.alias) {
			return entry.unit
		}
	}

	// 上下文關鍵字
	for _, entry := range contextKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.unit
		}
	}

	return UnitPiece
}
