package assist

import (
	"fmt"
	"strings"
)

// 所有匯入 prompt 共用的草稿 JSON 約定
const draftSchemaRules = `請以最緊湊的 JSON 格式回傳，結構如下（僅為範例，請勿直接複製內容）：
{"title":"菜名","short_description":"簡短描述","instructions":"作法步驟","servings":2,"time_minutes":30,"tags":["標籤"],"ingredients":[{"name":"食材名稱","amount":2,"unit":"pcs","needs_review":false}]}

要求：
1. 只擷取內容中實際出現的資訊，不要自行補充或猜測
2. 保留步驟原本的順序與編號
3. unit 欄位只能是 g、kg、ml、l、pcs、tsp、tbsp、to_taste 其中之一
4. 數量是區間（例如 2-3）或無法確定時，將 needs_review 設為 true
5. servings 與 time_minutes 必須是正整數，不確定就省略該欄位
6. 所有字串都必須使用雙引號
7. 只回傳一個獨立的 JSON 物件，不要附加任何說明文字`

// promptStructureOCR 把 OCR 文字整理成食譜草稿
const promptStructureOCR = `你是食譜整理助手。使用者會提供從食譜照片辨識出的文字，
文字可能含有辨識錯誤、斷行混亂或頁首頁尾雜訊，請整理成結構化食譜。
` + draftSchemaRules

// promptURLImport 從網址匯入食譜
const promptURLImport = `你是食譜整理助手。使用者會提供一個食譜網頁的網址，
請根據網址內容擷取食譜並整理成結構化格式。
` + draftSchemaRules

// promptVisionImport 直接從照片擷取食譜
const promptVisionImport = `你是食譜整理助手。使用者會提供食譜的照片，
請只擷取照片中看得到的內容，整理成結構化食譜。
` + draftSchemaRules

// visionCombinedPayload 多張照片一次送出時的使用者內容
func visionCombinedPayload(pages int) string {
	return fmt.Sprintf("這是同一份食譜的 %d 張照片，請整合成一份完整食譜。", pages)
}

// visionPagePayload 逐頁送出時的使用者內容
func visionPagePayload(index, total int) string {
	return fmt.Sprintf("這是同一份食譜的第 %d 張照片（共 %d 張），請只擷取這一頁的內容。", index, total)
}

// promptIngredientHints 食材名稱提示
const promptIngredientHints = `你是食材名稱助手。使用者輸入部分食材名稱，
請建議最多 8 個可能的完整食材名稱。
只回傳 JSON：{"hints":["名稱1","名稱2"]}，不要附加其他文字。`

// promptTagHints 標籤提示：允許清單由呼叫端帶入
func promptTagHints(allowedTags []string) string {
	return fmt.Sprintf(`你是食譜標籤助手。根據食譜標題與描述建議合適的標籤。
只能從以下清單挑選：%s
只回傳 JSON：{"suggested_tags":["標籤1"]}，不要附加其他文字。`, strings.Join(allowedTags, "、"))
}

// promptServingsHint 份量估算
const promptServingsHint = `你是食譜份量助手。根據食材清單估算這份食譜大約幾人份。
只回傳 JSON：{"servings":2}，servings 必須是 1 到 12 的整數，不要附加其他文字。`

// promptMenuSuggestion 菜單建議
const promptMenuSuggestion = `你是家庭菜單助手。根據現有食材建議接下來幾天的菜單。
只回傳 JSON：{"suggestions":[{"day":1,"title":"菜名","note":"備註"}]}，不要附加其他文字。`

// promptAssistantHelp 應用內使用說明問答
const promptAssistantHelp = `你是家庭餐點規劃應用的使用說明助手。
使用者會提供目前所在的頁面與問題，請用繁體中文簡短回答操作方式。
只回傳 JSON：{"answer":"回答內容"}，不要附加其他文字。`
