package chat

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// IsComponent 判断文本是否为组件树编码。
// 解析失败不是错误，而是旧式文本的判别信号
func IsComponent(s string) bool {
	if !gjson.Valid(s) {
		return false
	}
	v := gjson.Parse(s)
	return v.IsObject() || v.IsArray()
}

// PlainText 递归提取组件树的纯文本
func PlainText(s string) string {
	var b strings.Builder
	collectPlain(gjson.Parse(s), &b)
	return b.String()
}

func collectPlain(v gjson.Result, b *strings.Builder) {
	switch {
	case v.IsArray():
		for _, e := range v.Array() {
			collectPlain(e, b)
		}
	case v.IsObject():
		b.WriteString(v.Get("text").String())
		if extra := v.Get("extra"); extra.Exists() {
			collectPlain(extra, b)
		}
	default:
		b.WriteString(v.String())
	}
}

const colorCodes = "0123456789abcdefklmnorx"

// TranslateColors 将 &x 颜色记号转换为平台颜色标记 §x
func TranslateColors(s string) string {
	return swapColorMarker(s, '&', '§')
}

// SectionToAmp 将 §x 还原为 &x，用于诊断输出
func SectionToAmp(s string) string {
	return swapColorMarker(s, '§', '&')
}

func swapColorMarker(s string, from, to rune) string {
	runes := []rune(s)
	for i := 0; i+1 < len(runes); i++ {
		if runes[i] == from && strings.ContainsRune(colorCodes, toLower(runes[i+1])) {
			runes[i] = to
		}
	}
	return string(runes)
}

// StripColors 去除全部 §x 颜色标记
func StripColors(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i := 0; i < len(runes); i++ {
		if runes[i] == '§' && i+1 < len(runes) && strings.ContainsRune(colorCodes, toLower(runes[i+1])) {
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

var colorNames = map[rune]string{
	'0': "black", '1': "dark_blue", '2': "dark_green", '3': "dark_aqua",
	'4': "dark_red", '5': "dark_purple", '6': "gold", '7': "gray",
	'8': "dark_gray", '9': "blue", 'a': "green", 'b': "aqua",
	'c': "red", 'd': "light_purple", 'e': "yellow", 'f': "white",
}

type legacySegment struct {
	Text          string `json:"text"`
	Color         string `json:"color,omitempty"`
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Underlined    bool   `json:"underlined,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Obfuscated    bool   `json:"obfuscated,omitempty"`
}

// LegacyComponents 将带 § 颜色标记的旧式文本切分为组件 JSON 序列
func LegacyComponents(s string) []string {
	runes := []rune(s)
	var out []string
	cur := legacySegment{}
	var text strings.Builder

	flush := func() {
		if text.Len() == 0 {
			return
		}
		cur.Text = text.String()
		b, err := json.Marshal(cur)
		if err == nil {
			out = append(out, string(b))
		}
		text.Reset()
	}

	for i := 0; i < len(runes); i++ {
		if runes[i] == '§' && i+1 < len(runes) {
			code := toLower(runes[i+1])
			i++
			flush()
			if name, ok := colorNames[code]; ok {
				// 颜色码重置所有样式
				cur = legacySegment{Color: name}
				continue
			}
			switch code {
			case 'k':
				cur.Obfuscated = true
			case 'l':
				cur.Bold = true
			case 'm':
				cur.Strikethrough = true
			case 'n':
				cur.Underlined = true
			case 'o':
				cur.Italic = true
			case 'r':
				cur = legacySegment{}
			}
			continue
		}
		text.WriteRune(runes[i])
	}
	flush()

	if len(out) == 0 {
		b, _ := json.Marshal(legacySegment{})
		out = append(out, string(b))
	}
	return out
}

// Affordances 给消息的每个顶层组件附加悬停提示和点击命令。
// 多段输出序列化为各段独立序列化后的 JSON 数组，而不是包裹进
// 单个外层组件，避免破坏依赖段下标的消费者。
// 返回改写后的消息，结果恒为组件格式
func Affordances(msg string, structured bool, command, hover string) (string, bool) {
	var segments []string
	if structured {
		v := gjson.Parse(msg)
		if v.IsArray() {
			for _, e := range v.Array() {
				segments = append(segments, e.Raw)
			}
		} else {
			segments = append(segments, msg)
		}
	} else {
		segments = LegacyComponents(msg)
	}

	hoverValue := "[" + strings.Join(LegacyComponents(hover), ",") + "]"
	for i, seg := range segments {
		seg, _ = sjson.Set(seg, "hoverEvent.action", "show_text")
		seg, _ = sjson.SetRaw(seg, "hoverEvent.value", hoverValue)
		seg, _ = sjson.Set(seg, "clickEvent.action", "run_command")
		seg, _ = sjson.Set(seg, "clickEvent.value", command)
		segments[i] = seg
	}

	if len(segments) == 1 {
		return segments[0], true
	}
	return "[" + strings.Join(segments, ",") + "]", true
}
