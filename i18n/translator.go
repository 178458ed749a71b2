package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected", "got", "min" or "max").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var tmpl string
	switch t.lang {
	case "ja":
		switch code {
		case "mismatch":
			tmpl = "{expected} を期待しましたが {got} でした"
		case "too_few":
			tmpl = "繰り返し回数が不足しています (最小 {min}, 実際 {got})"
		case "too_short":
			tmpl = "短すぎます (最小 {min})"
		case "invalid_utf8":
			tmpl = "UTF-8 として不正です"
		case "foreign_state":
			tmpl = "このパーサーの状態ではありません"
		case "unexpected_end":
			tmpl = "入力が途中で終了しました"
		case "out_of_range":
			tmpl = "範囲外の値です ({min}..{max})"
		case "overflow":
			tmpl = "型に収まりません"
		case "arity":
			tmpl = "要素数が一致しません (期待 {want}, 実際 {got})"
		case "unsupported_type":
			tmpl = "未対応の型です"
		}
	default: // "en"
		switch code {
		case "mismatch":
			tmpl = "expected {expected}, got {got}"
		case "too_few":
			tmpl = "too few repetitions (min {min}, got {got})"
		case "too_short":
			tmpl = "too short (min {min})"
		case "invalid_utf8":
			tmpl = "invalid UTF-8"
		case "foreign_state":
			tmpl = "state does not belong to this parser"
		case "unexpected_end":
			tmpl = "unexpected end of input"
		case "out_of_range":
			tmpl = "value out of range ({min}..{max})"
		case "overflow":
			tmpl = "value does not fit the target type"
		case "arity":
			tmpl = "wrong number of elements (want {want}, got {got})"
		case "unsupported_type":
			tmpl = "unsupported type"
		}
	}
	if tmpl == "" {
		return code
	}
	return fill(tmpl, data)
}

// fill substitutes {key} placeholders; unknown placeholders become "?".
func fill(tmpl string, data map[string]string) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	b := &strings.Builder{}
	for {
		i := strings.IndexByte(tmpl, '{')
		if i < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		j := strings.IndexByte(tmpl[i:], '}')
		if j < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		b.WriteString(tmpl[:i])
		if v, ok := data[tmpl[i+1:i+j]]; ok {
			b.WriteString(v)
		} else {
			b.WriteString("?")
		}
		tmpl = tmpl[i+j+1:]
	}
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
