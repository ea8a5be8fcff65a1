package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "keyword").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "unrepresentable_type":
			return "表現できない型です"
		case "unknown_annotation":
			return "未知のアノテーションです"
		case "annotation_conflict":
			return "アノテーションが競合しています（後勝ちで解決）"
		case "cyclic_reference":
			return "循環参照はインライン展開できません"
		case "too_many_types":
			return "型の数が上限を超えました"
		case "nullable_reference":
			return "参照には null を合成できません"
		}
	default: // "en"
		switch code {
		case "unrepresentable_type":
			return "type cannot be represented"
		case "unknown_annotation":
			return "unknown annotation"
		case "annotation_conflict":
			return "conflicting annotations resolved last-write-wins"
		case "cyclic_reference":
			return "cyclic graph cannot be inlined"
		case "too_many_types":
			return "distinct type limit exceeded"
		case "nullable_reference":
			return "null cannot be folded into a reference"
		}
	}
	return code
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

// T resolves a message for code via the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
