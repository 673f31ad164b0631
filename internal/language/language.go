package language

import "strings"

// Auto is the setting value that leaves detection to the engine.
const Auto = "auto"

type entry struct {
	iso1    string
	iso2    []string
	name    string
	aliases []string
}

var table = []entry{
	{"it", []string{"ita"}, "Italian", []string{"italian", "italiano"}},
	{"en", []string{"eng"}, "English", []string{"english", "inglese"}},
	{"es", []string{"spa"}, "Spanish", []string{"spanish", "spagnolo"}},
	{"fr", []string{"fra", "fre"}, "French", []string{"french", "francese"}},
	{"de", []string{"deu", "ger"}, "German", []string{"german", "tedesco"}},
	{"pt", []string{"por"}, "Portuguese", []string{"portuguese", "portoghese"}},
	{"nl", []string{"nld", "dut"}, "Dutch", []string{"dutch"}},
	{"pl", []string{"pol"}, "Polish", []string{"polish"}},
	{"ru", []string{"rus"}, "Russian", []string{"russian"}},
	{"ja", []string{"jpn"}, "Japanese", []string{"japanese"}},
	{"zh", []string{"zho", "chi"}, "Chinese", []string{"chinese"}},
}

var index = buildIndex()

func buildIndex() map[string]*entry {
	m := make(map[string]*entry)
	for i := range table {
		e := &table[i]
		m[e.iso1] = e
		for _, code := range e.iso2 {
			m[code] = e
		}
		for _, alias := range e.aliases {
			m[alias] = e
		}
	}
	return m
}

// ToISO2 returns the two-letter code for a known language. Unknown two-letter
// codes pass through unchanged so whisper's long tail of languages still
// works. Empty input, "auto" and unrecognized longer values yield "".
func ToISO2(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" || value == Auto {
		return ""
	}
	if e, ok := index[value]; ok {
		return e.iso1
	}
	if len(value) == 2 {
		return value
	}
	return ""
}

// Known reports whether value is empty, "auto", or resolves to a language code.
func Known(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, Auto) {
		return true
	}
	return ToISO2(value) != ""
}

// DisplayName returns a readable name for value, "Auto-detect" when detection
// is left to the engine, or the upper-cased code when unknown.
func DisplayName(value string) string {
	code := ToISO2(value)
	if code == "" {
		if Known(value) {
			return "Auto-detect"
		}
		return strings.ToUpper(strings.TrimSpace(value))
	}
	if e, ok := index[code]; ok {
		return e.name
	}
	return strings.ToUpper(code)
}
