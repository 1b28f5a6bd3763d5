package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Mechanical Cyrillic→Latin table. Deliberately lossy: this is a recall
// heuristic for search, not a transliteration standard.
var cyrToLat = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",
}

// Inverse table, digraphs first. Ambiguous Latin letters get one fixed
// choice (c→к, w→в, x→кс), trading precision for recall.
var latToCyr = map[string]string{
	"sch": "щ", "yo": "ё", "zh": "ж", "kh": "х", "ts": "ц",
	"ch": "ч", "sh": "ш", "yu": "ю", "ya": "я",
	"a": "а", "b": "б", "c": "к", "d": "д", "e": "е",
	"f": "ф", "g": "г", "h": "х", "i": "и", "j": "й",
	"k": "к", "l": "л", "m": "м", "n": "н", "o": "о",
	"p": "п", "q": "к", "r": "р", "s": "с", "t": "т",
	"u": "у", "v": "в", "w": "в", "x": "кс", "y": "ы",
	"z": "з",
}

// latToCyrRe matches every Latin key in one alternation, longest first, so
// digraphs are consumed before their constituent letters.
var latToCyrRe = buildLatToCyrRe()

func buildLatToCyrRe() *regexp.Regexp {
	keys := make([]string, 0, len(latToCyr))
	for k := range latToCyr {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return regexp.MustCompile(strings.Join(keys, "|"))
}

func toLatin(s string) string {
	var b strings.Builder
	for _, r := range s {
		if repl, ok := cyrToLat[r]; ok {
			b.WriteString(repl)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toCyrillic(s string) string {
	return latToCyrRe.ReplaceAllStringFunc(s, func(m string) string {
		return latToCyr[m]
	})
}

func hasCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

func hasLatin(s string) bool {
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return true
		}
	}
	return false
}

// Variants returns the query itself plus its mechanical transliterations
// into the other script, for lowercased input.
func Variants(text string) []string {
	seen := map[string]bool{text: true}
	variants := []string{text}

	if hasCyrillic(text) {
		if v := toLatin(text); !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}
	if hasLatin(text) {
		if v := toCyrillic(text); !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}

	return variants
}
