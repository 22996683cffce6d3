package mergetags

import (
	"strconv"
	"strings"
)

// Modifier is one parsed placeholder modifier: a key with an optional
// bracketed value. A bare key ("openai_feed_3") keeps its key as the value;
// a bracketed list ("ids[1,2,3]") becomes an ordered sequence.
type Modifier struct {
	Key    string
	Values []string
}

// ModifierSet holds a placeholder's modifiers in source order.
type ModifierSet []Modifier

// parseModifiers scans the modifier mini-grammar: comma-separated entries of
// `key` or `key[value]`, where a bracketed value may itself be a
// comma-separated list.
func parseModifiers(s string) ModifierSet {
	var set ModifierSet

	i := 0
	for i < len(s) {
		// skip separators
		for i < len(s) && !isModifierRune(s[i]) {
			i++
		}
		if i >= len(s) {
			break
		}

		start := i
		for i < len(s) && isModifierRune(s[i]) {
			i++
		}
		key := strings.ToLower(s[start:i])

		value := key
		if i < len(s) && s[i] == '[' {
			if end := strings.IndexByte(s[i:], ']'); end > 0 {
				value = s[i+1 : i+end]
				i += end + 1
			}
		}

		var values []string
		for _, part := range strings.Split(value, ",") {
			values = append(values, strings.TrimSpace(part))
		}

		set = append(set, Modifier{Key: key, Values: values})
	}

	return set
}

func isModifierRune(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// feedID finds the feed selected by an "openai_feed_<id>" modifier. Only a
// numeric id counts; anything else means the placeholder isn't ours.
func (m ModifierSet) feedID() (int64, bool) {
	for _, mod := range m {
		for _, v := range mod.Values {
			if !strings.HasPrefix(v, feedModifierPrefix) {
				continue
			}
			id, err := strconv.ParseInt(strings.TrimPrefix(v, feedModifierPrefix), 10, 64)
			if err != nil {
				continue
			}
			return id, true
		}
	}
	return 0, false
}
