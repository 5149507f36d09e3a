package strutil

import "strings"

const listWhitespace = " \t"

// NormalizeList strips spaces and tabs around every delim-separated item of
// list. Delimiters are kept, so empty items survive as empty.
func NormalizeList(list string, delim byte) string {
	if list == "" {
		return list
	}

	items := strings.Split(list, string(delim))
	for i, item := range items {
		items[i] = strings.Trim(item, listWhitespace)
	}
	return strings.Join(items, string(delim))
}

// StringArray is a growable list of strings collected from repeated keys.
type StringArray []string

// NewStringArray returns an empty, non-nil array ready for Append.
func NewStringArray() StringArray {
	return StringArray{}
}

// Append adds item to the end of the array.
func (a *StringArray) Append(item string) {
	*a = append(*a, item)
}
