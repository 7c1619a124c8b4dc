package model

import "strings"

// UncategorizedLabel is the fallback top-level category for tickets whose
// classification is empty or contains no usable segment.
const UncategorizedLabel = "Uncategorized"

// ParseCategoryPath splits a slash-delimited classification string into its
// ordered hierarchy levels. Segments are trimmed and empty segments are
// dropped, so "Classroom/App Crash" yields ["Classroom", "App Crash"] and
// "Sales" yields ["Sales"]. Classification is operator-entered free text,
// so this never fails: empty or whitespace-only input degrades to a single
// UncategorizedLabel segment instead of an error.
func ParseCategoryPath(classification string) []string {
	var path []string
	for _, seg := range strings.Split(classification, "/") {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			path = append(path, seg)
		}
	}
	if len(path) == 0 {
		return []string{UncategorizedLabel}
	}
	return path
}

// TopLevelCategory returns the first hierarchy level of a classification
// string, the key most consumers group by.
func TopLevelCategory(classification string) string {
	return ParseCategoryPath(classification)[0]
}
