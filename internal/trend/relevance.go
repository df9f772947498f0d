/*
Package trend turns raw source output into scored stocking candidates.

A label must pass the keyword relevance filter and the commercial probe
before it is scored; only candidates at or above the threshold are kept.
*/
package trend

import "strings"

// RelevanceFilter matches labels against the retail keyword vocabulary.
type RelevanceFilter struct {
	keywords []string
}

func NewRelevanceFilter(keywords []string) *RelevanceFilter {
	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			normalized = append(normalized, kw)
		}
	}
	return &RelevanceFilter{keywords: normalized}
}

// IsRetailRelevant reports whether text contains any keyword, ignoring case.
func (f *RelevanceFilter) IsRetailRelevant(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range f.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
