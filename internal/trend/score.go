package trend

import (
	"strings"

	"github.com/shanehull/vyapar/internal/sources"
	"github.com/shanehull/vyapar/internal/types"
)

const (
	trendWeight       = 50
	marketplaceWeight = 30
	mentionWeight     = 10
)

// Candidates returns the deduplicated union of all source labels in
// first-seen order, each annotated with its source membership.
func Candidates(snap sources.Snapshot) []types.Candidate {
	trendSet := toSet(snap.Trends)
	marketSet := toSet(snap.Marketplace)

	seen := make(map[string]struct{})
	var out []types.Candidate

	for _, list := range [][]string{snap.Trends, snap.Marketplace, snap.Forum} {
		for _, label := range list {
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}

			_, inTrend := trendSet[label]
			_, inMarket := marketSet[label]
			out = append(out, types.Candidate{
				Label:               label,
				InGoogleTrends:      inTrend,
				InAmazonBestSellers: inMarket,
				RedditMentionCount:  countMentions(label, snap.Forum),
			})
		}
	}
	return out
}

// Score weighs source membership and forum mentions.
func Score(c types.Candidate) int {
	score := mentionWeight * c.RedditMentionCount
	if c.InGoogleTrends {
		score += trendWeight
	}
	if c.InAmazonBestSellers {
		score += marketplaceWeight
	}
	return score
}

// Confidence maps a score onto [0,1].
func Confidence(score int) float64 {
	return min(float64(score)/100, 1.0)
}

func countMentions(label string, posts []string) int {
	needle := strings.ToLower(label)
	if needle == "" {
		return 0
	}
	n := 0
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p), needle) {
			n++
		}
	}
	return n
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
