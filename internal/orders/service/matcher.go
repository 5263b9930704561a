package service

import (
	"strings"

	"github.com/google/uuid"
)

// CatalogItem is the read-only menu projection the matcher scores against.
type CatalogItem struct {
	ID        uuid.UUID
	Name      string
	BasePrice float64
}

// tokenScoreThreshold is the minimum token-overlap score for a fuzzy match.
// Scores at exactly the threshold are rejected; the boundary is pinned by
// tests since voice transcripts routinely produce near-miss names.
const tokenScoreThreshold = 0.3

// MatchCatalogItem resolves a spoken item name against the catalog. Three
// tiers, first hit wins: exact case-insensitive equality, substring
// containment in either direction, then token-overlap scoring. Returns nil
// when nothing matches — callers keep the raw name at price zero rather than
// dropping the item, so staff always see everything the customer said.
func MatchCatalogItem(name string, catalog []CatalogItem) *CatalogItem {
	spoken := strings.ToLower(strings.TrimSpace(name))
	if spoken == "" {
		return nil
	}

	for i := range catalog {
		if strings.ToLower(catalog[i].Name) == spoken {
			return &catalog[i]
		}
	}

	for i := range catalog {
		stored := strings.ToLower(catalog[i].Name)
		if strings.Contains(spoken, stored) || strings.Contains(stored, spoken) {
			return &catalog[i]
		}
	}

	spokenWords := wordSet(spoken)
	var best *CatalogItem
	bestScore := 0.0
	for i := range catalog {
		score := overlapScore(spokenWords, wordSet(strings.ToLower(catalog[i].Name)))
		if score > bestScore {
			bestScore = score
			best = &catalog[i]
		}
	}
	if bestScore > tokenScoreThreshold {
		return best
	}
	return nil
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(s) {
		set[word] = struct{}{}
	}
	return set
}

// overlapScore is |intersection| / max(|a|, |b|).
func overlapScore(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for word := range a {
		if _, ok := b[word]; ok {
			shared++
		}
	}
	larger := len(a)
	if len(b) > larger {
		larger = len(b)
	}
	return float64(shared) / float64(larger)
}
