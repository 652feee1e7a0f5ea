package archive

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FilterMembers returns the members whose names fuzzily match query, best
// match first. An empty query returns members unchanged.
func FilterMembers(members []Member, query string) []Member {
	query = strings.TrimSpace(query)
	if query == "" {
		return members
	}

	names := make([]string, len(members))
	byName := make(map[string]Member, len(members))
	for i, m := range members {
		names[i] = m.Name
		byName[m.Name] = m
	}

	ranks := fuzzy.RankFindFold(query, names)
	// lower distance is a closer match; ties keep name order
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].Target < ranks[j].Target
	})

	filtered := make([]Member, 0, len(ranks))
	for _, r := range ranks {
		filtered = append(filtered, byName[r.Target])
	}
	return filtered
}
