package util

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// QueryKey builds a stable key for a set of search terms: terms are normalized,
// de-duplicated and sorted, so "France, spain" and "Spain,France" share a key.
// An empty term list (the "all countries" query) maps to the hash of "*".
func QueryKey(terms ...string) string {
	seen := make(map[string]struct{}, len(terms))
	norm := make([]string, 0, len(terms))
	for _, t := range terms {
		n := NormalizeQuery(t)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		norm = append(norm, n)
	}
	if len(norm) == 0 {
		return hashString("*")
	}
	sort.Strings(norm)
	return hashString(strings.Join(norm, "|"))
}

func hashString(input string) string {
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}
