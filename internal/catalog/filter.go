// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

// Package catalog implements the multi-source package catalog: merge,
// fuzzy filter, pagination and incremental status reconciliation.
package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mlundqv/pacvista/internal/domain"
)

// DefaultFuzzyThreshold is the minimum similarity a non-substring match
// must reach to be included. User-tunable in [0.0, 1.0].
const DefaultFuzzyThreshold = 0.4

// RankedMatch pairs a record with its match score. Transient: it is
// recomputed on every filter pass, never stored.
type RankedMatch struct {
	Record domain.PackageRecord
	Score  float64
}

// Similarity returns a normalized edit-distance ratio in [0, 1] between
// two strings, case-insensitively. Identical strings score 1.0.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}

	if longest == 0 {
		return 1.0
	}

	distance := fuzzy.LevenshteinDistance(a, b)

	return 1.0 - float64(distance)/float64(longest)
}

// score rates a record name against a search string: 1.0 for
// case-insensitive substring containment, otherwise the edit-distance
// similarity ratio.
func score(name, search string) float64 {
	if strings.Contains(strings.ToLower(name), strings.ToLower(search)) {
		return 1.0
	}

	return Similarity(name, search)
}

// Rank selects the view's candidate subset and ranks it against the
// search string. An empty search matches everything with score 1.0 in
// insertion order. Matches below the threshold are dropped; the
// comparison is inclusive (score >= threshold keeps the record). Ties
// keep relative catalog order.
func Rank(c domain.Catalog, view domain.View, search string, threshold float64) []RankedMatch {
	matches := make([]RankedMatch, 0, len(c))

	for _, rec := range c {
		if !view.Matches(rec) {
			continue
		}

		if search == "" {
			matches = append(matches, RankedMatch{Record: rec, Score: 1.0})

			continue
		}

		s := score(rec.Name, search)
		if s >= threshold {
			matches = append(matches, RankedMatch{Record: rec, Score: s})
		}
	}

	// Stable: equal scores preserve insertion order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// Filter is Rank without the scores: the ordered records themselves.
func Filter(c domain.Catalog, view domain.View, search string, threshold float64) []domain.PackageRecord {
	matches := Rank(c, view, search, threshold)

	records := make([]domain.PackageRecord, 0, len(matches))
	for _, match := range matches {
		records = append(records, match.Record)
	}

	return records
}
