// Package recommend ranks library books against one the reader is looking at.
package recommend

import (
	"sort"
	"strings"

	"orphancare-learning/internal/models"
)

const (
	DefaultLimit  = 4
	overlapWeight = 3.0
	popWeight     = 1.0
)

// Recommend returns up to limit books. Without a known base book it falls back
// to the most popular ones; otherwise every other book is scored by shared tags
// (weighted 3) plus popularity normalized to the catalog maximum (weighted 1).
func Recommend(all []models.Book, baseID string, limit int) []models.Book {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var base *models.Book
	for i := range all {
		if all[i].ID == baseID {
			base = &all[i]
			break
		}
	}
	if baseID == "" || base == nil {
		return Popular(all, limit)
	}

	baseTags := make(map[string]struct{}, len(base.Tags))
	for _, t := range base.Tags {
		baseTags[strings.ToLower(t)] = struct{}{}
	}

	maxPop := 1.0
	for _, b := range all {
		if b.Popularity > maxPop {
			maxPop = b.Popularity
		}
	}

	type scored struct {
		book  models.Book
		score float64
	}
	candidates := make([]scored, 0, len(all))
	for _, b := range all {
		if b.ID == baseID {
			continue
		}
		overlap := 0
		for _, t := range b.Tags {
			if _, ok := baseTags[strings.ToLower(t)]; ok {
				overlap++
			}
		}
		candidates = append(candidates, scored{
			book:  b,
			score: float64(overlap)*overlapWeight + b.Popularity/maxPop*popWeight,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	out := make([]models.Book, 0, limit)
	for _, c := range candidates {
		if len(out) == limit {
			break
		}
		out = append(out, c.book)
	}
	return out
}

// Popular returns up to limit books by descending popularity.
func Popular(all []models.Book, limit int) []models.Book {
	sorted := append([]models.Book(nil), all...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Popularity > sorted[j].Popularity })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
