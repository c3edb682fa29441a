// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package coordination

import (
	"context"
	"strings"

	"github.com/tomtom215/campaignwatch/internal/models"
)

// previewRunes bounds the distinguishing text of a similarity cluster.
const previewRunes = 100

// wordSet returns the whitespace-separated, case-folded words of text.
func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Jaccard returns |a∩b| / |a∪b|. Two empty sets score 0.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// similarityClusters runs one greedy pass in window order: each item not
// yet clustered becomes a seed and absorbs every later unclustered item
// whose similarity to the seed strictly exceeds the threshold. All members,
// the seed included, are then marked clustered whether or not the group is
// reported. Similarity is not transitive, so a chain of gradually drifting
// texts may split across passes.
func (d *Detector) similarityClusters(ctx context.Context, items []models.ScoredItem) ([]models.Cluster, error) {
	sets := make([]map[string]struct{}, len(items))
	for i := range items {
		sets[i] = wordSet(items[i].Text())
	}

	clustered := make([]bool, len(items))
	var groups []*group

	for i := range items {
		if clustered[i] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		members := []int{i}
		for j := i + 1; j < len(items); j++ {
			if clustered[j] {
				continue
			}
			if Jaccard(sets[i], sets[j]) > d.config.SimilarityThreshold {
				members = append(members, j)
			}
		}
		for _, m := range members {
			clustered[m] = true
		}
		if len(members) > 1 {
			groups = append(groups, &group{feature: preview(items[i].Text()), members: members})
		}
	}

	return d.emit(models.ClusterSimilarity, items, groups, d.config.SimilarityMinItems, d.config.SimilarityMinAuthors), nil
}

func preview(text string) string {
	r := []rune(strings.TrimSpace(text))
	if len(r) <= previewRunes {
		return string(r)
	}
	return string(r[:previewRunes])
}
