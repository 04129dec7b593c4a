// Package matching scores free-text variant descriptions from the voice
// platform against catalog search results.
package matching

import (
	"sort"
	"strings"

	"voice-order-gateway/internal/models"
	"voice-order-gateway/internal/shopify"
)

// Scores assigned by the three matching rules; first rule that applies wins.
const (
	scoreExact     = 100.0
	scoreSubstring = 75.0
	scoreTokenMax  = 50.0
)

// RankVariants scores every variant of every product against the requested
// description and returns the non-zero hits sorted descending by score.
// Products without variants contribute nothing. Ties keep catalog order.
func RankVariants(products []shopify.Product, requested string) []models.VariantCandidate {
	var candidates []models.VariantCandidate

	for _, product := range products {
		for _, variant := range product.Variants {
			labels := optionLabels(variant)
			composite := strings.Join(labels, " / ")

			score := scoreVariant(requested, variant.Title, composite)
			if score == 0 {
				continue
			}

			candidates = append(candidates, models.VariantCandidate{
				ProductTitle:      product.Title,
				VariantID:         variant.ID,
				VariantTitle:      variant.Title,
				OptionLabels:      labels,
				InventoryQuantity: variant.InventoryQuantity,
				Price:             variant.Price,
				MatchScore:        score,
				DisplayName:       displayName(product.Title, variant.Title, composite),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MatchScore > candidates[j].MatchScore
	})

	return candidates
}

// scoreVariant applies the scoring policy against the variant's own title
// and its composite option label.
func scoreVariant(requested, variantTitle, composite string) float64 {
	req := strings.ToLower(strings.TrimSpace(requested))
	title := strings.ToLower(variantTitle)
	label := strings.ToLower(composite)

	if req == title || req == label {
		return scoreExact
	}

	// Substring containment in either direction. An empty request is
	// contained in everything, so it matches all variants weakly.
	for _, candidate := range []string{title, label} {
		if strings.Contains(candidate, req) || (req != "" && strings.Contains(req, candidate) && candidate != "") {
			return scoreSubstring
		}
	}

	return tokenOverlapScore(req, title+" "+label)
}

// tokenOverlapScore counts requested tokens that appear as a substring of,
// or contain, any candidate token, scaled to at most scoreTokenMax. A
// request with no tokens scores 0 rather than dividing by zero.
func tokenOverlapScore(req, candidate string) float64 {
	reqTokens := strings.Fields(req)
	if len(reqTokens) == 0 {
		return 0
	}

	candTokens := strings.Fields(candidate)

	matched := 0
	for _, rt := range reqTokens {
		for _, ct := range candTokens {
			if strings.Contains(ct, rt) || strings.Contains(rt, ct) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(reqTokens)) * scoreTokenMax
}

// optionLabels collects the up-to-three option values, skipping absent ones.
func optionLabels(v shopify.Variant) []string {
	labels := make([]string, 0, 3)
	for _, opt := range []string{v.Option1, v.Option2, v.Option3} {
		if opt != "" {
			labels = append(labels, opt)
		}
	}
	return labels
}

func displayName(productTitle, variantTitle, composite string) string {
	switch {
	case composite != "":
		return productTitle + " - " + composite
	case variantTitle != "":
		return productTitle + " - " + variantTitle
	default:
		return productTitle
	}
}
