// Campaignwatch - Coordinated Narrative Campaign Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campaignwatch

package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/campaignwatch/internal/logging"
	"github.com/tomtom215/campaignwatch/internal/models"
)

func kw(pattern, category string, weight float64) RuleSpec {
	return RuleSpec{Pattern: pattern, Kind: models.RuleKindKeyword, Category: category, Weight: weight}
}

func tag(pattern, category string, weight float64) RuleSpec {
	return RuleSpec{Pattern: pattern, Kind: models.RuleKindHashtag, Category: category, Weight: weight}
}

func rx(pattern, category, description string, weight float64) RuleSpec {
	return RuleSpec{Pattern: pattern, Kind: models.RuleKindRegex, Category: category, Description: description, Weight: weight}
}

// DefaultRules returns the built-in rule pack.
func DefaultRules() []RuleSpec {
	return []RuleSpec{
		// Direct hostility
		kw("anti India", "direct_hate", 3.0),
		kw("boycott India", "boycott_campaign", 2.8),
		kw("hate India", "direct_hate", 2.9),
		kw("down with India", "direct_hate", 2.7),

		// Propaganda and disinformation
		kw("India terrorist state", "propaganda", 2.5),
		kw("India genocide", "disinformation", 2.6),
		kw("Kashmir boycott India", "boycott_campaign", 2.4),

		// Separatism
		kw("Kashmir liberation from India", "separatist", 2.3),
		kw("free Kashmir from India", "separatist", 2.2),
		kw("India occupation Kashmir", "separatist", 2.1),
		kw("कश्मीर", "kashmir_term", 2.5),
		kw("कश्मीर आज़ादी", "separatist", 2.3),
		kw("कश्मीर स्वतंत्रता", "separatist", 2.3),

		// Political attacks
		kw("Modi fascist", "political_attack", 2.0),
		kw("BJP terrorist", "political_attack", 1.9),
		kw("India fascism", "political_criticism", 1.8),
		kw("Hindutva terrorism", "religious_hate", 2.2),

		// Human rights framing
		kw("India human rights abuse", "human_rights", 1.7),
		kw("India war crimes", "accusations", 1.6),
		kw("India ethnic cleansing", "accusations", 1.8),
		kw("India apartheid", "accusations", 1.5),

		// Economic campaigns
		kw("boycott Indian products", "economic_campaign", 1.4),
		kw("ban Indian goods", "economic_campaign", 1.3),
		kw("economic sanctions India", "economic_campaign", 1.2),

		// Media framing
		kw("fake news India", "disinformation", 1.1),
		kw("India propaganda", "disinformation", 1.2),
		kw("Indian lies", "disinformation", 1.0),

		tag("#BoycottIndia", "boycott_campaign", 2.5),
		tag("#AntiIndia", "direct_hate", 2.8),
		tag("#KashmirBleeds", "separatist", 2.2),
		tag("#ModiFascist", "political_attack", 2.0),
		tag("#IndiaExposed", "propaganda", 1.8),
		tag("#FreeKashmir", "separatist", 2.1),
		tag("#IndianTerrorism", "propaganda", 2.4),
		tag("#HatePropaganda", "general_hate", 1.5),

		rx(`india\s+should\s+be\s+(destroyed|eliminated|wiped)`, "direct_threat", "calls for destruction", 3.0),
		rx(`death\s+to\s+india`, "direct_threat", "death slogan", 3.0),
		rx(`india\s+is\s+(a\s+)?terrorist\s+(nation|state|country)`, "propaganda", "terrorist state framing", 2.5),
		rx(`break\s+india\s+(movement|campaign|agenda)`, "separatist", "break-up agenda", 2.3),
		rx(`india\s+(behind|funding|supporting)\s+terrorism`, "conspiracy", "terror sponsorship claim", 2.1),
	}
}

// SeedDefaults adds every DefaultRules entry that is not already present.
// Existing rules, including their weights and counters, are left untouched.
func SeedDefaults(ctx context.Context, store Store) (int, error) {
	added := 0
	for _, spec := range DefaultRules() {
		if _, err := store.Add(ctx, spec, false); err != nil {
			if errors.Is(err, ErrDuplicateRule) {
				continue
			}
			return added, fmt.Errorf("seed %s %q: %w", spec.Kind, spec.Pattern, err)
		}
		added++
	}
	if added > 0 {
		logging.Info().Int("added", added).Msg("seeded default rules")
	}
	return added, nil
}
