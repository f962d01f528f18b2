package groups

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rkarimi/rolodex/pkg/contacts"
	"github.com/rkarimi/rolodex/pkg/dedup"
	"github.com/rkarimi/rolodex/pkg/logging"
)

// GroupSuggestion recommends one group for one ungrouped contact.
//
// Priority is generation order (starting at 1), not a confidence rank; it is
// the key the lifecycle manager matches on. ConfidenceRank is the separate
// best-first ordering (1 = highest confidence in the bundle).
type GroupSuggestion struct {
	ContactID      string    `json:"contact_id"`
	ContactName    string    `json:"contact_name"`
	GroupID        string    `json:"group_id"`
	GroupName      string    `json:"group_name"`
	GroupColor     string    `json:"group_color,omitempty"`
	Confidence     int       `json:"confidence"`
	Reasoning      string    `json:"reasoning"`
	Priority       int       `json:"priority"`
	ConfidenceRank int       `json:"confidence_rank"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// SuggestionBundle is one ungrouped contact plus its suggestions in
// generation order. Bundles are only materialized when non-empty.
type SuggestionBundle struct {
	ContactID   string            `json:"contact_id"`
	ContactName string            `json:"contact_name"`
	Suggestions []GroupSuggestion `json:"suggestions"`
}

// SuggestionStats aggregates one generation cycle.
type SuggestionStats struct {
	TotalContacts     int     `json:"total_contacts"`
	TotalSuggestions  int     `json:"total_suggestions"`
	UniqueGroups      int     `json:"unique_groups"`
	SuccessRate       float64 `json:"success_rate"`
	AverageConfidence float64 `json:"average_confidence"`
	RecentSuggestions int     `json:"recent_suggestions"`
}

// SuggestionSet is the full output of one generation cycle.
type SuggestionSet struct {
	Bundles []SuggestionBundle `json:"bundles"`
	Stats   SuggestionStats    `json:"stats"`
}

// Confidence formula caps and thresholds.
const (
	companyPatternCap  = 95
	positionPatternCap = 85
	companyFuzzyCap    = 90
	positionFuzzyCap   = 75
	companyFuzzyMin    = 60
	positionFuzzyMin   = 50
	fuzzyKeepTop       = 2
	fallbackConfidence = 30
	patternContainComp = 80
	patternContainPos  = 70
)

// fallbackKeywords mark a group as a general-purpose catch-all. Persian
// equivalents included alongside English.
var fallbackKeywords = []string{"general", "other", "misc", "عمومی", "متفرقه", "سایر"}

// Generator produces group suggestions for every ungrouped contact.
type Generator struct {
	store  contacts.Store
	miner  *Miner
	logger logging.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(store contacts.Store, logger logging.Logger) *Generator {
	return &Generator{
		store:  store,
		miner:  NewMiner(store, logger),
		logger: logger.With(logging.F("component", "suggestion_generator")),
	}
}

// Generate mines fresh pattern maps and builds a suggestion bundle for every
// ungrouped contact that yields at least one candidate. All output is
// derived state for this cycle only.
func (g *Generator) Generate(ctx context.Context, userID string) (*SuggestionSet, error) {
	maps, err := g.miner.Mine(ctx, userID)
	if err != nil {
		return nil, err
	}

	ungrouped, err := g.store.ListUngroupedContacts(ctx, userID)
	if err != nil {
		g.logger.Error("suggestion generation failed",
			logging.Err(err),
			logging.F("operation", "list_ungrouped_contacts"),
			logging.F("user_id", userID))
		return nil, fmt.Errorf("listing ungrouped contacts: %w", err)
	}

	groupList, err := g.store.ListGroups(ctx, userID)
	if err != nil {
		g.logger.Error("suggestion generation failed",
			logging.Err(err),
			logging.F("operation", "list_groups"),
			logging.F("user_id", userID))
		return nil, fmt.Errorf("listing groups: %w", err)
	}

	set := BuildSuggestionSet(ungrouped, maps, groupList, time.Now())
	observeGeneration(set)

	g.logger.Info("suggestions generated",
		logging.F("user_id", userID),
		logging.F("ungrouped", len(ungrouped)),
		logging.F("bundles", len(set.Bundles)),
		logging.F("suggestions", set.Stats.TotalSuggestions))
	return set, nil
}

// BuildSuggestionSet runs the generation algorithm over already-fetched
// inputs. Exposed separately from Generate so the ranking logic is testable
// without a store.
func BuildSuggestionSet(ungrouped []contacts.ContactSummary, maps PatternMaps, groupList []contacts.GroupRecord, now time.Time) *SuggestionSet {
	set := &SuggestionSet{Bundles: []SuggestionBundle{}}

	for _, c := range ungrouped {
		suggestions := suggestForContact(c, maps, groupList, now)
		if len(suggestions) == 0 {
			continue
		}
		set.Bundles = append(set.Bundles, SuggestionBundle{
			ContactID:   c.ID,
			ContactName: c.FullName(),
			Suggestions: suggestions,
		})
	}

	set.Stats = computeStats(len(ungrouped), set.Bundles)
	return set
}

// suggestForContact builds the ordered candidate list for one contact.
// Candidates stay in generation order; they are never re-sorted by
// confidence.
func suggestForContact(c contacts.ContactSummary, maps PatternMaps, groupList []contacts.GroupRecord, now time.Time) []GroupSuggestion {
	var suggestions []GroupSuggestion
	suggested := make(map[string]bool)

	emit := func(groupID, groupName, groupColor string, confidence int, reasoning string) {
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 100 {
			confidence = 100
		}
		suggestions = append(suggestions, GroupSuggestion{
			ContactID:   c.ID,
			ContactName: c.FullName(),
			GroupID:     groupID,
			GroupName:   groupName,
			GroupColor:  groupColor,
			Confidence:  confidence,
			Reasoning:   reasoning,
			Priority:    len(suggestions) + 1,
			GeneratedAt: now,
		})
		suggested[groupID] = true
	}

	// Step 1: company pattern matches.
	normCompany := dedup.NormalizeName(c.Company)
	if normCompany != "" {
		for _, key := range maps.SortedCompanyKeys() {
			entry := maps.Company[key]
			sim, ok := patternSimilarity(normCompany, key, patternContainComp)
			if !ok {
				continue
			}
			confidence := capInt(sim+entry.Count*5, companyPatternCap)
			emit(entry.GroupID, entry.GroupName, entry.GroupColor, confidence,
				fmt.Sprintf("%d contact(s) from %q are already in %q", entry.Count, key, entry.GroupName))
		}
	}

	// Step 2: position pattern matches.
	normPosition := dedup.NormalizeName(c.Position)
	if normPosition != "" {
		for _, key := range maps.SortedPositionKeys() {
			entry := maps.Position[key]
			sim, ok := patternSimilarity(normPosition, key, patternContainPos)
			if !ok {
				continue
			}
			confidence := capInt(sim+entry.Count*3, positionPatternCap)
			emit(entry.GroupID, entry.GroupName, entry.GroupColor, confidence,
				fmt.Sprintf("%d contact(s) with position %q are already in %q", entry.Count, key, entry.GroupName))
		}
	}

	// Step 3: direct fuzzy matches against group names.
	if strings.TrimSpace(c.Company) != "" {
		for _, match := range topFuzzyMatches(c.Company, groupList, companyFuzzyMin, suggested) {
			emit(match.group.ID, match.group.Name, match.group.Color,
				capInt(match.score+15, companyFuzzyCap),
				fmt.Sprintf("company %q resembles group %q (score %d)", c.Company, match.group.Name, match.score))
		}
	}
	if strings.TrimSpace(c.Position) != "" {
		for _, match := range topFuzzyMatches(c.Position, groupList, positionFuzzyMin, suggested) {
			emit(match.group.ID, match.group.Name, match.group.Color,
				capInt(match.score+10, positionFuzzyCap),
				fmt.Sprintf("position %q resembles group %q (score %d)", c.Position, match.group.Name, match.score))
		}
	}

	// Step 4: fall back to the first general-purpose group, if any exists.
	if len(suggestions) == 0 {
		for _, g := range groupList {
			if isFallbackGroup(g.Name) {
				emit(g.ID, g.Name, g.Color, fallbackConfidence,
					fmt.Sprintf("no pattern matched; %q looks like a general-purpose group", g.Name))
				break
			}
		}
	}

	rankByConfidence(suggestions)
	return suggestions
}

// patternSimilarity compares a normalized contact field against a pattern
// key: 100 on exact match after normalization, containScore when one
// contains the other, no match otherwise.
func patternSimilarity(normField, key string, containScore int) (int, bool) {
	normKey := dedup.NormalizeName(key)
	if normKey == "" {
		return 0, false
	}
	if normField == normKey {
		return 100, true
	}
	if strings.Contains(normField, normKey) || strings.Contains(normKey, normField) {
		return containScore, true
	}
	return 0, false
}

type fuzzyMatch struct {
	group contacts.GroupRecord
	score int
}

// topFuzzyMatches scores value against every group's literal name with the
// similarity kernel and keeps the best two at or above the threshold,
// skipping groups already suggested.
func topFuzzyMatches(value string, groupList []contacts.GroupRecord, minScore int, suggested map[string]bool) []fuzzyMatch {
	var matches []fuzzyMatch
	for _, g := range groupList {
		if suggested[g.ID] {
			continue
		}
		score := dedup.Similarity(value, g.Name)
		if score >= minScore {
			matches = append(matches, fuzzyMatch{group: g, score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > fuzzyKeepTop {
		matches = matches[:fuzzyKeepTop]
	}
	return matches
}

// isFallbackGroup reports whether the group name contains a general-purpose
// keyword.
func isFallbackGroup(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range fallbackKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// rankByConfidence fills in ConfidenceRank (1 = best) without disturbing the
// generation order of the slice. Ties rank by earlier priority.
func rankByConfidence(suggestions []GroupSuggestion) {
	order := make([]int, len(suggestions))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return suggestions[order[a]].Confidence > suggestions[order[b]].Confidence
	})
	for rank, idx := range order {
		suggestions[idx].ConfidenceRank = rank + 1
	}
}

func capInt(v, max int) int {
	if v > max {
		return max
	}
	return v
}

// computeStats aggregates one generation cycle across all bundles.
func computeStats(totalContacts int, bundles []SuggestionBundle) SuggestionStats {
	stats := SuggestionStats{TotalContacts: totalContacts}

	uniqueGroups := make(map[string]bool)
	confidenceSum := 0
	for _, b := range bundles {
		for _, s := range b.Suggestions {
			stats.TotalSuggestions++
			uniqueGroups[s.GroupID] = true
			confidenceSum += s.Confidence

			// TODO: the cutoff should be a caller-supplied timestamp; as
			// written every suggestion compares against its own generation
			// time and is always counted "recent".
			if s.GeneratedAt.After(s.GeneratedAt.Add(-time.Hour)) {
				stats.RecentSuggestions++
			}
		}
	}

	stats.UniqueGroups = len(uniqueGroups)
	if totalContacts > 0 {
		stats.SuccessRate = float64(len(bundles)) / float64(totalContacts) * 100
	}
	if stats.TotalSuggestions > 0 {
		stats.AverageConfidence = float64(confidenceSum) / float64(stats.TotalSuggestions)
	}
	return stats
}
