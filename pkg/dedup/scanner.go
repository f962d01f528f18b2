package dedup

import (
	"context"
	"fmt"

	"github.com/rkarimi/rolodex/pkg/contacts"
	"github.com/rkarimi/rolodex/pkg/logging"
)

// MatchReason classifies why two contacts were paired as likely duplicates.
type MatchReason string

const (
	// MatchNameAndContact means names are identical and an email or phone is
	// shared. High confidence.
	MatchNameAndContact MatchReason = "name_and_contact"

	// MatchEmail means a shared email address with differing names. Medium
	// confidence.
	MatchEmail MatchReason = "email"

	// MatchPhone means a shared phone number with differing names. Medium
	// confidence.
	MatchPhone MatchReason = "phone"
)

// CandidatePair is one likely-duplicate pairing reported by a scan. Pairs are
// transient: they live only for the scan cycle that produced them.
type CandidatePair struct {
	Main      contacts.ContactSummary `json:"main"`
	Duplicate contacts.ContactSummary `json:"duplicate"`
	Reason    MatchReason             `json:"reason"`
}

// ScanStats aggregates one scan's results.
type ScanStats struct {
	Total            int `json:"total"`
	HighConfidence   int `json:"high_confidence"`
	MediumConfidence int `json:"medium_confidence"`
}

// ScanResult bundles the ordered pairs with their statistics.
type ScanResult struct {
	Pairs []CandidatePair `json:"pairs"`
	Stats ScanStats       `json:"stats"`
}

// Scanner runs duplicate scans over a user's contact set.
type Scanner struct {
	store  contacts.Store
	logger logging.Logger
}

// NewScanner creates a Scanner.
func NewScanner(store contacts.Store, logger logging.Logger) *Scanner {
	return &Scanner{
		store:  store,
		logger: logger.With(logging.F("component", "duplicate_scanner")),
	}
}

// Scan fetches the user's contacts and reports classified duplicate pairs.
func (s *Scanner) Scan(ctx context.Context, userID string) (*ScanResult, error) {
	summaries, err := s.store.ListContactSummaries(ctx, userID)
	if err != nil {
		s.logger.Error("duplicate scan failed",
			logging.Err(err),
			logging.F("operation", "list_contact_summaries"),
			logging.F("user_id", userID))
		return nil, fmt.Errorf("listing contacts for scan: %w", err)
	}

	result := ScanContacts(summaries)
	observeScan(result)

	s.logger.Info("duplicate scan complete",
		logging.F("user_id", userID),
		logging.F("contacts", len(summaries)),
		logging.F("pairs", result.Stats.Total),
		logging.F("high_confidence", result.Stats.HighConfidence))
	return result, nil
}

// ScanContacts performs the pairwise duplicate scan over a contact set.
//
// The scan is a greedy i<j double loop: once a contact id appears in a
// reported pair it is excluded from all further pairing in the same scan
// (first match wins). O(n²) string comparisons; fine at personal
// contact-book sizes. If this ever has to handle large imports, bucket by
// normalized-name prefix or email domain before comparing.
func ScanContacts(summaries []contacts.ContactSummary) *ScanResult {
	result := &ScanResult{Pairs: []CandidatePair{}}
	claimed := make(map[string]bool, len(summaries))

	for i := 0; i < len(summaries); i++ {
		if claimed[summaries[i].ID] {
			continue
		}
		for j := i + 1; j < len(summaries); j++ {
			if claimed[summaries[i].ID] {
				break
			}
			if claimed[summaries[j].ID] {
				continue
			}

			reason, ok := classifyPair(summaries[i], summaries[j])
			if !ok {
				continue
			}

			claimed[summaries[i].ID] = true
			claimed[summaries[j].ID] = true
			result.Pairs = append(result.Pairs, CandidatePair{
				Main:      summaries[i],
				Duplicate: summaries[j],
				Reason:    reason,
			})
		}
	}

	result.Stats.Total = len(result.Pairs)
	for _, p := range result.Pairs {
		if p.Reason == MatchNameAndContact {
			result.Stats.HighConfidence++
		}
	}
	// Every non-name-match pair counts as medium.
	result.Stats.MediumConfidence = result.Stats.Total - result.Stats.HighConfidence

	return result
}

// classifyPair decides whether two contacts look like the same person.
// Name comparison is exact (given, family) tuple equality, never fuzzy.
func classifyPair(a, b contacts.ContactSummary) (MatchReason, bool) {
	nameMatch := a.GivenName == b.GivenName && a.FamilyName == b.FamilyName
	emailOverlap := sharesValue(a.Emails, b.Emails)
	phoneOverlap := sharesValue(a.Phones, b.Phones)

	switch {
	case nameMatch && (emailOverlap || phoneOverlap):
		return MatchNameAndContact, true
	case emailOverlap:
		return MatchEmail, true
	case phoneOverlap:
		return MatchPhone, true
	default:
		return "", false
	}
}

// sharesValue reports whether the two string lists have any exact value in
// common.
func sharesValue(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if seen[v] {
			return true
		}
	}
	return false
}
