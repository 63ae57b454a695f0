package details

import (
	"strings"

	"poolDetails/internal/model"
)

var poolSuffixes = []string{".poolv1.near", ".near"}

// NormalizePoolID strips a trailing .poolv1.near or .near from an account id.
func NormalizePoolID(poolAccountID string) string {
	for _, suffix := range poolSuffixes {
		if strings.HasSuffix(poolAccountID, suffix) {
			return strings.TrimSuffix(poolAccountID, suffix)
		}
	}
	return poolAccountID
}

// Lookup returns the raw entry for a pool by its full id, then by its
// normalized id. It returns nil when neither is cached.
func (s *Service) Lookup(poolAccountID string) model.PoolEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if entry := s.details[poolAccountID]; entry != nil {
		return entry
	}
	if entry := s.details[NormalizePoolID(poolAccountID)]; entry != nil {
		return entry
	}
	return nil
}

// Format returns the display record for a pool, or nil if it is unknown.
func (s *Service) Format(poolAccountID string) *model.PoolInfo {
	entry := s.Lookup(poolAccountID)
	if entry == nil {
		return nil
	}
	info := model.NewPoolInfo(entry)
	return &info
}
