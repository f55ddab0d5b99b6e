package compact

import (
	"fmt"
	"strings"
)

// Stats returns a point-in-time description of the map's representation.
// Cheap in every state; intended for diagnostics and tests.
func (m *Map[K, V]) Stats() *MapStats {
	return &MapStats{
		State:           m.state.String(),
		Size:            m.Size(),
		CompactSize:     m.compactSize,
		Ordering:        m.ordering.String(),
		Strategy:        m.strategy.String(),
		Delegate:        m.provider.Kind(),
		CaseInsensitive: m.rules.CaseInsensitive,
		Promotions:      m.promotions,
		Demotions:       m.demotions,
	}
}

// MapStats is Map representation statistics.
//
// Warning: map statistics are intended to be used for diagnostic
// purposes, not for production code. This means that breaking changes
// may be introduced into this struct even between minor releases.
type MapStats struct {
	// State is the active representation: empty, single-value,
	// single-entry, compact, or delegate.
	State string
	// Size is the number of entries stored in the map.
	Size int
	// CompactSize is the configured promotion threshold.
	CompactSize int
	// Ordering is the configured ordering policy.
	Ordering string
	// Strategy is the configured iterator strategy.
	Strategy string
	// Delegate is the kind of the configured delegate provider,
	// whether or not the delegate state is currently active.
	Delegate string
	// CaseInsensitive reports the key comparison rule.
	CaseInsensitive bool
	// Promotions is the number of times the map entered the delegate
	// state.
	Promotions uint32
	// Demotions is the number of times the map left the delegate state
	// back to the compact array.
	Demotions uint32
}

// ToString returns string representation of map stats.
func (s *MapStats) ToString() string {
	var sb strings.Builder
	sb.WriteString("MapStats{\n")
	sb.WriteString(fmt.Sprintf("State:           %s\n", s.State))
	sb.WriteString(fmt.Sprintf("Size:            %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("CompactSize:     %d\n", s.CompactSize))
	sb.WriteString(fmt.Sprintf("Ordering:        %s\n", s.Ordering))
	sb.WriteString(fmt.Sprintf("Strategy:        %s\n", s.Strategy))
	sb.WriteString(fmt.Sprintf("Delegate:        %s\n", s.Delegate))
	sb.WriteString(fmt.Sprintf("CaseInsensitive: %t\n", s.CaseInsensitive))
	sb.WriteString(fmt.Sprintf("Promotions:      %d\n", s.Promotions))
	sb.WriteString(fmt.Sprintf("Demotions:       %d\n", s.Demotions))
	sb.WriteString("}\n")
	return sb.String()
}
