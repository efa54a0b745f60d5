package domain

import "fmt"

// FlagSelection is an ordered set of flags to set and a disjoint ordered set to clear.
type FlagSelection struct {
	Set   []AccountFlag
	Clear []AccountFlag
}

// NewFlagSelection deduplicates each list (first occurrence wins) and rejects unknown
// flags or a flag named in both lists.
func NewFlagSelection(set, clear []AccountFlag) (FlagSelection, error) {
	s, err := dedupeFlags(set)
	if err != nil {
		return FlagSelection{}, err
	}
	c, err := dedupeFlags(clear)
	if err != nil {
		return FlagSelection{}, err
	}
	inSet := make(map[AccountFlag]bool, len(s))
	for _, f := range s {
		inSet[f] = true
	}
	for _, f := range c {
		if inSet[f] {
			return FlagSelection{}, fmt.Errorf("flag %s selected to both set and clear", f)
		}
	}
	return FlagSelection{Set: s, Clear: c}, nil
}

// Empty reports whether nothing is selected.
func (s FlagSelection) Empty() bool { return len(s.Set) == 0 && len(s.Clear) == 0 }

// Contains reports whether f is selected to be set.
func (s FlagSelection) Contains(f AccountFlag) bool {
	for _, v := range s.Set {
		if v == f {
			return true
		}
	}
	return false
}

func dedupeFlags(in []AccountFlag) ([]AccountFlag, error) {
	seen := make(map[AccountFlag]bool, len(in))
	out := make([]AccountFlag, 0, len(in))
	for _, f := range in {
		if !f.Valid() {
			return nil, fmt.Errorf("unknown account flag code %d", uint32(f))
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}
