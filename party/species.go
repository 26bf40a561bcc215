package party

import (
	"github.com/fireredbridge/corebridge/memory"
	"github.com/fireredbridge/corebridge/schema"
)

// speciesInfo is a cached species->{types, ability} lookup. Species
// data is ROM-static (never changes for the process lifetime), so once
// resolved an entry is never invalidated.
type speciesInfo struct {
	Types   [2]int
	Ability [2]int
}

// SpeciesCache memoizes speciesInfo lookups across calls to
// ResolveSpeciesInfo. The zero value is ready to use.
type SpeciesCache struct {
	entries map[uint16]speciesInfo
}

// NewSpeciesCache returns an empty cache.
func NewSpeciesCache() *SpeciesCache {
	return &SpeciesCache{entries: make(map[uint16]speciesInfo)}
}

// ResolveSpeciesInfo fills in Types and Ability for every member,
// reading each not-yet-cached unique species' two 2-byte fields in one
// batched range-read call.
func ResolveSpeciesInfo(client *memory.Client, cat *schema.Catalog, cache *SpeciesCache, members []Pokemon) error {
	var missing []uint16
	seen := make(map[uint16]bool)
	for _, m := range members {
		if m.Species == 0 || seen[m.Species] {
			continue
		}
		seen[m.Species] = true
		if _, ok := cache.entries[m.Species]; !ok {
			missing = append(missing, m.Species)
		}
	}

	if len(missing) > 0 {
		if cache.entries == nil {
			cache.entries = make(map[uint16]speciesInfo)
		}
		ranges := make([]memory.Range, 0, len(missing)*2)
		for _, sp := range missing {
			base := cat.SpeciesInfoTableAddr + schema.Address(int(sp)*schema.SpeciesInfoEntrySize)
			ranges = append(ranges,
				memory.Range{Addr: base + schema.SpeciesInfoTypesOffset, Len: 2},
				memory.Range{Addr: base + schema.SpeciesInfoAbilitiesOffset, Len: 2},
			)
		}
		segments, err := client.ReadRanges(ranges)
		if err != nil {
			return err
		}
		for i, sp := range missing {
			typesSeg := segments[i*2]
			abilitiesSeg := segments[i*2+1]
			info := speciesInfo{}
			if len(typesSeg) >= 2 {
				info.Types = [2]int{int(typesSeg[0]), int(typesSeg[1])}
			}
			if len(abilitiesSeg) >= 2 {
				info.Ability = [2]int{int(abilitiesSeg[0]), int(abilitiesSeg[1])}
			}
			cache.entries[sp] = info
		}
	}

	for i := range members {
		info, ok := cache.entries[members[i].Species]
		if !ok {
			continue
		}
		members[i].Types = info.Types
		if members[i].AbilitySlot < len(info.Ability) {
			members[i].Ability = info.Ability[members[i].AbilitySlot]
		}
	}
	return nil
}
