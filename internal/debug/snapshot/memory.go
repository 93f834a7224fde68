package snapshot

import (
	"fmt"
	"sort"

	"github.com/dshills/rsinspect/internal/debug/value"
)

type region struct {
	addr uint64
	data []byte
}

func (r region) end() uint64 {
	return r.addr + uint64(len(r.data))
}

// memory is a sparse address space made of non-overlapping sorted regions.
type memory struct {
	regions []region
}

// write maps data at addr, merging with any overlapping or adjacent region.
func (m *memory) write(addr uint64, data []byte) {
	if len(data) == 0 {
		return
	}
	lo, hi := addr, addr+uint64(len(data))

	kept := m.regions[:0:0]
	var merged []region
	for _, r := range m.regions {
		if r.addr <= hi && r.end() >= lo {
			merged = append(merged, r)
			lo = min(lo, r.addr)
			hi = max(hi, r.end())
			continue
		}
		kept = append(kept, r)
	}

	buf := make([]byte, hi-lo)
	for _, r := range merged {
		copy(buf[r.addr-lo:], r.data)
	}
	copy(buf[addr-lo:], data)

	kept = append(kept, region{addr: lo, data: buf})
	sort.Slice(kept, func(i, j int) bool { return kept[i].addr < kept[j].addr })
	m.regions = kept
}

// read returns a copy of size bytes at addr. The whole range must be mapped.
func (m *memory) read(addr, size uint64) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	end := addr + size
	if end < addr {
		return nil, fmt.Errorf("read %d bytes at %#x: %w", size, addr, value.ErrUnmapped)
	}

	i := sort.Search(len(m.regions), func(i int) bool { return m.regions[i].end() > addr })
	if i == len(m.regions) || m.regions[i].addr > addr || m.regions[i].end() < end {
		return nil, fmt.Errorf("read %d bytes at %#x: %w", size, addr, value.ErrUnmapped)
	}

	r := m.regions[i]
	out := make([]byte, size)
	copy(out, r.data[addr-r.addr:])
	return out, nil
}
