package mem

import "fmt"

// PagedCore provides the page bookkeeping shared by paged memory models.
type PagedCore struct {
	// PageSize specifies the length for newly allocated pages.
	PageSize uint

	// Limit specifies the number of addressable cells; any access at or
	// past it is an error. Zero means unlimited.
	Limit uint

	bases []uint
	sizes []uint
}

// LimitError indicates that a memory operation exceeded the Limit.
type LimitError struct {
	Addr  uint
	Op    string
	Limit uint
}

func (lim LimitError) Error() string {
	return fmt.Sprintf("cell limit %v exceeded by %v @%v", lim.Limit, lim.Op, lim.Addr)
}

func (m *PagedCore) findPage(addr uint) int {
	i, j := 0, len(m.bases)
	for i < j {
		h := int(uint(i+j)>>1) + 1
		if h < len(m.bases) && m.bases[h] <= addr {
			i = h
		} else {
			j = h - 1
		}
	}
	return i
}

func (m *PagedCore) allocPage(pageID int, addr uint) (base, size uint, isNew bool) {
	if pageID == len(m.bases) {
		base = addr / m.PageSize * m.PageSize
		size = m.PageSize
		if i := len(m.bases) - 1; i >= 0 {
			lastEnd := m.bases[i] + m.sizes[i]
			if base < lastEnd {
				size -= lastEnd - base
				base = lastEnd
			}
		}
		m.bases = append(m.bases, base)
		m.sizes = append(m.sizes, size)
		return base, size, true
	}

	base = m.bases[pageID]
	if addr < base {
		size = m.PageSize
		nextBase := base
		base = addr / m.PageSize * m.PageSize
		if gapSize := nextBase - base; size > gapSize {
			size = gapSize
		}
		m.bases = append(m.bases, 0)
		m.sizes = append(m.sizes, 0)
		copy(m.bases[pageID+1:], m.bases[pageID:])
		copy(m.sizes[pageID+1:], m.sizes[pageID:])
		m.bases[pageID] = base
		m.sizes[pageID] = size
		return base, size, true
	}

	return base, m.sizes[pageID], false
}

// checkLimit validates the half open range [addr, end).
func (m *PagedCore) checkLimit(addr, end uint, op string) error {
	if lim := m.Limit; lim != 0 && end > lim {
		return LimitError{Addr: addr, Op: op, Limit: lim}
	}
	return nil
}
