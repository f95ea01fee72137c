package mem

// DefaultCellsPageSize provides a default for Cells.PageSize.
const DefaultCellsPageSize = 256

// Cells implements a paged memory of signed 32-bit cells, with a bump
// allocator handing out fresh zeroed regions. Regions are never freed.
type Cells struct {
	PagedCore
	pages [][]int32
	brk   uint
}

// Size returns an address one position higher than the last position in the
// last page allocated so far.
func (m *Cells) Size() uint {
	if i := len(m.bases) - 1; i >= 0 {
		return m.bases[i] + uint(len(m.pages[i]))
	}
	return 0
}

// Brk returns the next address that Alloc will hand out.
func (m *Cells) Brk() uint { return m.brk }

// Alloc reserves n zeroed cells past any prior allocation, returning the
// address of the first one. Returns an error if Limit would be exceeded, in
// which case nothing is reserved.
func (m *Cells) Alloc(n uint) (uint, error) {
	addr := m.brk
	if err := m.checkLimit(addr, addr+n, "alloc"); err != nil {
		return 0, err
	}
	m.brk += n
	if n > 0 {
		// touch the last cell so that the region's pages exist
		if err := m.Stor(addr+n-1, 0); err != nil {
			m.brk = addr
			return 0, err
		}
	}
	return addr, nil
}

// Load returns a single value from the given address.
// Unallocated pages are left unallocated, resulting in implicit 0 values.
func (m *Cells) Load(addr uint) (int32, error) {
	if err := m.checkLimit(addr, addr+1, "load"); err != nil {
		return 0, err
	}

	if m.PageSize == 0 || len(m.pages) == 0 {
		return 0, nil
	}

	pageID := m.findPage(addr)
	base := m.bases[pageID]
	page := m.pages[pageID]
	if i := int(addr) - int(base); 0 <= i && i < len(page) {
		return page[i], nil
	}

	return 0, nil
}

// LoadInto reads len(buf) cells from memory starting at addr.
// Skips any unallocated pages, zeroing the result buffer where encountered.
// No partial load is done when Limit would be exceeded.
func (m *Cells) LoadInto(addr uint, buf []int32) error {
	if len(buf) == 0 {
		return nil
	}

	end := addr + uint(len(buf))
	if err := m.checkLimit(addr, end, "load"); err != nil {
		return err
	}

	for pageID := m.findPage(addr); addr < end && pageID < len(m.bases); pageID++ {
		base := m.bases[pageID]
		if base > end {
			break
		}

		if skip := int(base) - int(addr); skip > 0 {
			if skip >= len(buf) {
				break
			}
			addr += uint(skip)
			for i := range buf[:skip] {
				buf[i] = 0
			}
			buf = buf[skip:]
		}

		page := m.pages[pageID]
		if skip := int(addr) - int(base); skip > 0 {
			if skip >= len(page) {
				continue
			}
			page = page[skip:]
		}

		n := copy(buf, page)
		buf = buf[n:]
		addr += uint(n)
	}

	for i := range buf {
		buf[i] = 0
	}

	return nil
}

// Stor stores values at addr, allocating pages if necessary.
// No partial store is done when Limit would be exceeded.
func (m *Cells) Stor(addr uint, values ...int32) error {
	if len(values) == 0 {
		return nil
	}

	end := addr + uint(len(values))
	if err := m.checkLimit(addr, end, "stor"); err != nil {
		return err
	}

	if m.PageSize == 0 {
		m.PageSize = DefaultCellsPageSize
	}

	for pageID := m.findPage(addr); addr < end; pageID++ {
		base, size, page := m.allocPage(pageID, addr)
		if skip := addr - base; skip > 0 {
			if skip >= size {
				continue
			}
			page = page[skip:]
		}
		n := copy(page, values)
		values = values[n:]
		addr += uint(n)
	}

	return nil
}

func (m *Cells) allocPage(pageID int, addr uint) (base, size uint, page []int32) {
	base, size, isNew := m.PagedCore.allocPage(pageID, addr)
	if isNew {
		page = make([]int32, size)
		if pageID == len(m.bases)-1 && pageID == len(m.pages) {
			m.pages = append(m.pages, page)
		} else {
			m.pages = append(m.pages, nil)
			copy(m.pages[pageID+1:], m.pages[pageID:])
			m.pages[pageID] = page
		}
	} else {
		page = m.pages[pageID]
	}
	return base, size, page
}
