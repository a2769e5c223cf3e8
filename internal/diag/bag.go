package diag

import (
	"sort"
)

type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag holding at most max diagnostics; max <= 0 means unlimited.
func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 64 {
		capHint = 16
	}
	return &Bag{
		items: make([]Diagnostic, 0, capHint),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge объединяет диагностики из другого Bag.
// Увеличивает max, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if b.max > 0 && newTotal > b.max {
		b.max = newTotal
	}
	b.items = append(b.items, other.items...)
}

// Sort сортирует диагностики по: start, end, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.Start.Offset != dj.Primary.Start.Offset {
			return di.Primary.Start.Offset < dj.Primary.Start.Offset
		}
		if di.Primary.End.Offset != dj.Primary.End.Offset {
			return di.Primary.End.Offset < dj.Primary.End.Offset
		}
		// по severity (по убыванию: Error > Warning > Info)
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// простая дедупликация (по Code+Primary+Message)
func (b *Bag) Dedup() {
	seen := make(map[dedupKey]struct{}, len(b.items))
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := keyOf(d.Code, d.Severity, d.Primary, d.Message)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		newitems = append(newitems, d)
	}
	b.items = newitems
}
