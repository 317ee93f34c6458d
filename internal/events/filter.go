package events

// FilterVerdict is what a filter decides about an event.
type FilterVerdict int

const (
	// FilterContinue passes the event on to the next filter and translation.
	FilterContinue FilterVerdict = iota
	// FilterTranslate means the filter filled in the event itself.
	FilterTranslate
	// FilterRemove drops the event.
	FilterRemove
)

func (v FilterVerdict) String() string {
	switch v {
	case FilterContinue:
		return "continue"
	case FilterTranslate:
		return "translate"
	case FilterRemove:
		return "remove"
	}
	return "unknown"
}

// FilterFunc inspects a native event before it is translated. ev is the
// neutral event being built; for global filters it is still a Nothing event.
type FilterFunc func(native any, ev *Event, data any) FilterVerdict

// FilterID identifies a registered filter.
type FilterID uint64

type filterEntry struct {
	id      FilterID
	fn      FilterFunc
	data    any
	removed bool
}

type filterList struct {
	entries []*filterEntry
}

func (l *filterList) add(id FilterID, fn FilterFunc, data any) {
	l.entries = append(l.entries, &filterEntry{id: id, fn: fn, data: data})
}

func (l *filterList) remove(id FilterID) bool {
	for i, e := range l.entries {
		if e.id == id {
			e.removed = true
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (l *filterList) len() int {
	return len(l.entries)
}

// run invokes the filters in registration order until one returns a verdict
// other than FilterContinue. Filters added while running wait for the next
// event; filters removed while running are skipped.
func (l *filterList) run(native any, ev *Event) FilterVerdict {
	if l == nil || len(l.entries) == 0 {
		return FilterContinue
	}
	snapshot := append([]*filterEntry(nil), l.entries...)
	for _, e := range snapshot {
		if e.removed {
			continue
		}
		if v := e.fn(native, ev, e.data); v != FilterContinue {
			return v
		}
	}
	return FilterContinue
}
