package events

import (
	"container/list"

	"github.com/bnema/gdkevents/internal/window"
)

// Retainer takes and drops strong window references.
type Retainer interface {
	Ref(h window.Handle)
	Unref(h window.Handle)
}

// Node is a position in the queue. It stays valid until the event it holds
// is popped or removed.
type Node struct {
	elem    *list.Element
	event   *Event
	pending bool
	// retained is the window referenced on behalf of this node.
	retained window.Handle
}

// Event returns the event stored at n.
func (n *Node) Event() *Event {
	return n.event
}

// Queue is the ordered list of events waiting to be dispatched. Queued
// events hold a strong reference on their window; pending nodes, reserved
// for an event still being translated, are skipped by Pop and Peek.
type Queue struct {
	l    list.List
	refs Retainer
}

// NewQueue creates an empty queue taking window references through refs.
func NewQueue(refs Retainer) *Queue {
	return &Queue{refs: refs}
}

func (q *Queue) retain(n *Node) {
	if n.pending || !n.retained.IsNone() || n.event.Window.IsNone() {
		return
	}
	n.retained = n.event.Window
	q.refs.Ref(n.retained)
}

func (q *Queue) release(n *Node) {
	if n.retained.IsNone() {
		return
	}
	q.refs.Unref(n.retained)
	n.retained = window.None
}

// Append adds ev at the tail.
func (q *Queue) Append(ev *Event) *Node {
	n := &Node{event: ev}
	n.elem = q.l.PushBack(n)
	q.retain(n)
	return n
}

// InsertAfter adds ev immediately after mark.
func (q *Queue) InsertAfter(mark *Node, ev *Event) *Node {
	if mark == nil || mark.elem == nil {
		return q.Append(ev)
	}
	n := &Node{event: ev}
	n.elem = q.l.InsertAfter(n, mark.elem)
	q.retain(n)
	return n
}

// InsertBefore adds ev immediately before mark.
func (q *Queue) InsertBefore(mark *Node, ev *Event) *Node {
	if mark == nil || mark.elem == nil {
		return q.Append(ev)
	}
	n := &Node{event: ev}
	n.elem = q.l.InsertBefore(n, mark.elem)
	q.retain(n)
	return n
}

// reserve appends a pending node for an event under translation.
func (q *Queue) reserve(ev *Event) *Node {
	n := &Node{event: ev, pending: true}
	n.elem = q.l.PushBack(n)
	return n
}

// commit makes a pending node visible and takes its window reference.
func (q *Queue) commit(n *Node) {
	if n.elem == nil {
		return
	}
	n.pending = false
	q.retain(n)
}

// Remove unlinks n. It returns false when n is no longer queued.
func (q *Queue) Remove(n *Node) bool {
	if n == nil || n.elem == nil {
		return false
	}
	q.l.Remove(n.elem)
	n.elem = nil
	q.release(n)
	return true
}

func (q *Queue) first() *list.Element {
	for e := q.l.Front(); e != nil; e = e.Next() {
		if !e.Value.(*Node).pending {
			return e
		}
	}
	return nil
}

// Pop removes and returns the first dispatchable event, or nil. The window
// reference moves to the caller, who drops it with Retainer.Unref once the
// event has been dispatched.
func (q *Queue) Pop() *Event {
	e := q.first()
	if e == nil {
		return nil
	}
	n := e.Value.(*Node)
	q.l.Remove(e)
	n.elem = nil
	n.retained = window.None
	return n.event
}

// Peek returns the first dispatchable event without removing it.
func (q *Queue) Peek() *Event {
	if e := q.first(); e != nil {
		return e.Value.(*Node).event
	}
	return nil
}

// Len counts dispatchable events.
func (q *Queue) Len() int {
	n := 0
	for e := q.l.Front(); e != nil; e = e.Next() {
		if !e.Value.(*Node).pending {
			n++
		}
	}
	return n
}

// Events returns the dispatchable events in order.
func (q *Queue) Events() []*Event {
	var out []*Event
	for e := q.l.Front(); e != nil; e = e.Next() {
		if n := e.Value.(*Node); !n.pending {
			out = append(out, n.event)
		}
	}
	return out
}
