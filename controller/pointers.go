package controller

import "github.com/go-gl/mathgl/mgl64"

// PointerState is one active contact.
type PointerState struct {
	ID           int
	Position     mgl64.Vec2
	LastPosition mgl64.Vec2
}

// Delta is the movement since the previous tick.
func (p PointerState) Delta() mgl64.Vec2 {
	return p.Position.Sub(p.LastPosition)
}

// Pointers tracks active contacts by id, in the order they went down.
type Pointers struct {
	byID  map[int]*PointerState
	order []int
}

func NewPointers() *Pointers {
	return &Pointers{
		byID: make(map[int]*PointerState),
	}
}

// Down starts tracking id, or moves it if it is already down.
func (p *Pointers) Down(id int, pos mgl64.Vec2) {
	if s, ok := p.byID[id]; ok {
		s.Position = pos
		return
	}
	p.byID[id] = &PointerState{ID: id, Position: pos, LastPosition: pos}
	p.order = append(p.order, id)
}

// Move updates an active pointer. It reports false for unknown ids.
func (p *Pointers) Move(id int, pos mgl64.Vec2) bool {
	s, ok := p.byID[id]
	if !ok {
		return false
	}
	s.Position = pos
	return true
}

// Up stops tracking id. It reports false for unknown ids.
func (p *Pointers) Up(id int) bool {
	if _, ok := p.byID[id]; !ok {
		return false
	}
	delete(p.byID, id)
	for i, v := range p.order {
		if v == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return true
}

func (p *Pointers) Get(id int) (PointerState, bool) {
	s, ok := p.byID[id]
	if !ok {
		return PointerState{}, false
	}
	return *s, true
}

func (p *Pointers) Len() int {
	return len(p.order)
}

// Snapshot copies the active pointers in arrival order.
func (p *Pointers) Snapshot() []PointerState {
	out := make([]PointerState, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, *p.byID[id])
	}
	return out
}

// Commit marks the current positions as seen.
func (p *Pointers) Commit() {
	for _, s := range p.byID {
		s.LastPosition = s.Position
	}
}

// Clear drops every pointer.
func (p *Pointers) Clear() {
	clear(p.byID)
	p.order = p.order[:0]
}
