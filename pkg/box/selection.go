package box

import "github.com/matzehuels/grapher/pkg/surface"

// Selection answers whether an element id is selected. The presentation
// layer owns the selection; the box model only reads it during Update.
type Selection interface {
	Selected(id string) bool
}

// SelectionSet is a Selection backed by a set of ids.
type SelectionSet map[string]struct{}

// NewSelectionSet returns a set containing ids.
func NewSelectionSet(ids ...string) SelectionSet {
	s := make(SelectionSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Selected implements Selection.
func (s SelectionSet) Selected(id string) bool {
	_, ok := s[id]
	return ok
}

const selectClass = "select"

// applySelection toggles the select class on el for id. A nil selection or
// an empty id leaves the class untouched so Select/Deselect calls survive.
func applySelection(el surface.Element, id string, sel Selection) {
	if el == nil || sel == nil || id == "" {
		return
	}
	if sel.Selected(id) {
		surface.AddClass(el, selectClass)
	} else {
		surface.RemoveClass(el, selectClass)
	}
}

func selectElement(el surface.Element) []surface.Element {
	if el == nil {
		return nil
	}
	surface.AddClass(el, selectClass)
	return []surface.Element{el}
}

func deselectElement(el surface.Element) {
	if el != nil {
		surface.RemoveClass(el, selectClass)
	}
}
