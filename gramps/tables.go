package gramps

import (
	"github.com/bartfeenstra/betty-sub005/ancestry"
	"github.com/bartfeenstra/betty-sub005/errors"
)

// fileRecord is the two-phase intermediate for file objects: citations are
// loaded after files, so their handles are collected raw and resolved once
// the citation table is complete.
type fileRecord struct {
	file            *ancestry.File
	citationHandles []string
}

// placeRecord is the two-phase intermediate for places: enclosure edges
// are same-kind references that may point forward within the document.
type placeRecord struct {
	place      *ancestry.Place
	enclosedBy []string
}

// tables maps archive-local handles to built entities, one sub-table per
// entity kind. Tables are populated in the loader's fixed phase order and
// are strictly archive-scoped: handles never leak between archives.
type tables struct {
	notes     map[string]*ancestry.Note
	files     map[string]*fileRecord
	sources   map[string]*ancestry.Source
	citations map[string]*ancestry.Citation
	places    map[string]*placeRecord
	events    map[string]*ancestry.Event
	people    map[string]*ancestry.Person
}

func newTables() *tables {
	return &tables{
		notes:     make(map[string]*ancestry.Note),
		files:     make(map[string]*fileRecord),
		sources:   make(map[string]*ancestry.Source),
		citations: make(map[string]*ancestry.Citation),
		places:    make(map[string]*placeRecord),
		events:    make(map[string]*ancestry.Event),
		people:    make(map[string]*ancestry.Person),
	}
}

// Every lookup below is fatal on a miss: a handle that does not resolve
// means the document declared a reference to an entity that was never
// declared, which signals a corrupt or truncated archive.

func (t *tables) note(handle string) (*ancestry.Note, error) {
	n, ok := t.notes[handle]
	if !ok {
		return nil, errors.UnresolvableHandlef("note %q", handle)
	}
	return n, nil
}

func (t *tables) file(handle string) (*ancestry.File, error) {
	record, ok := t.files[handle]
	if !ok {
		return nil, errors.UnresolvableHandlef("file object %q", handle)
	}
	return record.file, nil
}

func (t *tables) source(handle string) (*ancestry.Source, error) {
	s, ok := t.sources[handle]
	if !ok {
		return nil, errors.UnresolvableHandlef("source %q", handle)
	}
	return s, nil
}

func (t *tables) citation(handle string) (*ancestry.Citation, error) {
	c, ok := t.citations[handle]
	if !ok {
		return nil, errors.UnresolvableHandlef("citation %q", handle)
	}
	return c, nil
}

func (t *tables) place(handle string) (*ancestry.Place, error) {
	record, ok := t.places[handle]
	if !ok {
		return nil, errors.UnresolvableHandlef("place %q", handle)
	}
	return record.place, nil
}

func (t *tables) event(handle string) (*ancestry.Event, error) {
	e, ok := t.events[handle]
	if !ok {
		return nil, errors.UnresolvableHandlef("event %q", handle)
	}
	return e, nil
}

func (t *tables) person(handle string) (*ancestry.Person, error) {
	p, ok := t.people[handle]
	if !ok {
		return nil, errors.UnresolvableHandlef("person %q", handle)
	}
	return p, nil
}
