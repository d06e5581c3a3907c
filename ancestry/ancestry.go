// Package ancestry holds the in-memory genealogical graph: entity types
// and the process-wide accumulating store that archive loads merge into.
//
// Entities are keyed by their stable public id. Appending an entity whose
// id is already present replaces the earlier one (last write wins); no
// field-level merging is performed. Enclosure and parent/child graphs are
// not checked for cycles.
package ancestry

import (
	"sync"

	"go.uber.org/zap"
)

// Ancestry is the shared sink that archive loads append into. All appends
// go through a single mutex, so independent archives may be loaded
// concurrently.
type Ancestry struct {
	mu     sync.Mutex
	logger *zap.SugaredLogger

	notes     map[string]*Note
	files     map[string]*File
	places    map[string]*Place
	people    map[string]*Person
	events    map[string]*Event
	sources   map[string]*Source
	citations map[string]*Citation
}

// Stats counts the entities currently in the graph.
type Stats struct {
	Notes     int `json:"notes"`
	Files     int `json:"files"`
	Places    int `json:"places"`
	People    int `json:"people"`
	Events    int `json:"events"`
	Sources   int `json:"sources"`
	Citations int `json:"citations"`
}

// New creates an empty ancestry graph.
func New(logger *zap.SugaredLogger) *Ancestry {
	return &Ancestry{
		logger:    logger.Named("ancestry"),
		notes:     make(map[string]*Note),
		files:     make(map[string]*File),
		places:    make(map[string]*Place),
		people:    make(map[string]*Person),
		events:    make(map[string]*Event),
		sources:   make(map[string]*Source),
		citations: make(map[string]*Citation),
	}
}

// AddNote appends a note, replacing any note with the same id.
func (a *Ancestry) AddNote(n *Note) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.warnCollision(a.notes[n.ID] != nil, "note", n.ID)
	a.notes[n.ID] = n
}

// AddFile appends a file, replacing any file with the same id.
func (a *Ancestry) AddFile(f *File) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.warnCollision(a.files[f.ID] != nil, "file", f.ID)
	a.files[f.ID] = f
}

// AddPlace appends a place, replacing any place with the same id.
func (a *Ancestry) AddPlace(p *Place) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.warnCollision(a.places[p.ID] != nil, "place", p.ID)
	a.places[p.ID] = p
}

// AddPerson appends a person, replacing any person with the same id.
func (a *Ancestry) AddPerson(p *Person) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.warnCollision(a.people[p.ID] != nil, "person", p.ID)
	a.people[p.ID] = p
}

// AddEvent appends an event, replacing any event with the same id.
func (a *Ancestry) AddEvent(e *Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.warnCollision(a.events[e.ID] != nil, "event", e.ID)
	a.events[e.ID] = e
}

// AddSource appends a source, replacing any source with the same id.
func (a *Ancestry) AddSource(s *Source) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.warnCollision(a.sources[s.ID] != nil, "source", s.ID)
	a.sources[s.ID] = s
}

// AddCitation appends a citation, replacing any citation with the same id.
func (a *Ancestry) AddCitation(c *Citation) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.warnCollision(a.citations[c.ID] != nil, "citation", c.ID)
	a.citations[c.ID] = c
}

// warnCollision logs duplicate public ids. The replacement itself is
// intentional last-write-wins behavior; the log makes it observable.
func (a *Ancestry) warnCollision(collided bool, kind, id string) {
	if collided {
		a.logger.Warnw("Duplicate public id - replacing earlier entity",
			"kind", kind,
			"entity_id", id)
	}
}

// Notes returns a snapshot of all notes keyed by public id.
func (a *Ancestry) Notes() map[string]*Note {
	a.mu.Lock()
	defer a.mu.Unlock()
	return copyMap(a.notes)
}

// Files returns a snapshot of all files keyed by public id.
func (a *Ancestry) Files() map[string]*File {
	a.mu.Lock()
	defer a.mu.Unlock()
	return copyMap(a.files)
}

// Places returns a snapshot of all places keyed by public id.
func (a *Ancestry) Places() map[string]*Place {
	a.mu.Lock()
	defer a.mu.Unlock()
	return copyMap(a.places)
}

// People returns a snapshot of all people keyed by public id.
func (a *Ancestry) People() map[string]*Person {
	a.mu.Lock()
	defer a.mu.Unlock()
	return copyMap(a.people)
}

// Events returns a snapshot of all events keyed by public id.
func (a *Ancestry) Events() map[string]*Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	return copyMap(a.events)
}

// Sources returns a snapshot of all sources keyed by public id.
func (a *Ancestry) Sources() map[string]*Source {
	a.mu.Lock()
	defer a.mu.Unlock()
	return copyMap(a.sources)
}

// Citations returns a snapshot of all citations keyed by public id.
func (a *Ancestry) Citations() map[string]*Citation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return copyMap(a.citations)
}

// Stats returns entity counts for the whole graph.
func (a *Ancestry) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Stats{
		Notes:     len(a.notes),
		Files:     len(a.files),
		Places:    len(a.places),
		People:    len(a.people),
		Events:    len(a.events),
		Sources:   len(a.sources),
		Citations: len(a.citations),
	}
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
