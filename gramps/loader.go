// Package gramps loads Gramps XML archives into the ancestry graph.
//
// An archive is an XML document, optionally gzip-compressed or wrapped in
// a gzip+tar bundle. Loading walks the document through a fixed dependency
// order, resolving every archive-local handle exactly once, and appends
// the fully linked entities to the shared ancestry only after all phases
// succeed, so a failed archive contributes nothing to the graph.
package gramps

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bartfeenstra/betty-sub005/ancestry"
	"github.com/bartfeenstra/betty-sub005/errors"
)

// privacyAttributeType is the vendor-prefixed attribute carrying an
// explicit privacy preference.
const privacyAttributeType = "betty:privacy"

// Loader loads Gramps archives into one ancestry graph. Handle tables are
// archive-scoped, so independent archives may be loaded concurrently; the
// ancestry serializes appends behind its own lock.
type Loader struct {
	ancestry *ancestry.Ancestry
	logger   *zap.SugaredLogger
}

// NewLoader creates an archive loader appending into the given ancestry.
func NewLoader(a *ancestry.Ancestry, logger *zap.SugaredLogger) *Loader {
	return &Loader{
		ancestry: a,
		logger:   logger.Named("gramps"),
	}
}

// LoadPath loads one archive file. Relative media paths inside the
// archive are resolved against the file's directory.
func (l *Loader) LoadPath(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read archive %s", path)
	}
	if err := l.LoadBytes(data, filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "failed to load archive %s", path)
	}
	return nil
}

// LoadAll loads several independent archives concurrently. A failing
// archive does not roll back archives that already committed; all
// failures are combined into the returned error.
func (l *Loader) LoadAll(paths []string) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var combined error

	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			if err := l.LoadPath(path); err != nil {
				mu.Lock()
				combined = errors.CombineErrors(combined, err)
				mu.Unlock()
			}
		}(path)
	}
	wg.Wait()
	return combined
}

// LoadBytes detects the archive's container format, parses the document
// and loads it. Media paths are resolved against baseDir.
func (l *Loader) LoadBytes(data []byte, baseDir string) error {
	doc, err := parseContainer(data)
	if err != nil {
		return err
	}
	return l.loadDocument(doc, baseDir)
}

// loadDocument walks a parsed document through the fixed phase order.
// Later phases assume earlier tables are complete; place enclosure and the
// file↔citation join are same-kind or reversed references and get a
// second linking pass instead.
func (l *Loader) loadDocument(doc *document, baseDir string) error {
	loadID := uuid.NewString()[:8]
	log := l.logger.With("load_id", loadID)
	start := time.Now()

	t := newTables()

	l.loadNotes(doc, t)
	if err := l.collectFiles(doc, t, baseDir, log); err != nil {
		return err
	}
	l.loadRepositories(doc, t)
	if err := l.loadSources(doc, t, log); err != nil {
		return err
	}
	if err := l.loadCitations(doc, t, log); err != nil {
		return err
	}
	if err := l.joinFileCitations(t); err != nil {
		return err
	}
	if err := l.loadPlaces(doc, t); err != nil {
		return err
	}
	if err := l.loadEvents(doc, t, log); err != nil {
		return err
	}
	if err := l.loadPeople(doc, t, log); err != nil {
		return err
	}
	if err := l.loadFamilies(doc, t); err != nil {
		return err
	}

	// Every phase succeeded; only now does the archive touch the graph
	l.commit(t)

	log.Infow("Loaded archive",
		"people", len(t.people),
		"places", len(t.places),
		"events", len(t.events),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (l *Loader) loadNotes(doc *document, t *tables) {
	for _, el := range doc.Notes {
		t.notes[el.Handle] = &ancestry.Note{
			ID:   el.ID,
			Text: el.Text,
		}
	}
}

// collectFiles is phase one of the file↔citation join: files are built
// with their raw citation handles, which resolve only after citations are
// loaded.
func (l *Loader) collectFiles(doc *document, t *tables, baseDir string, log *zap.SugaredLogger) error {
	for _, el := range doc.Objects {
		file := &ancestry.File{
			ID:          el.ID,
			Path:        resolvePath(el.File.Src, baseDir),
			MediaType:   el.File.MIME,
			Description: el.File.Description,
			Private:     l.privacy(el.Attributes, "file", el.ID, log),
		}
		for _, ref := range el.NoteRefs {
			note, err := t.note(ref.HLink)
			if err != nil {
				return errors.Wrapf(err, "file object %s", el.ID)
			}
			file.Notes = append(file.Notes, note)
		}
		t.files[el.Handle] = &fileRecord{
			file:            file,
			citationHandles: citationHandles(el.CitationRefs),
		}
	}
	return nil
}

// loadRepositories models repositories as sources with no author or
// publisher; they share the source handle table so reporef resolution is
// a plain backward lookup.
func (l *Loader) loadRepositories(doc *document, t *tables) {
	for _, el := range doc.Repositories {
		t.sources[el.Handle] = &ancestry.Source{
			ID:    el.ID,
			Name:  el.Name,
			Links: links(el.URLs),
		}
	}
}

func (l *Loader) loadSources(doc *document, t *tables, log *zap.SugaredLogger) error {
	for _, el := range doc.Sources {
		source := &ancestry.Source{
			ID:        el.ID,
			Name:      el.Title,
			Author:    el.Author,
			Publisher: el.PubInfo,
			Private:   l.privacy(el.Attributes, "source", el.ID, log),
		}
		if el.RepoRef != nil {
			repository, err := t.source(el.RepoRef.HLink)
			if err != nil {
				return errors.Wrapf(err, "source %s", el.ID)
			}
			source.ContainedBy = repository
		}
		for _, ref := range el.ObjRefs {
			file, err := t.file(ref.HLink)
			if err != nil {
				return errors.Wrapf(err, "source %s", el.ID)
			}
			source.Files = append(source.Files, file)
		}
		t.sources[el.Handle] = source
	}
	return nil
}

func (l *Loader) loadCitations(doc *document, t *tables, log *zap.SugaredLogger) error {
	for _, el := range doc.Citations {
		if el.SourceRef == nil {
			return errors.UnresolvableHandlef("citation %s has no source reference", el.ID)
		}
		source, err := t.source(el.SourceRef.HLink)
		if err != nil {
			return errors.Wrapf(err, "citation %s", el.ID)
		}
		citation := &ancestry.Citation{
			ID:       el.ID,
			Source:   source,
			Date:     loadDate(&el.dateShape),
			Location: el.Page,
			Private:  l.privacy(el.Attributes, "citation", el.ID, log),
		}
		for _, ref := range el.ObjRefs {
			file, err := t.file(ref.HLink)
			if err != nil {
				return errors.Wrapf(err, "citation %s", el.ID)
			}
			citation.Files = append(citation.Files, file)
		}
		t.citations[el.Handle] = citation
	}
	return nil
}

// joinFileCitations is phase two of the file↔citation join.
func (l *Loader) joinFileCitations(t *tables) error {
	for _, record := range t.files {
		for _, handle := range record.citationHandles {
			citation, err := t.citation(handle)
			if err != nil {
				return errors.Wrapf(err, "file %s", record.file.ID)
			}
			record.file.Citations = append(record.file.Citations, citation)
		}
	}
	return nil
}

// loadPlaces builds every place before resolving any enclosure edge:
// placeref targets may be declared later in the same document.
func (l *Loader) loadPlaces(doc *document, t *tables) error {
	for _, el := range doc.Places {
		place := &ancestry.Place{
			ID:          el.ID,
			Coordinates: coordinates(el.Coord),
			Links:       links(el.URLs),
		}
		for _, nameEl := range el.Names {
			place.Names = append(place.Names, ancestry.PlaceName{
				Name:   nameEl.Value,
				Locale: nameEl.Lang,
				Date:   loadDate(&nameEl.dateShape),
			})
		}
		record := &placeRecord{place: place}
		for _, ref := range el.PlaceRefs {
			record.enclosedBy = append(record.enclosedBy, ref.HLink)
		}
		t.places[el.Handle] = record
	}

	// Second pass: the table is complete, enclosure can resolve both
	// backward and forward references
	for _, record := range t.places {
		for _, handle := range record.enclosedBy {
			enclosing, err := t.place(handle)
			if err != nil {
				return errors.Wrapf(err, "place %s", record.place.ID)
			}
			record.place.EnclosedBy = append(record.place.EnclosedBy, enclosing)
		}
	}
	return nil
}

func (l *Loader) loadEvents(doc *document, t *tables, log *zap.SugaredLogger) error {
	for _, el := range doc.Events {
		eventType, known := ancestry.EventTypeForLabel(el.Type)
		if !known {
			log.Warnw("Unknown event type - loading with catch-all type",
				"event_id", el.ID,
				"type", el.Type)
		}
		event := &ancestry.Event{
			ID:          el.ID,
			Type:        eventType,
			Date:        loadDate(&el.dateShape),
			Description: el.Description,
			Private:     l.privacy(el.Attributes, "event", el.ID, log),
		}
		if el.PlaceRef != nil {
			place, err := t.place(el.PlaceRef.HLink)
			if err != nil {
				return errors.Wrapf(err, "event %s", el.ID)
			}
			event.Place = place
		}
		for _, ref := range el.ObjRefs {
			file, err := t.file(ref.HLink)
			if err != nil {
				return errors.Wrapf(err, "event %s", el.ID)
			}
			event.Files = append(event.Files, file)
		}
		for _, ref := range el.CitationRefs {
			citation, err := t.citation(ref.HLink)
			if err != nil {
				return errors.Wrapf(err, "event %s", el.ID)
			}
			event.Citations = append(event.Citations, citation)
		}
		t.events[el.Handle] = event
	}
	return nil
}

func (l *Loader) loadPeople(doc *document, t *tables, log *zap.SugaredLogger) error {
	for _, el := range doc.People {
		person := &ancestry.Person{
			ID:      el.ID,
			Names:   personNames(&el),
			Links:   links(el.URLs),
			Private: l.privacy(el.Attributes, "person", el.ID, log),
		}
		for _, ref := range el.EventRefs {
			event, err := t.event(ref.HLink)
			if err != nil {
				return errors.Wrapf(err, "person %s", el.ID)
			}
			attend(person, event, ancestry.RoleForGrampsName(ref.Role))
		}
		for _, ref := range el.CitationRefs {
			citation, err := t.citation(ref.HLink)
			if err != nil {
				return errors.Wrapf(err, "person %s", el.ID)
			}
			person.Citations = append(person.Citations, citation)
		}
		for _, ref := range el.ObjRefs {
			file, err := t.file(ref.HLink)
			if err != nil {
				return errors.Wrapf(err, "person %s", el.ID)
			}
			person.Files = append(person.Files, file)
		}
		t.people[el.Handle] = person
	}
	return nil
}

// loadFamilies is a post-pass over already-built people: families are not
// persisted as entities, each family element only wires parent/child
// edges (every parent to every child, on both ends) and attributes
// family-scoped events to the parents.
func (l *Loader) loadFamilies(doc *document, t *tables) error {
	for _, el := range doc.Families {
		var parents []*ancestry.Person
		for _, ref := range parentRefs(&el) {
			parent, err := t.person(ref.HLink)
			if err != nil {
				return errors.Wrap(err, "family")
			}
			parents = append(parents, parent)
		}
		for _, ref := range el.ChildRefs {
			child, err := t.person(ref.HLink)
			if err != nil {
				return errors.Wrap(err, "family")
			}
			for _, parent := range parents {
				parent.Children = append(parent.Children, child)
				child.Parents = append(child.Parents, parent)
			}
		}
		for _, ref := range el.EventRefs {
			event, err := t.event(ref.HLink)
			if err != nil {
				return errors.Wrap(err, "family")
			}
			role := ancestry.RoleForGrampsName(ref.Role)
			for _, parent := range parents {
				attend(parent, event, role)
			}
		}
	}
	return nil
}

// commit appends every buffered entity to the shared ancestry.
func (l *Loader) commit(t *tables) {
	for _, note := range t.notes {
		l.ancestry.AddNote(note)
	}
	for _, record := range t.files {
		l.ancestry.AddFile(record.file)
	}
	for _, source := range t.sources {
		l.ancestry.AddSource(source)
	}
	for _, citation := range t.citations {
		l.ancestry.AddCitation(citation)
	}
	for _, record := range t.places {
		l.ancestry.AddPlace(record.place)
	}
	for _, event := range t.events {
		l.ancestry.AddEvent(event)
	}
	for _, person := range t.people {
		l.ancestry.AddPerson(person)
	}
}

// privacy extracts the vendor-prefixed privacy attribute. Unrecognized
// values leave the flag unset with a warning; loading never aborts here.
func (l *Loader) privacy(attrs []attributeElement, kind, id string, log *zap.SugaredLogger) ancestry.Privacy {
	for _, attr := range attrs {
		if attr.Type != privacyAttributeType {
			continue
		}
		switch attr.Value {
		case "private":
			return ancestry.PrivacyPrivate
		case "public":
			return ancestry.PrivacyPublic
		default:
			log.Warnw("Unknown privacy value - leaving privacy unset",
				"kind", kind,
				"entity_id", id,
				"value", attr.Value)
			return ancestry.PrivacyUnset
		}
	}
	return ancestry.PrivacyUnset
}

// attend records a person's presence at an event under a role, on both
// ends of the association.
func attend(person *ancestry.Person, event *ancestry.Event, role ancestry.Role) {
	presence := &ancestry.Presence{
		Role:   role,
		Person: person,
		Event:  event,
	}
	person.Presences = append(person.Presences, presence)
	event.Presences = append(event.Presences, presence)
}

// personNames flattens name elements into person names, one per surname
// (or one with only the individual part). Non-alternative names sort
// ahead of alternatives so the primary name is always first.
func personNames(el *personElement) []ancestry.PersonName {
	var primary, alternative []ancestry.PersonName
	for _, nameEl := range el.Names {
		individual := strings.TrimSpace(nameEl.First)
		nameIsAlternative := nameEl.Alt == "1"

		if len(nameEl.Surnames) == 0 {
			if individual == "" {
				// A name with neither part is tolerated but carries nothing
				continue
			}
			name := ancestry.PersonName{Individual: individual}
			if nameIsAlternative {
				alternative = append(alternative, name)
			} else {
				primary = append(primary, name)
			}
			continue
		}

		for _, surname := range nameEl.Surnames {
			affiliation := strings.TrimSpace(surname.Value)
			if surname.Prefix != "" {
				affiliation = surname.Prefix + " " + affiliation
			}
			name := ancestry.PersonName{
				Individual:  individual,
				Affiliation: affiliation,
			}
			if nameIsAlternative || surname.Prim == "0" {
				alternative = append(alternative, name)
			} else {
				primary = append(primary, name)
			}
		}
	}
	return append(primary, alternative...)
}

func parentRefs(el *familyElement) []refElement {
	var refs []refElement
	if el.Father != nil {
		refs = append(refs, *el.Father)
	}
	if el.Mother != nil {
		refs = append(refs, *el.Mother)
	}
	return refs
}

func citationHandles(refs []refElement) []string {
	handles := make([]string, 0, len(refs))
	for _, ref := range refs {
		handles = append(handles, ref.HLink)
	}
	return handles
}

func links(urls []urlElement) []ancestry.Link {
	var out []ancestry.Link
	for _, url := range urls {
		out = append(out, ancestry.Link{
			URL:          url.Href,
			Label:        url.Description,
			Relationship: url.Type,
		})
	}
	return out
}

// coordinates parses the optional coord element; malformed values degrade
// silently to no coordinates.
func coordinates(el *coordElement) *ancestry.Coordinates {
	if el == nil {
		return nil
	}
	latitude, err := strconv.ParseFloat(el.Lat, 64)
	if err != nil {
		return nil
	}
	longitude, err := strconv.ParseFloat(el.Long, 64)
	if err != nil {
		return nil
	}
	return &ancestry.Coordinates{Latitude: latitude, Longitude: longitude}
}

// resolvePath resolves a media path against the archive's base directory
// at load time. Absolute paths are kept as-is.
func resolvePath(src, baseDir string) string {
	if src == "" || filepath.IsAbs(src) {
		return src
	}
	return filepath.Join(baseDir, src)
}
