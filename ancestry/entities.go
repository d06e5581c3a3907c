package ancestry

import (
	"github.com/bartfeenstra/betty-sub005/date"
)

// Privacy is the tri-state privacy marker carried by most entities.
type Privacy int

const (
	// PrivacyUnset means the source declared no usable privacy preference
	PrivacyUnset Privacy = iota
	// PrivacyPublic means the entity was explicitly marked public
	PrivacyPublic
	// PrivacyPrivate means the entity was explicitly marked private
	PrivacyPrivate
)

// Link is an external URL attached to a place, person, or source.
type Link struct {
	URL          string
	Label        string
	Relationship string
}

// Note is a free-text annotation. Text may be the empty string but is
// never absent.
type Note struct {
	ID   string
	Text string
}

// File is a media attachment. Path is resolved against the archive's base
// directory at load time.
type File struct {
	ID          string
	Path        string
	MediaType   string
	Description string
	Notes       []*Note
	Citations   []*Citation
	Private     Privacy
}

// PlaceName is one localized name of a place.
type PlaceName struct {
	Name   string
	Locale string
	Date   date.Datey
}

// Coordinates is a geographic position in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Place is a location. EnclosedBy points at the places that contain this
// one (a city within a country); the resulting directed graph may contain
// cycles, which are deliberately not checked for.
type Place struct {
	ID          string
	Names       []PlaceName
	Coordinates *Coordinates
	EnclosedBy  []*Place
	Links       []Link
}

// PersonName is one name of a person: an individual (given) part and an
// affiliation (family) part, either of which may be empty.
type PersonName struct {
	Individual  string
	Affiliation string
}

// Person is an individual. Parents and Children are kept symmetric by the
// loader: wiring a family adds the edge on both ends.
type Person struct {
	ID        string
	Names     []PersonName
	Parents   []*Person
	Children  []*Person
	Presences []*Presence
	Citations []*Citation
	Files     []*File
	Links     []Link
	Private   Privacy
}

// Name returns the person's primary name: the first name in order, with
// non-alternative names sorted ahead of alternatives at load time. Returns
// nil for a person without any name.
func (p *Person) Name() *PersonName {
	if len(p.Names) == 0 {
		return nil
	}
	return &p.Names[0]
}

// Event is something that happened: a birth, a marriage, an emigration.
// Unknown event types are preserved as catch-all EventType values rather
// than rejected.
type Event struct {
	ID          string
	Type        EventType
	Date        date.Datey
	Place       *Place
	Description string
	Presences   []*Presence
	Citations   []*Citation
	Files       []*File
	Private     Privacy
}

// Presence associates one person with one event under a specific role. A
// person may be present at the same event multiple times with different
// roles.
type Presence struct {
	Role   Role
	Person *Person
	Event  *Event
}

// Source is a record source. Repositories are modeled as sources with no
// author or publisher; ContainedBy forms the shallow repository → source
// hierarchy.
type Source struct {
	ID          string
	Name        string
	Author      string
	Publisher   string
	ContainedBy *Source
	Files       []*File
	Links       []Link
	Private     Privacy
}

// Citation is a reference into a source. Source is always non-nil: a
// citation that cannot resolve its source is a fatal load error.
type Citation struct {
	ID       string
	Source   *Source
	Date     date.Datey
	Location string
	Files    []*File
	Private  Privacy
}
