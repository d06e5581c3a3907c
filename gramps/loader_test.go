package gramps

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bartfeenstra/betty-sub005/ancestry"
	"github.com/bartfeenstra/betty-sub005/date"
	"github.com/bartfeenstra/betty-sub005/errors"
)

func documentBytes(body string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?>
<database xmlns="http://gramps-project.org/xml/1.7.1/">` + body + `</database>`)
}

func newTestLoader() (*ancestry.Ancestry, *Loader) {
	logger := zap.NewNop().Sugar()
	graph := ancestry.New(logger)
	return graph, NewLoader(graph, logger)
}

// newObservedLoader returns a loader whose warnings can be inspected.
func newObservedLoader() (*ancestry.Ancestry, *Loader, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core).Sugar()
	graph := ancestry.New(logger)
	return graph, NewLoader(graph, logger), logs
}

func loadBody(t *testing.T, body string) *ancestry.Ancestry {
	t.Helper()
	graph, loader := newTestLoader()
	require.NoError(t, loader.LoadBytes(documentBytes(body), "/var/ancestry"))
	return graph
}

const fullDocument = `
  <notes>
    <note handle="_n1" id="N0001"><text></text></note>
  </notes>
  <objects>
    <object handle="_o1" id="O0001">
      <file src="media/portrait.png" mime="image/png" description="A portrait"/>
      <noteref hlink="_n1"/>
      <citationref hlink="_c1"/>
    </object>
  </objects>
  <repositories>
    <repository handle="_r1" id="R0001">
      <rname>National Archive</rname>
      <url href="https://example.com" description="Website" type="Web Home"/>
    </repository>
  </repositories>
  <sources>
    <source handle="_s1" id="S0001">
      <stitle>Civil registry</stitle>
      <sauthor>A. Clerk</sauthor>
      <spubinfo>City of Amsterdam</spubinfo>
      <reporef hlink="_r1"/>
      <objref hlink="_o1"/>
    </source>
  </sources>
  <citations>
    <citation handle="_c1" id="C0001">
      <dateval val="1970-01-01"/>
      <page>p. 12</page>
      <sourceref hlink="_s1"/>
    </citation>
  </citations>
  <places>
    <placeobj handle="_p1" id="P0001">
      <pname value="Amsterdam" lang="nl"/>
      <coord long="4.9041" lat="52.3676"/>
      <placeref hlink="_p2"/>
    </placeobj>
    <placeobj handle="_p2" id="P0002">
      <pname value="Netherlands"/>
    </placeobj>
  </places>
  <events>
    <event handle="_e1" id="E0001">
      <type>Birth</type>
      <dateval val="1970-01-01"/>
      <place hlink="_p1"/>
      <description>The birth</description>
      <citationref hlink="_c1"/>
    </event>
  </events>
  <people>
    <person handle="_i1" id="I0001">
      <name><first>Jane</first><surname prefix="van">Doe</surname></name>
      <eventref hlink="_e1" role="Primary"/>
      <citationref hlink="_c1"/>
      <objref hlink="_o1"/>
      <url href="https://janedoe.example" description="Homepage"/>
    </person>
  </people>
`

func TestLoadFullDocument(t *testing.T) {
	graph := loadBody(t, fullDocument)

	note := graph.Notes()["N0001"]
	require.NotNil(t, note)
	assert.Equal(t, "", note.Text, "note text may be empty but never absent")

	file := graph.Files()["O0001"]
	require.NotNil(t, file)
	assert.Equal(t, filepath.Join("/var/ancestry", "media/portrait.png"), file.Path)
	assert.Equal(t, "image/png", file.MediaType)
	assert.Equal(t, "A portrait", file.Description)
	require.Len(t, file.Notes, 1)
	require.Len(t, file.Citations, 1, "forward file-to-citation join should resolve")
	assert.Equal(t, "C0001", file.Citations[0].ID)

	repository := graph.Sources()["R0001"]
	require.NotNil(t, repository)
	assert.Equal(t, "National Archive", repository.Name)
	assert.Empty(t, repository.Author, "repositories carry no author")
	require.Len(t, repository.Links, 1)
	assert.Equal(t, "https://example.com", repository.Links[0].URL)

	source := graph.Sources()["S0001"]
	require.NotNil(t, source)
	assert.Equal(t, "Civil registry", source.Name)
	assert.Equal(t, "A. Clerk", source.Author)
	assert.Equal(t, "City of Amsterdam", source.Publisher)
	assert.Same(t, repository, source.ContainedBy)
	require.Len(t, source.Files, 1)

	citation := graph.Citations()["C0001"]
	require.NotNil(t, citation)
	assert.Same(t, source, citation.Source)
	assert.Equal(t, "p. 12", citation.Location)
	assert.Equal(t, &date.Date{Year: 1970, Month: 1, Day: 1}, citation.Date)

	place := graph.Places()["P0001"]
	require.NotNil(t, place)
	require.Len(t, place.Names, 1)
	assert.Equal(t, "Amsterdam", place.Names[0].Name)
	assert.Equal(t, "nl", place.Names[0].Locale)
	require.NotNil(t, place.Coordinates)
	assert.InDelta(t, 52.3676, place.Coordinates.Latitude, 1e-9)
	assert.InDelta(t, 4.9041, place.Coordinates.Longitude, 1e-9)

	event := graph.Events()["E0001"]
	require.NotNil(t, event)
	assert.Equal(t, ancestry.Birth, event.Type)
	assert.Same(t, place, event.Place)
	assert.Equal(t, "The birth", event.Description)
	require.Len(t, event.Citations, 1)

	person := graph.People()["I0001"]
	require.NotNil(t, person)
	name := person.Name()
	require.NotNil(t, name)
	assert.Equal(t, "Jane", name.Individual)
	assert.Equal(t, "van Doe", name.Affiliation)
	require.Len(t, person.Presences, 1)
	assert.Equal(t, ancestry.Subject, person.Presences[0].Role)
	assert.Same(t, event, person.Presences[0].Event)
	require.Len(t, event.Presences, 1)
	assert.Same(t, person, event.Presences[0].Person)
	require.Len(t, person.Links, 1)
	assert.Equal(t, "https://janedoe.example", person.Links[0].URL)
}

func TestPlaceEnclosureForwardAndBackward(t *testing.T) {
	graph := loadBody(t, `
  <places>
    <placeobj handle="_p1" id="P0001">
      <pname value="Amsterdam"/>
      <placeref hlink="_p2"/>
    </placeobj>
    <placeobj handle="_p2" id="P0002">
      <pname value="Netherlands"/>
    </placeobj>
    <placeobj handle="_p3" id="P0003">
      <pname value="Jordaan"/>
      <placeref hlink="_p1"/>
    </placeobj>
  </places>
`)

	places := graph.Places()
	amsterdam := places["P0001"]
	netherlands := places["P0002"]
	jordaan := places["P0003"]
	require.NotNil(t, amsterdam)
	require.NotNil(t, netherlands)
	require.NotNil(t, jordaan)

	// _p2 is declared after _p1: a forward reference
	require.Len(t, amsterdam.EnclosedBy, 1)
	assert.Same(t, netherlands, amsterdam.EnclosedBy[0])

	// _p1 is declared before _p3: a backward reference
	require.Len(t, jordaan.EnclosedBy, 1)
	assert.Same(t, amsterdam, jordaan.EnclosedBy[0])
}

func TestUnknownEventTypeLoads(t *testing.T) {
	graph, loader, logs := newObservedLoader()
	body := `
  <events>
    <event handle="_e1" id="E0001"><type>SomeEventThatIUsedToKnow</type></event>
  </events>
`
	require.NoError(t, loader.LoadBytes(documentBytes(body), "."))

	event := graph.Events()["E0001"]
	require.NotNil(t, event)
	assert.False(t, event.Type.Known)
	assert.Equal(t, "SomeEventThatIUsedToKnow", event.Type.Label)

	require.Equal(t, 1, logs.Len(), "an unknown event type should emit one warning")
	assert.Contains(t, logs.All()[0].Message, "Unknown event type")
}

func TestPrivacyAttribute(t *testing.T) {
	tests := []struct {
		value    string
		expected ancestry.Privacy
		warns    bool
	}{
		{"private", ancestry.PrivacyPrivate, false},
		{"public", ancestry.PrivacyPublic, false},
		{"publi", ancestry.PrivacyUnset, true},
		{"privat", ancestry.PrivacyUnset, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			graph, loader, logs := newObservedLoader()
			body := fmt.Sprintf(`
  <events>
    <event handle="_e1" id="E0001">
      <type>Birth</type>
      <attribute type="betty:privacy" value="%s"/>
    </event>
  </events>
`, tt.value)
			require.NoError(t, loader.LoadBytes(documentBytes(body), "."))

			event := graph.Events()["E0001"]
			require.NotNil(t, event)
			assert.Equal(t, tt.expected, event.Private)
			if tt.warns {
				assert.Equal(t, 1, logs.Len(), "unknown privacy values should warn")
			} else {
				assert.Equal(t, 0, logs.Len())
			}
		})
	}
}

func TestPrivacyOnSourceAndCitation(t *testing.T) {
	graph := loadBody(t, `
  <sources>
    <source handle="_s1" id="S0001">
      <stitle>Registry</stitle>
      <srcattribute type="betty:privacy" value="private"/>
    </source>
  </sources>
  <citations>
    <citation handle="_c1" id="C0001">
      <sourceref hlink="_s1"/>
      <srcattribute type="betty:privacy" value="public"/>
    </citation>
  </citations>
`)

	assert.Equal(t, ancestry.PrivacyPrivate, graph.Sources()["S0001"].Private)
	assert.Equal(t, ancestry.PrivacyPublic, graph.Citations()["C0001"].Private)
}

func TestFamilyWiring(t *testing.T) {
	graph := loadBody(t, `
  <events>
    <event handle="_e1" id="E0001"><type>Marriage</type></event>
  </events>
  <people>
    <person handle="_i1" id="I0001"><name><first>Jane</first></name></person>
    <person handle="_i2" id="I0002"><name><first>John</first></name></person>
    <person handle="_i3" id="I0003"><name><first>Janet</first></name></person>
    <person handle="_i4" id="I0004"><name><first>Joseph</first></name></person>
  </people>
  <families>
    <family>
      <father hlink="_i1"/>
      <mother hlink="_i2"/>
      <childref hlink="_i3"/>
      <childref hlink="_i4"/>
      <eventref hlink="_e1" role="Family"/>
    </family>
  </families>
`)

	people := graph.People()
	parents := []*ancestry.Person{people["I0001"], people["I0002"]}
	children := []*ancestry.Person{people["I0003"], people["I0004"]}

	for _, parent := range parents {
		require.NotNil(t, parent)
		assert.ElementsMatch(t, children, parent.Children)
	}
	for _, child := range children {
		require.NotNil(t, child)
		assert.ElementsMatch(t, parents, child.Parents)
	}

	// The family-scoped marriage is attributed to both parents
	event := graph.Events()["E0001"]
	require.NotNil(t, event)
	require.Len(t, event.Presences, 2)
	for _, presence := range event.Presences {
		assert.Equal(t, ancestry.Subject, presence.Role)
	}
	for _, parent := range parents {
		require.Len(t, parent.Presences, 1)
		assert.Same(t, event, parent.Presences[0].Event)
	}
	for _, child := range children {
		assert.Empty(t, child.Presences)
	}
}

func TestAlternativeNamesSortAfterPrimary(t *testing.T) {
	graph := loadBody(t, `
  <people>
    <person handle="_i1" id="I0001">
      <name alt="1"><first>Janey</first><surname>Doe</surname></name>
      <name><first>Jane</first><surname prim="0">Doeh</surname><surname>Doe</surname></name>
    </person>
  </people>
`)

	person := graph.People()["I0001"]
	require.NotNil(t, person)
	require.Len(t, person.Names, 3)
	assert.Equal(t, ancestry.PersonName{Individual: "Jane", Affiliation: "Doe"}, person.Names[0])
	assert.ElementsMatch(t, []ancestry.PersonName{
		{Individual: "Janey", Affiliation: "Doe"},
		{Individual: "Jane", Affiliation: "Doeh"},
	}, person.Names[1:])
}

func TestUnresolvableReferenceAborts(t *testing.T) {
	graph, loader := newTestLoader()
	body := `
  <events>
    <event handle="_e1" id="E0001"><type>Birth</type><place hlink="_nowhere"/></event>
  </events>
`
	err := loader.LoadBytes(documentBytes(body), ".")
	require.Error(t, err)
	assert.True(t, errors.IsUnresolvableHandle(err))

	// The failed archive must not contribute anything to the graph
	assert.Equal(t, ancestry.Stats{}, graph.Stats())
}

func TestUnresolvableEnclosureAborts(t *testing.T) {
	_, loader := newTestLoader()
	body := `
  <places>
    <placeobj handle="_p1" id="P0001"><placeref hlink="_missing"/></placeobj>
  </places>
`
	err := loader.LoadBytes(documentBytes(body), ".")
	assert.True(t, errors.IsUnresolvableHandle(err))
}

func TestCitationWithoutSourceAborts(t *testing.T) {
	_, loader := newTestLoader()
	body := `
  <citations>
    <citation handle="_c1" id="C0001"><page>p. 1</page></citation>
  </citations>
`
	err := loader.LoadBytes(documentBytes(body), ".")
	assert.True(t, errors.IsUnresolvableHandle(err))
}

func TestMergeTwoArchives(t *testing.T) {
	graph, loader := newTestLoader()

	// Both archives reuse the handle _i1 for different people; handles are
	// archive-scoped and must not leak across loads
	first := `
  <people>
    <person handle="_i1" id="I0001"><name><first>Jane</first></name></person>
  </people>
`
	second := `
  <people>
    <person handle="_i1" id="I0002"><name><first>John</first></name></person>
  </people>
`
	require.NoError(t, loader.LoadBytes(documentBytes(first), "."))
	require.NoError(t, loader.LoadBytes(documentBytes(second), "."))

	people := graph.People()
	require.Len(t, people, 2)
	assert.Equal(t, "Jane", people["I0001"].Name().Individual)
	assert.Equal(t, "John", people["I0002"].Name().Individual)
}

func TestDuplicatePublicIDAcrossArchives(t *testing.T) {
	graph, loader := newTestLoader()

	first := `
  <people>
    <person handle="_i1" id="I0001"><name><first>Jane</first></name></person>
  </people>
`
	second := `
  <people>
    <person handle="_x9" id="I0001"><name><first>Janet</first></name></person>
  </people>
`
	require.NoError(t, loader.LoadBytes(documentBytes(first), "."))
	require.NoError(t, loader.LoadBytes(documentBytes(second), "."))

	people := graph.People()
	require.Len(t, people, 1)
	assert.Equal(t, "Janet", people["I0001"].Name().Individual, "last load wins")
}

func TestFailedArchiveDoesNotRollBackEarlierOnes(t *testing.T) {
	graph, loader := newTestLoader()

	good := `
  <people>
    <person handle="_i1" id="I0001"><name><first>Jane</first></name></person>
  </people>
`
	bad := `
  <people>
    <person handle="_i1" id="I0002"><citationref hlink="_missing"/></person>
  </people>
`
	require.NoError(t, loader.LoadBytes(documentBytes(good), "."))
	require.Error(t, loader.LoadBytes(documentBytes(bad), "."))

	people := graph.People()
	require.Len(t, people, 1)
	assert.NotNil(t, people["I0001"])
}

func TestLoadPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ancestry.gramps")
	body := `
  <objects>
    <object handle="_o1" id="O0001"><file src="media/a.png" mime="image/png"/></object>
  </objects>
`
	require.NoError(t, os.WriteFile(path, documentBytes(body), 0o644))

	graph, loader := newTestLoader()
	require.NoError(t, loader.LoadPath(path))

	file := graph.Files()["O0001"]
	require.NotNil(t, file)
	assert.Equal(t, filepath.Join(dir, "media/a.png"), file.Path,
		"relative media paths resolve against the archive's directory")
}

func TestLoadPathUnknownFormatNamesPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.bin")
	require.NoError(t, os.WriteFile(path, []byte("not an archive"), 0o644))

	_, loader := newTestLoader()
	err := loader.LoadPath(path)
	require.Error(t, err)
	assert.True(t, errors.IsUnknownFormat(err))
	assert.True(t, strings.Contains(err.Error(), path), "the error should name the offending path")
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, 2)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("archive%d.gramps", i))
		body := fmt.Sprintf(`
  <people>
    <person handle="_i1" id="I%04d"><name><first>Person</first></name></person>
  </people>
`, i)
		require.NoError(t, os.WriteFile(paths[i], documentBytes(body), 0o644))
	}

	graph, loader := newTestLoader()
	require.NoError(t, loader.LoadAll(paths))
	assert.Len(t, graph.People(), 2)
}

func TestLoadAllCombinesFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.gramps")
	bad := filepath.Join(dir, "bad.gramps")
	require.NoError(t, os.WriteFile(good, documentBytes(`
  <people>
    <person handle="_i1" id="I0001"><name><first>Jane</first></name></person>
  </people>
`), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o644))

	graph, loader := newTestLoader()
	err := loader.LoadAll([]string{good, bad})
	require.Error(t, err)
	assert.Len(t, graph.People(), 1, "the good archive still commits")
}
