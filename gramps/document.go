package gramps

import (
	"bytes"
	"encoding/xml"

	"github.com/bartfeenstra/betty-sub005/errors"
)

// Namespace is the one Gramps XML schema version this loader understands.
const Namespace = "http://gramps-project.org/xml/1.7.1/"

// document is the typed intermediate representation of one Gramps XML
// archive. Each element kind the loader consumes has its own record type;
// downstream builders read typed fields instead of walking a generic tree.
type document struct {
	XMLName      xml.Name            `xml:"database"`
	Notes        []noteElement       `xml:"notes>note"`
	Objects      []objectElement     `xml:"objects>object"`
	Repositories []repositoryElement `xml:"repositories>repository"`
	Sources      []sourceElement     `xml:"sources>source"`
	Citations    []citationElement   `xml:"citations>citation"`
	Places       []placeElement      `xml:"places>placeobj"`
	Events       []eventElement      `xml:"events>event"`
	People       []personElement     `xml:"people>person"`
	Families     []familyElement     `xml:"families>family"`
}

type noteElement struct {
	Handle string `xml:"handle,attr"`
	ID     string `xml:"id,attr"`
	Text   string `xml:"text"`
}

// refElement is a bare cross-reference to another element's handle.
type refElement struct {
	HLink string `xml:"hlink,attr"`
}

// attributeElement is a typed key/value pair; privacy markers arrive as
// vendor-prefixed attributes of this shape.
type attributeElement struct {
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

type fileElement struct {
	Src         string `xml:"src,attr"`
	MIME        string `xml:"mime,attr"`
	Description string `xml:"description,attr"`
}

type objectElement struct {
	Handle       string             `xml:"handle,attr"`
	ID           string             `xml:"id,attr"`
	File         fileElement        `xml:"file"`
	NoteRefs     []refElement       `xml:"noteref"`
	CitationRefs []refElement       `xml:"citationref"`
	Attributes   []attributeElement `xml:"attribute"`
}

type urlElement struct {
	Href        string `xml:"href,attr"`
	Description string `xml:"description,attr"`
	Type        string `xml:"type,attr"`
}

type repositoryElement struct {
	Handle string       `xml:"handle,attr"`
	ID     string       `xml:"id,attr"`
	Name   string       `xml:"rname"`
	URLs   []urlElement `xml:"url"`
}

type sourceElement struct {
	Handle     string             `xml:"handle,attr"`
	ID         string             `xml:"id,attr"`
	Title      string             `xml:"stitle"`
	Author     string             `xml:"sauthor"`
	PubInfo    string             `xml:"spubinfo"`
	RepoRef    *refElement        `xml:"reporef"`
	ObjRefs    []refElement       `xml:"objref"`
	Attributes []attributeElement `xml:"srcattribute"`
}

// dateValElement is a single-value date: plain, "about", "before" or
// "after", optionally with a quality marker and calendar format.
type dateValElement struct {
	Value   string `xml:"val,attr"`
	Type    string `xml:"type,attr"`
	Quality string `xml:"quality,attr"`
	CFormat string `xml:"cformat,attr"`
}

// dateSpanElement carries both datespan and daterange payloads; the two
// differ only in boundary semantics.
type dateSpanElement struct {
	Start   string `xml:"start,attr"`
	Stop    string `xml:"stop,attr"`
	Quality string `xml:"quality,attr"`
	CFormat string `xml:"cformat,attr"`
}

// dateShape is embedded by every date-bearing element. At most one of the
// three fields is expected; precedence is dateval, datespan, daterange.
type dateShape struct {
	DateVal   *dateValElement  `xml:"dateval"`
	DateSpan  *dateSpanElement `xml:"datespan"`
	DateRange *dateSpanElement `xml:"daterange"`
}

type citationElement struct {
	dateShape
	Handle     string             `xml:"handle,attr"`
	ID         string             `xml:"id,attr"`
	SourceRef  *refElement        `xml:"sourceref"`
	Page       string             `xml:"page"`
	ObjRefs    []refElement       `xml:"objref"`
	Attributes []attributeElement `xml:"srcattribute"`
}

type placeNameElement struct {
	dateShape
	Value string `xml:"value,attr"`
	Lang  string `xml:"lang,attr"`
}

type coordElement struct {
	Long string `xml:"long,attr"`
	Lat  string `xml:"lat,attr"`
}

type placeElement struct {
	Handle    string             `xml:"handle,attr"`
	ID        string             `xml:"id,attr"`
	Names     []placeNameElement `xml:"pname"`
	Coord     *coordElement      `xml:"coord"`
	PlaceRefs []refElement       `xml:"placeref"`
	URLs      []urlElement       `xml:"url"`
}

type eventRefElement struct {
	HLink string `xml:"hlink,attr"`
	Role  string `xml:"role,attr"`
}

type eventElement struct {
	dateShape
	Handle       string             `xml:"handle,attr"`
	ID           string             `xml:"id,attr"`
	Type         string             `xml:"type"`
	PlaceRef     *refElement        `xml:"place"`
	Description  string             `xml:"description"`
	ObjRefs      []refElement       `xml:"objref"`
	CitationRefs []refElement       `xml:"citationref"`
	Attributes   []attributeElement `xml:"attribute"`
}

type surnameElement struct {
	Value  string `xml:",chardata"`
	Prefix string `xml:"prefix,attr"`
	Prim   string `xml:"prim,attr"`
}

type nameElement struct {
	Alt      string           `xml:"alt,attr"`
	First    string           `xml:"first"`
	Surnames []surnameElement `xml:"surname"`
}

type personElement struct {
	Handle       string             `xml:"handle,attr"`
	ID           string             `xml:"id,attr"`
	Names        []nameElement      `xml:"name"`
	EventRefs    []eventRefElement  `xml:"eventref"`
	CitationRefs []refElement       `xml:"citationref"`
	ObjRefs      []refElement       `xml:"objref"`
	URLs         []urlElement       `xml:"url"`
	Attributes   []attributeElement `xml:"attribute"`
}

type familyElement struct {
	Father    *refElement       `xml:"father"`
	Mother    *refElement       `xml:"mother"`
	ChildRefs []refElement      `xml:"childref"`
	EventRefs []eventRefElement `xml:"eventref"`
}

// parseDocument decodes raw XML into the typed document representation and
// verifies the root element carries the pinned schema namespace.
func parseDocument(data []byte) (*document, error) {
	var doc document
	decoder := xml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrDocumentParse, err.Error())
	}
	if doc.XMLName.Space != Namespace {
		return nil, errors.Wrapf(errors.ErrDocumentParse, "unsupported schema namespace %q", doc.XMLName.Space)
	}
	return &doc, nil
}
