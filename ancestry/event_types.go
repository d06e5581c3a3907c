package ancestry

// EventType is a tagged event kind. Known types come from the fixed
// enumeration below; anything else becomes a catch-all unknown type that
// keeps the original label, decided once at load time.
type EventType struct {
	Name  string
	Label string
	Known bool
}

// Known event types
var (
	Birth          = EventType{Name: "birth", Label: "Birth", Known: true}
	Baptism        = EventType{Name: "baptism", Label: "Baptism", Known: true}
	Adoption       = EventType{Name: "adoption", Label: "Adoption", Known: true}
	Death          = EventType{Name: "death", Label: "Death", Known: true}
	Funeral        = EventType{Name: "funeral", Label: "Funeral", Known: true}
	Cremation      = EventType{Name: "cremation", Label: "Cremation", Known: true}
	Burial         = EventType{Name: "burial", Label: "Burial", Known: true}
	Will           = EventType{Name: "will", Label: "Will", Known: true}
	Engagement     = EventType{Name: "engagement", Label: "Engagement", Known: true}
	Marriage       = EventType{Name: "marriage", Label: "Marriage", Known: true}
	MarriageBanns  = EventType{Name: "marriage-banns", Label: "Marriage banns", Known: true}
	Divorce        = EventType{Name: "divorce", Label: "Divorce", Known: true}
	DivorceFiling  = EventType{Name: "divorce-filing", Label: "Divorce filing", Known: true}
	Residence      = EventType{Name: "residence", Label: "Residence", Known: true}
	Immigration    = EventType{Name: "immigration", Label: "Immigration", Known: true}
	Emigration     = EventType{Name: "emigration", Label: "Emigration", Known: true}
	Occupation     = EventType{Name: "occupation", Label: "Occupation", Known: true}
	Retirement     = EventType{Name: "retirement", Label: "Retirement", Known: true}
	Correspondence = EventType{Name: "correspondence", Label: "Correspondence", Known: true}
	Confirmation   = EventType{Name: "confirmation", Label: "Confirmation", Known: true}
	Missing        = EventType{Name: "missing", Label: "Missing", Known: true}
)

// eventTypesByGrampsLabel maps source-format type strings to known types
var eventTypesByGrampsLabel = map[string]EventType{
	"Birth":          Birth,
	"Baptism":        Baptism,
	"Adoption":       Adoption,
	"Death":          Death,
	"Funeral":        Funeral,
	"Cremation":      Cremation,
	"Burial":         Burial,
	"Will":           Will,
	"Engagement":     Engagement,
	"Marriage":       Marriage,
	"Marriage Banns": MarriageBanns,
	"Divorce":        Divorce,
	"Divorce Filing": DivorceFiling,
	"Residence":      Residence,
	"Immigration":    Immigration,
	"Emigration":     Emigration,
	"Occupation":     Occupation,
	"Retirement":     Retirement,
	"Correspondence": Correspondence,
	"Confirmation":   Confirmation,
	"Missing":        Missing,
}

// EventTypeForLabel maps a source-format event type string to its typed
// variant. Unrecognized labels yield a catch-all unknown type carrying the
// original label; the second return value reports whether the label was
// recognized.
func EventTypeForLabel(label string) (EventType, bool) {
	if t, ok := eventTypesByGrampsLabel[label]; ok {
		return t, true
	}
	return EventType{Name: label, Label: label}, false
}
