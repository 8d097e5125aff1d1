package events

const (
	SetupEvaluatedEvent = "setup.evaluated"
	SetupsComparedEvent = "setups.compared"
	CatalogLoadedEvent  = "catalog.loaded"
)

// Stream names. Evaluations are keyed by setup fingerprint so repeated
// evaluations of one setup share a versioned stream.
const (
	catalogStream     = "catalog"
	setupStreamPrefix = "setup:"
	comparisonStream  = "comparisons"
)

type SetupEvaluated struct {
	Fingerprint    string `json:"fingerprint"`
	BikeType       string `json:"bike_type"`
	Status         string `json:"status"`
	CriticalIssues int    `json:"critical_issues"`
	MinorWarnings  int    `json:"minor_warnings"`
	Cached         bool   `json:"cached"`
}

type SetupsCompared struct {
	ReportID       string  `json:"report_id"`
	Mode           string  `json:"mode"`
	SpeedChange    float64 `json:"speed_change"`
	WeightChange   float64 `json:"weight_change"`
	RangeChange    float64 `json:"range_change"`
	ProposedStatus string  `json:"proposed_status"`
}

type CatalogLoaded struct {
	Source     string `json:"source"`
	Components int    `json:"components"`
}

func SetupStream(fingerprint string) string {
	return setupStreamPrefix + fingerprint
}

func NewSetupEvaluatedEvent(evaluated SetupEvaluated) Event {
	return NewEvent(SetupEvaluatedEvent, SetupStream(evaluated.Fingerprint), evaluated)
}

func NewSetupsComparedEvent(compared SetupsCompared) Event {
	return NewEvent(SetupsComparedEvent, comparisonStream, compared)
}

func NewCatalogLoadedEvent(loaded CatalogLoaded) Event {
	return NewEvent(CatalogLoadedEvent, catalogStream, loaded)
}

// Publish appends an event to its own stream
func Publish(store EventStore, event Event) error {
	return store.AppendEvent(event.StreamID(), event)
}
