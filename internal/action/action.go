package action

// Kind is the semantic category of a recognized call.
type Kind int

const (
	TestStart Kind = iota
	Navigate
	Click
	Fill
	Assert
)

func (k Kind) String() string {
	switch k {
	case TestStart:
		return "test"
	case Navigate:
		return "goto"
	case Click:
		return "click"
	case Fill:
		return "fill"
	case Assert:
		return "assert"
	default:
		return "unknown"
	}
}

// Action is one classified call.
//
// Target is the test name, URL, selector or assertion detail depending on
// Kind. Value is the text entered for Fill and the predicate for Assert.
// HasTarget and HasValue are false when the source argument was not a
// literal.
type Action struct {
	Kind      Kind
	Target    string
	Value     string
	HasTarget bool
	HasValue  bool
	Manual    bool
	Line      int
}

// Key identifies actions that are the same step.
type Key struct {
	Kind   Kind
	Target string
	Value  string
}

// Key returns the dedup identity of a navigate, click or fill action.
// Assertions, test starts and actions with non-literal arguments have no
// identity.
func (a Action) Key() (Key, bool) {
	switch a.Kind {
	case Navigate, Click:
		if !a.HasTarget {
			return Key{}, false
		}
		return Key{Kind: a.Kind, Target: a.Target}, true
	case Fill:
		if !a.HasTarget || !a.HasValue {
			return Key{}, false
		}
		return Key{Kind: a.Kind, Target: a.Target, Value: a.Value}, true
	default:
		return Key{}, false
	}
}
