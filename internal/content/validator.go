package content

import (
	"net/url"
	"unicode/utf8"

	"github.com/foxzi/eventmail/internal/event"
)

// Subject is what a validation rule inspects
type Subject struct {
	Event  event.Event
	Type   ContentType
	Output *Output
}

// Rule flags one slot with a reason when Failed returns true
type Rule struct {
	Slot   string
	Reason string
	Failed func(Subject) bool
}

var ruleMissingProgram = Rule{
	Slot:   "program",
	Reason: ReasonMissingRequiredFact,
	Failed: func(s Subject) bool { return s.Event.Program == "" },
}

// BaselineRules only flags a missing program
var BaselineRules = []Rule{ruleMissingProgram}

// ExtendedRules adds URL, preheader length and pain checks to the baseline
var ExtendedRules = []Rule{
	ruleMissingProgram,
	{
		Slot:   "pains",
		Reason: ReasonMissingRequiredFact,
		Failed: func(s Subject) bool { return s.Type == TypePainSale && s.Event.Pains == "" },
	},
	{
		Slot:   "cta_url",
		Reason: ReasonInvalidURL,
		Failed: func(s Subject) bool { return s.Output == nil || !isAbsoluteHTTPURL(s.Output.CTAURL) },
	},
	{
		Slot:   "preheader",
		Reason: ReasonTooShort,
		Failed: func(s Subject) bool {
			return s.Output == nil || utf8.RuneCountInString(s.Output.Preheader) < MinPreheaderLen
		},
	},
}

// Validator runs a fixed list of rules
type Validator struct {
	rules []Rule
}

// NewValidator creates a validator. With no rules it uses BaselineRules.
func NewValidator(rules ...Rule) *Validator {
	if len(rules) == 0 {
		rules = BaselineRules
	}
	return &Validator{rules: rules}
}

// Validate returns one error per failing rule, in rule order.
// The result is never nil.
func (v *Validator) Validate(ev event.Event, ct ContentType, out *Output) []ValidationError {
	subject := Subject{Event: ev, Type: ct, Output: out}
	errs := []ValidationError{}
	for _, r := range v.rules {
		if r.Failed(subject) {
			errs = append(errs, ValidationError{Slot: r.Slot, Reason: r.Reason})
		}
	}
	return errs
}

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
