package content

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrUnknownContentType is returned when parsing an unsupported content type
var ErrUnknownContentType = errors.New("unknown content type")

// ContentType selects the marketing angle of a generated email
type ContentType string

const (
	TypeAnnounce ContentType = "announce"
	TypeSale     ContentType = "sale"
	TypePainSale ContentType = "pain_sale"
	TypeReminder ContentType = "reminder"
	TypeDigest   ContentType = "digest"
)

// TypeInfo describes a content type for presentation
type TypeInfo struct {
	Type        ContentType `json:"value"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
}

var typeInfos = []TypeInfo{
	{TypeAnnounce, "Announcement", "Novelty and value, soft CTA"},
	{TypeSale, "Sale", "Benefits, proof and a deadline"},
	{TypePainSale, "Pain → Solution", "Pain, escalation, solution chain"},
	{TypeReminder, "Reminder", "Short: when, where and what you will miss"},
	{TypeDigest, "Digest", "3-5 useful takeaways"},
}

// Types returns all content types in display order
func Types() []TypeInfo {
	out := make([]TypeInfo, len(typeInfos))
	copy(out, typeInfos)
	return out
}

// ParseContentType converts a string into a known content type
func ParseContentType(s string) (ContentType, error) {
	for _, info := range typeInfos {
		if string(info.Type) == s {
			return info.Type, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownContentType, s)
}

// Info returns the presentation metadata of the content type
func (t ContentType) Info() (TypeInfo, bool) {
	for _, info := range typeInfos {
		if info.Type == t {
			return info, true
		}
	}
	return TypeInfo{}, false
}

// Fixed UTM values shared by every generated email
const (
	UTMSource = "email"
	UTMMedium = "newsletter"
)

// UTMParams holds campaign attribution parameters for the CTA link
type UTMParams struct {
	Source   string `json:"utm_source"`
	Medium   string `json:"utm_medium"`
	Campaign string `json:"utm_campaign"`
	Content  string `json:"utm_content"`
}

// Query encodes the parameters as a URL query string in fixed order
func (u UTMParams) Query() string {
	return "utm_source=" + url.QueryEscape(u.Source) +
		"&utm_medium=" + url.QueryEscape(u.Medium) +
		"&utm_campaign=" + url.QueryEscape(u.Campaign) +
		"&utm_content=" + url.QueryEscape(u.Content)
}

// Reason codes for validation errors
const (
	ReasonMissingRequiredFact = "missing_required_fact"
	ReasonInvalidURL          = "invalid_url"
	ReasonTooShort            = "too_short"
)

// ValidationError reports a content-quality problem with one slot
type ValidationError struct {
	Slot   string `json:"slot"`
	Reason string `json:"reason"`
}

func (e ValidationError) String() string { return e.Slot + ":" + e.Reason }

// Slot length limits
const (
	MaxSubjectLen   = 55
	MaxPreheaderLen = 70
	MinPreheaderLen = 35 // only checked by ExtendedRules
)

// Output is a generated email. Field order is the JSON key order.
type Output struct {
	Subject          string            `json:"subject"`
	Preheader        string            `json:"preheader"`
	Headline         string            `json:"headline"`
	Intro            string            `json:"intro"`
	PainPoint        *string           `json:"pain_point,omitempty"`
	ValueProposition string            `json:"value_proposition"`
	AgendaBlock      *string           `json:"agenda_block,omitempty"`
	SpeakersBlock    *string           `json:"speakers_block,omitempty"`
	Offer            string            `json:"offer"`
	CTAText          string            `json:"cta_text"`
	CTAURL           string            `json:"cta_url"`
	UTMParams        UTMParams         `json:"utm_params"`
	Errors           []ValidationError `json:"errors"`
}

// TrackedURL returns the CTA URL with the UTM parameters appended
func (o *Output) TrackedURL() string {
	return o.CTAURL + "?" + o.UTMParams.Query()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
