package template

import (
	"errors"
	"fmt"
	"strings"
)

// Template markers
const (
	ifMarkerOpen = "<!--IF:"
	markerClose  = "-->"
	endifMarker  = "<!--ENDIF-->"
)

// ErrTemplateSyntax matches every *SyntaxError
var ErrTemplateSyntax = errors.New("template syntax error")

// SyntaxError describes a malformed conditional marker
type SyntaxError struct {
	Marker string // IF or ENDIF
	Offset int    // byte offset of the marker in the template
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("template syntax error: %s marker at offset %d: %s", e.Marker, e.Offset, e.Msg)
}

// Is reports ErrTemplateSyntax as a match
func (e *SyntaxError) Is(target error) bool {
	return target == ErrTemplateSyntax
}

// block is a run of template text, optionally guarded by a slot
type block struct {
	text        string
	slot        string
	conditional bool
}

// parse splits a template into plain and conditional blocks.
// Conditional blocks do not nest.
func parse(src string) ([]block, error) {
	var blocks []block

	pos := 0
	textStart := 0
	openAt := -1
	slot := ""

	for {
		rest := src[pos:]
		ifIdx := strings.Index(rest, ifMarkerOpen)
		endIdx := strings.Index(rest, endifMarker)
		if ifIdx < 0 && endIdx < 0 {
			break
		}

		if endIdx < 0 || (ifIdx >= 0 && ifIdx < endIdx) {
			at := pos + ifIdx
			if openAt >= 0 {
				return nil, &SyntaxError{Marker: "IF", Offset: at, Msg: fmt.Sprintf("nested inside block opened at offset %d", openAt)}
			}

			nameStart := at + len(ifMarkerOpen)
			closeIdx := strings.Index(src[nameStart:], markerClose)
			if closeIdx < 0 {
				return nil, &SyntaxError{Marker: "IF", Offset: at, Msg: "unterminated marker"}
			}
			name := strings.TrimSpace(src[nameStart : nameStart+closeIdx])
			if !isFieldName(name) {
				return nil, &SyntaxError{Marker: "IF", Offset: at, Msg: fmt.Sprintf("invalid slot name %q", name)}
			}

			blocks = append(blocks, block{text: src[textStart:at]})
			openAt = at
			slot = name
			pos = nameStart + closeIdx + len(markerClose)
			textStart = pos
			continue
		}

		at := pos + endIdx
		if openAt < 0 {
			return nil, &SyntaxError{Marker: "ENDIF", Offset: at, Msg: "no matching IF"}
		}
		blocks = append(blocks, block{text: src[textStart:at], slot: slot, conditional: true})
		openAt = -1
		pos = at + len(endifMarker)
		textStart = pos
	}

	if openAt >= 0 {
		return nil, &SyntaxError{Marker: "IF", Offset: openAt, Msg: fmt.Sprintf("block %q has no matching ENDIF", slot)}
	}

	blocks = append(blocks, block{text: src[textStart:]})
	return blocks, nil
}

func isFieldName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
