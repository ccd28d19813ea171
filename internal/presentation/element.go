package presentation

import (
	"strings"

	"github.com/pkg/errors"
)

// ElementKind names a UI-emitting call.
type ElementKind string

const (
	KindTitle   ElementKind = "title"
	KindHeader  ElementKind = "header"
	KindText    ElementKind = "text"
	KindCaption ElementKind = "caption"
	KindDivider ElementKind = "divider"
)

func (k ElementKind) Valid() bool {
	switch k {
	case KindTitle, KindHeader, KindText, KindCaption, KindDivider:
		return true
	}
	return false
}

// Element is one rendered unit of page content.
type Element struct {
	Kind    ElementKind `json:"kind"`
	Content string      `json:"content,omitempty"`
}

// Validate rejects unknown kinds and content-less elements (dividers carry none).
func (e Element) Validate() error {
	if !e.Kind.Valid() {
		return errors.Wrapf(ErrInvalidElement, "unknown kind %q", e.Kind)
	}
	if e.Kind != KindDivider && strings.TrimSpace(e.Content) == "" {
		return errors.Wrapf(ErrInvalidElement, "%s requires content", e.Kind)
	}
	return nil
}
