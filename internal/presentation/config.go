package presentation

import (
	"strings"

	"github.com/pkg/errors"
)

// Layout is the content width mode of the page shell.
type Layout string

const (
	LayoutNarrow Layout = "narrow"
	LayoutWide   Layout = "wide"
)

// Valid reports whether l is a known layout.
func (l Layout) Valid() bool {
	return l == LayoutNarrow || l == LayoutWide
}

// ParseLayout accepts the lowercase name, case-insensitively. "centered" is accepted
// as an alias for narrow.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "narrow", "centered":
		return LayoutNarrow, nil
	case "wide":
		return LayoutWide, nil
	}
	return "", errors.Wrapf(ErrInvalidConfig, "unknown layout %q", s)
}

// UnmarshalText decodes layouts from JSON and YAML through ParseLayout.
func (l *Layout) UnmarshalText(text []byte) error {
	v, err := ParseLayout(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// SidebarState is the initial visibility of the navigation panel.
type SidebarState string

const (
	SidebarExpanded  SidebarState = "expanded"
	SidebarCollapsed SidebarState = "collapsed"
	SidebarAuto      SidebarState = "auto"
)

func (s SidebarState) Valid() bool {
	return s == SidebarExpanded || s == SidebarCollapsed || s == SidebarAuto
}

// ParseSidebarState accepts the lowercase name, case-insensitively.
func ParseSidebarState(s string) (SidebarState, error) {
	switch v := SidebarState(strings.ToLower(strings.TrimSpace(s))); v {
	case SidebarExpanded, SidebarCollapsed, SidebarAuto:
		return v, nil
	}
	return "", errors.Wrapf(ErrInvalidConfig, "unknown sidebar state %q", s)
}

// UnmarshalText decodes sidebar states through ParseSidebarState.
func (s *SidebarState) UnmarshalText(text []byte) error {
	v, err := ParseSidebarState(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// DisplayConfig is the page title, icon, layout mode, and initial sidebar visibility
// applied once per dashboard session. It is a value type and is never mutated after
// being applied.
type DisplayConfig struct {
	Title        string       `json:"title" yaml:"title" jsonschema:"minLength=1,description=Page title shown in the browser tab"`
	Icon         string       `json:"icon" yaml:"icon" jsonschema:"description=Short glyph shown next to the title"`
	Layout       Layout       `json:"layout" yaml:"layout" jsonschema:"enum=narrow,enum=wide"`
	SidebarState SidebarState `json:"sidebar_initial_state" yaml:"sidebar_initial_state" jsonschema:"enum=expanded,enum=collapsed,enum=auto"`
}

// Validate checks that every field holds a usable value.
func (c DisplayConfig) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.Wrap(ErrInvalidConfig, "title is required")
	}
	if !c.Layout.Valid() {
		return errors.Wrapf(ErrInvalidConfig, "unknown layout %q", c.Layout)
	}
	if !c.SidebarState.Valid() {
		return errors.Wrapf(ErrInvalidConfig, "unknown sidebar state %q", c.SidebarState)
	}
	return nil
}

// DefaultDisplayConfig is what a host reports before any configuration is applied.
var DefaultDisplayConfig = DisplayConfig{
	Title:        "Dashboard",
	Icon:         "",
	Layout:       LayoutNarrow,
	SidebarState: SidebarAuto,
}

// InsuranceSalesDashboard is the presentation of the insurance sales tracking dashboard.
var InsuranceSalesDashboard = DisplayConfig{
	Title:        "🔐 Suivi Sécurisé des Ventes d'Assurances",
	Icon:         "🛡️",
	Layout:       LayoutWide,
	SidebarState: SidebarExpanded,
}
