package layouts

import (
	"html/template"

	"insurance-dashboard/internal/presentation"
)

// ShellData is passed to the shell template to render one session's page.
type ShellData struct {
	Title      string
	FaviconURL template.URL // data: URL built from the icon glyph; empty means no favicon
	Icon       string
	Layout     presentation.Layout       // "wide" or "narrow"
	Sidebar    presentation.SidebarState // "expanded", "collapsed" or "auto"
	SessionID  string
	Elements   []presentation.Element
}
