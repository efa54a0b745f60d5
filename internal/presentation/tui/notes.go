package tui

import (
	"fmt"
	"io"
)

// DefaultRippleNote explains the issuer's Default Ripple setting.
const DefaultRippleNote = `## Default Ripple

Issuers usually enable **Default Ripple** (` + "`asfDefaultRipple`" + `, code 8) *before*
anyone opens a trust line to them. It turns rippling on for new lines, which lets
holders send the token to each other through the issuer.

Lines created before the flag is set keep rippling disabled until the holder changes them.
`

// RequireAuthNote explains authorized trust lines.
const RequireAuthNote = `## Authorized Trust Lines

**Require Auth** (` + "`asfRequireAuth`" + `, code 2) means every trust line must be
approved by the issuer before it can hold the token.

It can only be enabled while the issuer owns no trust lines and its owner directory is
empty, so set it before issuing anything. This tool does not authorize lines for you.
`

// PrintNotes renders the informational sections shown before flag selection.
func PrintNotes(w io.Writer, render func(string) (string, error)) {
	for _, md := range []string{DefaultRippleNote, RequireAuthNote} {
		out, err := render(md)
		if err != nil {
			out = md
		}
		fmt.Fprint(w, out)
	}
}
