// Package naming assigns translated identifiers to every declaration.
//
// This is a whole-program pass: it runs after all types are collected,
// propagates fixed names across abstract/interface override chains, generates
// collision-free long identifiers for interface members, and accumulates
// every conflict it finds instead of stopping at the first. Its output — the
// sealed binding table — is the only name source the emitter may consult.
package naming

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// longSep joins the interface prefix and the member name in generated
// identifiers: "Acme_Collections_ISeq$head".
const longSep = "$"

// sanitizeIdent maps an arbitrary host name onto the target identifier
// alphabet. Host identifiers may carry any Unicode; the target runtime wants
// NFC-normalized ASCII-safe names, so everything else collapses to '_'.
func sanitizeIdent(s string) string {
	s = norm.NFC.String(s)
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '$':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if sb.Len() == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// longIdent builds the generated long identifier for an interface member.
func longIdent(prefix, member string) string {
	return sanitizeIdent(prefix) + longSep + sanitizeIdent(member)
}

// fqnPrefix turns a dotted host FQN into a long-identifier prefix.
func fqnPrefix(fqn string) string {
	return strings.ReplaceAll(fqn, ".", "_")
}
