// Package policy decides whether an actor may perform an operation on a surface.
// Handlers call Check at the top of every write path and act on the Decision.
package policy

import (
	"net/url"

	"github.com/google/uuid"
)

type ActorKind int

const (
	Anonymous ActorKind = iota
	Authenticated
	Admin
)

func (k ActorKind) String() string {
	switch k {
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	default:
		return "anonymous"
	}
}

// Actor is whoever issued the request
type Actor struct {
	Kind     ActorKind
	UserID   uuid.UUID
	Username string
}

func (a Actor) IsAnonymous() bool {
	return a.Kind == Anonymous
}

type Operation string

const (
	OpList     Operation = "list"
	OpRetrieve Operation = "retrieve"
	OpCreate   Operation = "create"
	OpUpdate   Operation = "update"
	OpDelete   Operation = "delete"
)

func (o Operation) IsRead() bool {
	return o == OpList || o == OpRetrieve
}

type Surface string

const (
	SurfaceHTML Surface = "html"
	SurfaceAPI  Surface = "api"
)

type Decision int

const (
	Allow Decision = iota
	DenyRedirect
	DenyForbidden
)

func (d Decision) String() string {
	switch d {
	case DenyRedirect:
		return "deny-redirect"
	case DenyForbidden:
		return "deny-forbidden"
	default:
		return "allow"
	}
}

// Check applies the access table: reads are public on both surfaces, writes need
// a signed-in actor. Anonymous HTML writes are redirected to the login page and
// anonymous API writes are refused outright.
func Check(actor ActorKind, op Operation, surface Surface) Decision {
	if op.IsRead() || actor != Anonymous {
		return Allow
	}
	if surface == SurfaceHTML {
		return DenyRedirect
	}
	return DenyForbidden
}

// LoginRedirect builds the login URL carrying the original request URI in `next`
func LoginRedirect(loginURL, requestURI string) string {
	return loginURL + "?" + url.Values{"next": {requestURI}}.Encode()
}

// SafeNext returns next when it is a local absolute path, otherwise fallback.
// Protocol-relative and absolute URLs are rejected to avoid open redirects.
func SafeNext(next, fallback string) string {
	if next == "" || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
