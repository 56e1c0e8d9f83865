// Package services orchestrates the listing and user workflows: sanitizing
// and validating input, enforcing ownership, calling the repositories and
// reporting a structured outcome to the transport layer.
package services

import "github.com/dmitrijs2005/workboard/internal/server/session"

// Session identifies the acting session for one request. The zero value
// means no authenticated session.
type Session struct {
	ID     string
	UserID int64
}

// Outcome is the discriminated result of a workflow action. The transport
// layer decides how each variant renders; the workflow never writes to the
// response itself.
type Outcome interface {
	isOutcome()
}

// Rejected means validation failed: a message per failing field (first
// failure only) plus the input to echo back into the form.
type Rejected struct {
	Errors map[string]string
	Echo   any
}

// Redirect sends the client to Location. Any flash explaining the result has
// already been written to the acting session.
type Redirect struct {
	Location string
}

// NotFound means the target resource does not exist.
type NotFound struct{}

// Authenticated is the success outcome of register and login: a signed
// session token plus the user snapshot now held by the session.
type Authenticated struct {
	Token    string
	User     session.User
	Location string
}

func (Rejected) isOutcome()      {}
func (Redirect) isOutcome()      {}
func (NotFound) isOutcome()      {}
func (Authenticated) isOutcome() {}
