package tui

import "github.com/matheuskafuri/newsticker/internal/source"

// resolvedMsg carries a finished cycle back to the model together with the
// ticket it was started under.
type resolvedMsg struct {
	ticket  source.Ticket
	outcome source.Outcome
}

type refreshTickMsg struct{}

type frameMsg struct{}

type noticeExpiredMsg struct {
	id int
}

type openErrMsg struct {
	err error
}
