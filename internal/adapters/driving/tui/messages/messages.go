// Package messages holds the tea.Msg types exchanged between TUI views.
package messages

import (
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

// QuestionAsked is sent when a question should be answered, for example when
// an example question is picked from the list.
type QuestionAsked struct {
	Text string
}

// QueryCompleted carries the answer to a question back to the model.
type QueryCompleted struct {
	Question string
	Result   *domain.QueryResult
	Err      error
}

// StatusLoaded carries an index status snapshot.
type StatusLoaded struct {
	Status *domain.IndexStatus
	Err    error
}

// ViewChanged asks the app to switch views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies a screen of the TUI.
type ViewType int

// Screens, in menu order where they appear in the menu.
const (
	ViewMenu ViewType = iota
	ViewConsole
	ViewExamples
	ViewHelp
	ViewDocuments
	ViewDocContent
	ViewDocDetails
)

var viewNames = [...]string{
	ViewMenu:       "menu",
	ViewConsole:    "console",
	ViewExamples:   "examples",
	ViewHelp:       "help",
	ViewDocuments:  "documents",
	ViewDocContent: "doc_content",
	ViewDocDetails: "doc_details",
}

// String returns the view's name, or "unknown".
func (v ViewType) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// ErrorOccurred reports an error no view handled.
type ErrorOccurred struct {
	Err error
}

// Quit exits the program.
type Quit struct{}

// DocumentsLoaded is the result of listing the corpus.
type DocumentsLoaded struct {
	Documents []domain.Document
	Err       error
}

// DocumentSelected opens a document's content view.
type DocumentSelected struct {
	Document domain.Document
}

// DocumentContentLoaded carries the content of a document.
type DocumentContentLoaded struct {
	DocumentID string
	Content    string
	Err        error
}

// DocumentDetailsLoaded carries a document and its chunk count.
type DocumentDetailsLoaded struct {
	Document *domain.Document
	Chunks   int
	Err      error
}

// DocumentOpened is the outcome of opening a document URL in the browser.
type DocumentOpened struct {
	DocumentID string
	Err        error
}

// AnswerCopied is the outcome of copying part of an answer to the clipboard.
type AnswerCopied struct {
	Label string
	Err   error
}
