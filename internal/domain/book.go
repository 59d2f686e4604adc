// Package domain contains the entities the circulation client exchanges with
// the remote library service. The client never owns durable state: every
// value here is a snapshot of what the service last returned.
package domain

import "strings"

// Book is a catalog entry, keyed by ISBN. Quantity is the total copies
// owned; the service decrements it on loan issue and increments it on
// return.
type Book struct {
	ISBN               string `json:"isbn" validate:"required"`
	Title              string `json:"title" validate:"required"`
	Author             string `json:"author" validate:"required"`
	CoverImageURL      string `json:"coverImageUrl,omitempty" validate:"omitempty,url"`
	Keywords           string `json:"keywords,omitempty"`
	Synopsis           string `json:"synopsis,omitempty"`
	EntryDate          Time   `json:"entryDate,omitzero"`
	Quantity           int    `json:"quantity" validate:"gte=0"`
	ActiveReservations int    `json:"activeReservationsCount,omitempty"`
}

// SearchText concatenates the fields a catalog search matches against.
func (b Book) SearchText() string {
	return strings.Join([]string{b.Title, b.Author, b.ISBN, b.Keywords}, " ")
}

// Label is the display string a selection widget shows for a chosen book.
func (b Book) Label() string {
	if b.Author == "" {
		return b.Title
	}
	return b.Title + " (" + b.Author + ")"
}
