package domain

import "strings"

// Student is a registered borrower, keyed by matricula (enrollment number).
// Email and CPF are unique service-side; the client validates shape before
// submitting so obviously malformed records never leave the form.
type Student struct {
	Matricula    string `json:"matricula" validate:"required"`
	Name         string `json:"nome" validate:"required"`
	CPF          string `json:"cpf" validate:"required,len=11,numeric"`
	BirthDate    Time   `json:"dataNascimento,omitzero"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"telefone,omitempty"`
	Reservations int    `json:"reservationsCount,omitempty"`
}

// SearchText concatenates the fields a student search matches against.
func (s Student) SearchText() string {
	return strings.Join([]string{s.Name, s.Matricula, s.CPF, s.Email}, " ")
}

// Label is the display string a selection widget shows for a chosen student.
func (s Student) Label() string {
	if s.Matricula == "" {
		return s.Name
	}
	return s.Name + " (" + s.Matricula + ")"
}
