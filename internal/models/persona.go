package models

import (
	"errors"
	"fmt"
)

// Persona is the closed set of role labels that control prompt tone and content.
type Persona string

const (
	PersonaExecutive    Persona = "Executive"
	PersonaDeveloper    Persona = "Developer"
	PersonaHRSpecialist Persona = "HR Specialist"
	PersonaStudent      Persona = "Student"
	PersonaGeneral      Persona = "General"
)

// ErrUnknownPersona is returned when a label is not one of the five personas.
var ErrUnknownPersona = errors.New("unknown persona")

// AllPersonas lists every persona in presentation order.
func AllPersonas() []Persona {
	return []Persona{
		PersonaExecutive,
		PersonaDeveloper,
		PersonaHRSpecialist,
		PersonaStudent,
		PersonaGeneral,
	}
}

// ParsePersona validates a raw label against the enumerated set.
func ParsePersona(label string) (Persona, error) {
	switch Persona(label) {
	case PersonaExecutive, PersonaDeveloper, PersonaHRSpecialist, PersonaStudent, PersonaGeneral:
		return Persona(label), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPersona, label)
	}
}

func (p Persona) String() string { return string(p) }
