package report

import (
	"fmt"
	"strings"
)

// Fallback is printed wherever a value was not informed.
const Fallback = "Não informado"

// OtherOption is the multi-select entry that enables a free-text supplement.
const OtherOption = "Outro"

// Or returns s, or Fallback when s is blank.
func Or(s string) string {
	if strings.TrimSpace(s) == "" {
		return Fallback
	}
	return s
}

// JoinWithOther joins the selected options with ", ". When OtherOption was
// selected it is dropped and the non-empty supplement appended in its place.
func JoinWithOther(selected []string, other string) string {
	if len(selected) == 0 {
		return Fallback
	}
	parts := make([]string, 0, len(selected)+1)
	hasOther := false
	for _, s := range selected {
		if s == OtherOption {
			hasOther = true
			continue
		}
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	if hasOther && strings.TrimSpace(other) != "" {
		parts = append(parts, strings.TrimSpace(other))
	}
	if len(parts) == 0 {
		return Fallback
	}
	return strings.Join(parts, ", ")
}

// JoinOr joins items with ", " or returns Fallback for an empty list.
func JoinOr(items []string) string {
	return JoinWithOther(items, "")
}

// Label renders "name (QUALIFIER: value)" as printed for entities and contacts.
func Label(name, qualifier, value string) string {
	return fmt.Sprintf("%s (%s: %s)", Or(name), qualifier, Or(value))
}

// EntityLabels lists entities as "Name (CNPJ: xx)".
func EntityLabels(entities []Entity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, Label(e.Name, "CNPJ", e.TaxID))
	}
	return out
}

// ContactsText joins client contacts as "Name (CPF: xx), ...", or Fallback.
func ContactsText(contacts []ClientContact) string {
	if len(contacts) == 0 {
		return Fallback
	}
	parts := make([]string, 0, len(contacts))
	for _, c := range contacts {
		parts = append(parts, Label(c.Name, "CPF", c.TaxID))
	}
	return strings.Join(parts, ", ")
}
