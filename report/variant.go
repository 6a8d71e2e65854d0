package report

import (
	"fmt"
	"strings"
)

// Variant selects the report flavour and, through the section plan, its section order.
type Variant string

const (
	Service   Variant = "servicos"
	Migration Variant = "migracao"
)

// ParseVariant accepts the form value ("servicos"/"migracao") or the English slug.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "servicos", "serviços", "service", "services":
		return Service, nil
	case "migracao", "migração", "migration":
		return Migration, nil
	default:
		return "", fmt.Errorf("unknown report variant %q", s)
	}
}

// Label is the human readable variant name printed on the attachments index.
func (v Variant) Label() string {
	if v == Migration {
		return "Migração"
	}
	return "Serviços"
}

// Title is the headline printed on every page of the main report.
func (v Variant) Title() string {
	if v == Migration {
		return "Relatório Técnico de Migração"
	}
	return "Relatório Técnico de Serviços"
}

func (v Variant) String() string { return string(v) }
