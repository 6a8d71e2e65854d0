// Package report holds the typed report payload handed over by the form layer,
// together with the helpers that turn optional values into printable text.
package report

import "golang.org/x/text/unicode/norm"

// Data is the complete payload for one report. Every field is optional; the
// layout substitutes Fallback for anything left empty.
type Data struct {
	Variant Variant `yaml:"tipoRelatorio" json:"tipoRelatorio"`

	Region   string   `yaml:"estado" json:"estado"`
	Locality string   `yaml:"municipio" json:"municipio"`
	Entities []Entity `yaml:"entidadesOrgaos" json:"entidadesOrgaos"`

	Modules     []string `yaml:"modulos" json:"modulos"`
	OtherModule string   `yaml:"outroModulo" json:"outroModulo"`

	// Service reports only.
	ServicesPerformed []string `yaml:"servicosRealizados" json:"servicosRealizados"`
	OtherService      string   `yaml:"outroServico" json:"outroServico"`
	Summary           string   `yaml:"resumoServicos" json:"resumoServicos"`

	// Migration reports only.
	Stages                 []Stage    `yaml:"etapas" json:"etapas"`
	CriticalSituations     []string   `yaml:"situacoesCriticas" json:"situacoesCriticas"`
	OtherCriticalSituation string     `yaml:"outraSituacaoCritica" json:"outraSituacaoCritica"`
	Solutions              []Solution `yaml:"solucoes" json:"solucoes"`
	AdditionalDetails      string     `yaml:"detalhamentoAdicional" json:"detalhamentoAdicional"`

	ServiceDate    Date            `yaml:"dataServico" json:"dataServico"`
	Technicians    []string        `yaml:"tecnicos" json:"tecnicos"`
	ClientContacts []ClientContact `yaml:"clienteNomeCpf" json:"clienteNomeCpf"`
}

// Entity is a public body served by the report, identified by its CNPJ.
type Entity struct {
	Name  string `yaml:"entidade" json:"entidade"`
	TaxID string `yaml:"cnpj" json:"cnpj"`
}

// Stage is one row of the migration timeline.
type Stage struct {
	Name   string `yaml:"nome" json:"nome"`
	Status string `yaml:"situacao" json:"situacao"`
	Start  Date   `yaml:"inicio" json:"inicio"`
	End    Date   `yaml:"fim" json:"fim"`
}

// Solution is a dated remediation proposed during a migration.
type Solution struct {
	Date        Date   `yaml:"data" json:"data"`
	Description string `yaml:"descricao" json:"descricao"`
}

// ClientContact is a client-side technician or manager, identified by CPF.
type ClientContact struct {
	Name  string `yaml:"nome" json:"nome"`
	TaxID string `yaml:"cpf" json:"cpf"`
}

// Normalize rewrites every string to NFC so composed and decomposed accents
// measure and render identically.
func (d *Data) Normalize() {
	n := norm.NFC.String
	d.Region = n(d.Region)
	d.Locality = n(d.Locality)
	for i := range d.Entities {
		d.Entities[i].Name = n(d.Entities[i].Name)
		d.Entities[i].TaxID = n(d.Entities[i].TaxID)
	}
	normalizeAll(d.Modules)
	d.OtherModule = n(d.OtherModule)
	normalizeAll(d.ServicesPerformed)
	d.OtherService = n(d.OtherService)
	d.Summary = n(d.Summary)
	for i := range d.Stages {
		d.Stages[i].Name = n(d.Stages[i].Name)
		d.Stages[i].Status = n(d.Stages[i].Status)
	}
	normalizeAll(d.CriticalSituations)
	d.OtherCriticalSituation = n(d.OtherCriticalSituation)
	for i := range d.Solutions {
		d.Solutions[i].Description = n(d.Solutions[i].Description)
	}
	d.AdditionalDetails = n(d.AdditionalDetails)
	normalizeAll(d.Technicians)
	for i := range d.ClientContacts {
		d.ClientContacts[i].Name = n(d.ClientContacts[i].Name)
		d.ClientContacts[i].TaxID = n(d.ClientContacts[i].TaxID)
	}
}

func normalizeAll(items []string) {
	for i := range items {
		items[i] = norm.NFC.String(items[i])
	}
}
