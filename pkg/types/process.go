package types

import (
	"fmt"
	"strconv"
	"time"
)

// Process field names, as used by the REST API, grid columns and filters.
const (
	FieldID               = "id"
	FieldBatchID          = "batchId"
	FieldComarca          = "comarca"
	FieldForo             = "foro"
	FieldVara             = "vara"
	FieldClasse           = "classe"
	FieldProcesso         = "processo"
	FieldValor            = "valor"
	FieldRequerido        = "requerido"
	FieldContato          = "contato"
	FieldContatoRealizado = "contatoRealizado"
	FieldObservacoes      = "observacoes"
	FieldProcessed        = "processed"
	FieldErrorCount       = "errorCount"
	FieldLastError        = "lastError"
	FieldCreatedAt        = "createdAt"
	FieldUpdatedAt        = "updatedAt"
)

// Process is one lawsuit extracted from an imported batch, enriched by the
// court lookup and annotated with contact follow-up.
type Process struct {
	ID               int64     `json:"id"`
	BatchID          int64     `json:"batchId"`
	Comarca          string    `json:"comarca"`
	Foro             string    `json:"foro"`
	Vara             string    `json:"vara"`
	Classe           string    `json:"classe"`
	Processo         string    `json:"processo"`
	Valor            *float64  `json:"valor,omitempty"`
	Requerido        *string   `json:"requerido,omitempty"`
	Contato          string    `json:"contato"`
	ContatoRealizado bool      `json:"contatoRealizado"`
	Observacoes      string    `json:"observacoes"`
	Processed        bool      `json:"processed"`
	ErrorCount       int       `json:"errorCount"`
	LastError        string    `json:"lastError"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Key returns the process ID as the grid row key.
func (p *Process) Key() string { return strconv.FormatInt(p.ID, 10) }

// Value returns the value of the named field, or nil for unknown fields.
func (p *Process) Value(field string) any {
	switch field {
	case FieldID:
		return p.ID
	case FieldBatchID:
		return p.BatchID
	case FieldComarca:
		return p.Comarca
	case FieldForo:
		return p.Foro
	case FieldVara:
		return p.Vara
	case FieldClasse:
		return p.Classe
	case FieldProcesso:
		return p.Processo
	case FieldValor:
		return p.Valor
	case FieldRequerido:
		return p.Requerido
	case FieldContato:
		return p.Contato
	case FieldContatoRealizado:
		return p.ContatoRealizado
	case FieldObservacoes:
		return p.Observacoes
	case FieldProcessed:
		return p.Processed
	case FieldErrorCount:
		return p.ErrorCount
	case FieldLastError:
		return p.LastError
	case FieldCreatedAt:
		return p.CreatedAt
	case FieldUpdatedAt:
		return p.UpdatedAt
	}
	return nil
}

// SetValue applies an edit to one of the contact fields in place.
// Returns ErrFieldNotEditable for any other field and ErrTypeMismatch when
// value has the wrong type.
func (p *Process) SetValue(field string, value any) error {
	u, err := ContactUpdateFor(field, value)
	if err != nil {
		return err
	}
	u.Apply(p)
	return nil
}

// Clone returns a deep copy of the process.
func (p *Process) Clone() *Process {
	c := *p
	if p.Valor != nil {
		v := *p.Valor
		c.Valor = &v
	}
	if p.Requerido != nil {
		r := *p.Requerido
		c.Requerido = &r
	}
	return &c
}

// ContactUpdate is the body of PATCH /process/{id}/contact. Nil fields are
// left unchanged.
type ContactUpdate struct {
	Contato          *string `json:"contato,omitempty"`
	ContatoRealizado *bool   `json:"contatoRealizado,omitempty"`
	Observacoes      *string `json:"observacoes,omitempty"`
}

// ContactUpdateFor builds the update for a single edited field. Only
// contato, contatoRealizado and observacoes are editable. A nil value for
// a text field clears it.
func ContactUpdateFor(field string, value any) (ContactUpdate, error) {
	switch field {
	case FieldContato, FieldObservacoes:
		var s string
		switch v := value.(type) {
		case nil:
		case string:
			s = v
		default:
			return ContactUpdate{}, fmt.Errorf("%s: %T: %w", field, value, ErrTypeMismatch)
		}
		if field == FieldContato {
			return ContactUpdate{Contato: &s}, nil
		}
		return ContactUpdate{Observacoes: &s}, nil
	case FieldContatoRealizado:
		b, ok := value.(bool)
		if !ok {
			return ContactUpdate{}, fmt.Errorf("%s: %T: %w", field, value, ErrTypeMismatch)
		}
		return ContactUpdate{ContatoRealizado: &b}, nil
	}
	return ContactUpdate{}, fmt.Errorf("%s: %w", field, ErrFieldNotEditable)
}

// IsEmpty reports whether the update changes nothing.
func (u ContactUpdate) IsEmpty() bool {
	return u.Contato == nil && u.ContatoRealizado == nil && u.Observacoes == nil
}

// Apply copies the set fields of u onto p.
func (u ContactUpdate) Apply(p *Process) {
	if u.Contato != nil {
		p.Contato = *u.Contato
	}
	if u.ContatoRealizado != nil {
		p.ContatoRealizado = *u.ContatoRealizado
	}
	if u.Observacoes != nil {
		p.Observacoes = *u.Observacoes
	}
}

// ProcessPage is one page of the process listing.
type ProcessPage struct {
	Items      []Process `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
}

// NewProcessPage fills the paging fields of a page from the total count.
func NewProcessPage(items []Process, total, page, limit int) ProcessPage {
	if items == nil {
		items = []Process{}
	}
	return ProcessPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}
}

// TotalPages returns the number of pages of size limit needed for total
// rows; at least one.
func TotalPages(total, limit int) int {
	if limit < 1 || total <= limit {
		return 1
	}
	return (total + limit - 1) / limit
}
