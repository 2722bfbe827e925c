package domain

import (
	"encoding/xml"

	"github.com/shopspring/decimal"
)

func init() {
	// omzet é serializado como número JSON, não como string.
	decimal.MarshalJSONWithoutQuotes = true
}

// Branch representa um filiaal (a Entidade).
// O ID é atribuído pelo banco na inserção e nunca vem do cliente.
type Branch struct {
	XMLName      xml.Name        `json:"-" xml:"filiaal"`
	ID           int64           `json:"id" xml:"id"`
	Name         string          `json:"naam" xml:"naam"`
	Municipality string          `json:"gemeente" xml:"gemeente"`
	Revenue      decimal.Decimal `json:"omzet" xml:"omzet" swaggertype:"number"`
}

// NewBranch cria um filiaal ainda sem identidade.
func NewBranch(name, municipality string, revenue decimal.Decimal) Branch {
	return Branch{Name: name, Municipality: municipality, Revenue: revenue}
}

// WithID devolve uma cópia do filiaal com o id dado e os demais campos intactos.
func (b Branch) WithID(id int64) Branch {
	b.ID = id
	return b
}

// Summary devolve a projeção {id, naam} usada na listagem.
func (b Branch) Summary() BranchSummary {
	return BranchSummary{ID: b.ID, Name: b.Name}
}

// BranchSummary é a projeção resumida de um filiaal.
type BranchSummary struct {
	ID   int64  `json:"id" xml:"id"`
	Name string `json:"naam" xml:"naam"`
}
