package filler

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kevinkley/API-Extrator/internal/domain"
)

// Column places one Record field into a fixed spreadsheet column.
type Column struct {
	Letter string
	Field  string
	index  int
	value  func(domain.Record) any
}

// Columns is the field → column mapping of the Omie payables sheet. Columns
// not listed here belong to the template (formulas, manual input) and are
// never written.
var Columns = mustResolve([]Column{
	{Letter: "B", Field: "Fornecedor", value: func(r domain.Record) any { return r.Fornecedor }},
	{Letter: "C", Field: "Categoria", value: func(r domain.Record) any { return r.Categoria }},
	{Letter: "D", Field: "Conta Corrente", value: func(r domain.Record) any { return r.ContaCorrente }},
	{Letter: "E", Field: "Valor da Conta", value: func(r domain.Record) any { return r.ValorConta }},
	{Letter: "G", Field: "Projeto", value: func(r domain.Record) any { return r.Projeto }},
	{Letter: "H", Field: "Data de Emissão", value: func(r domain.Record) any { return r.DataEmissao }},
	{Letter: "I", Field: "Data de Registro", value: func(r domain.Record) any { return r.DataRegistro }},
	{Letter: "J", Field: "Data de Vencimento", value: func(r domain.Record) any { return r.DataVencimento }},
	{Letter: "M", Field: "Valor do Pagamento", value: func(r domain.Record) any { return r.ValorPagamento }},
	{Letter: "Q", Field: "Data de Conciliação", value: func(r domain.Record) any { return r.DataConciliacao }},
	{Letter: "R", Field: "Observações", value: func(r domain.Record) any { return r.Observacoes }},
	{Letter: "AJ", Field: "Chave Pix", value: func(r domain.Record) any { return r.ChavePix }},
	{Letter: "AW", Field: "Departamento (100%)", value: func(r domain.Record) any { return r.Departamento }},
})

func mustResolve(cols []Column) []Column {
	for i := range cols {
		idx, err := excelize.ColumnNameToNumber(cols[i].Letter)
		if err != nil {
			panic(fmt.Sprintf("coluna inválida %q: %v", cols[i].Letter, err))
		}
		cols[i].index = idx
	}
	return cols
}

// Index returns the 1-based position of the column (A=1, AA=27).
func (c Column) Index() int {
	return c.index
}
