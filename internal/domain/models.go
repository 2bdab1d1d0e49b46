// package domain/models.go
package domain

import "time"

// Valores fixos atribuídos a todo registro extraído.
const (
	CategoriaPadrao      = "Prestação de Serviços Médicos"
	ContaCorrentePadrao  = "Omie.CASH"
	ProjetoPadrao        = "Projeto Padrão"
	DataVencimentoPadrao = "15/08/2025"
	DepartamentoPadrao   = "Financeiro"
)

// DateLayout is the day/month/year layout used for every date field.
const DateLayout = "02/01/2006"

// --- Modelos do Extrator ---

// Record representa uma linha de contas a pagar pronta para a planilha modelo.
type Record struct {
	Fornecedor      string  `json:"fornecedor"`
	Categoria       string  `json:"categoria"`
	ContaCorrente   string  `json:"conta_corrente"`
	ValorConta      float64 `json:"valor_conta"`
	Projeto         string  `json:"projeto"`
	DataEmissao     string  `json:"data_emissao"`
	DataRegistro    string  `json:"data_registro"`
	DataVencimento  string  `json:"data_vencimento"`
	ValorPagamento  float64 `json:"valor_pagamento"`
	DataConciliacao string  `json:"data_conciliacao"`
	Observacoes     string  `json:"observacoes"`
	ChavePix        string  `json:"chave_pix"`
	Departamento    string  `json:"departamento"`
}

// NewRecord builds a Record from the fields read from the PDF, filling in
// the business defaults. Both dates are the extraction date.
func NewRecord(fornecedor string, valor float64, chavePix string, now time.Time) Record {
	hoje := now.Format(DateLayout)
	return Record{
		Fornecedor:      fornecedor,
		Categoria:       CategoriaPadrao,
		ContaCorrente:   ContaCorrentePadrao,
		ValorConta:      valor,
		Projeto:         ProjetoPadrao,
		DataEmissao:     hoje,
		DataRegistro:    hoje,
		DataVencimento:  DataVencimentoPadrao,
		ValorPagamento:  valor,
		DataConciliacao: "",
		Observacoes:     "",
		ChavePix:        chavePix,
		Departamento:    DepartamentoPadrao,
	}
}

// AmountStatus tells how a monetary cell was resolved.
type AmountStatus int

// Possible outcomes of parsing a monetary cell.
const (
	AmountParsed AmountStatus = iota
	AmountMissing
	AmountInvalid
)

func (s AmountStatus) String() string {
	switch s {
	case AmountParsed:
		return "parsed"
	case AmountMissing:
		return "missing"
	case AmountInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Amount is the result of a parse-or-default monetary conversion.
// Value is 0 whenever Status is not AmountParsed.
type Amount struct {
	Value  float64
	Status AmountStatus
	Raw    string
}

// Defaulted reports whether Value came from the fallback instead of the text.
func (a Amount) Defaulted() bool {
	return a.Status != AmountParsed
}
