package filler

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kevinkley/API-Extrator/internal/domain"
	"github.com/kevinkley/API-Extrator/internal/testutil"
)

const sheet = "Omie_Contas_Pagar"

func hashFile(t *testing.T, path string) [32]byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return sha256.Sum256(data)
}

// writeOmieTemplate builds a template with a header row, one existing data
// row and a formula in the untouched column F.
func writeOmieTemplate(t *testing.T, dir string) string {
	t.Helper()
	path := testutil.WriteTemplate(t, dir, "planilha_teste.xlsx", sheet, [][]any{
		{"", "Fornecedor", "Categoria", "Conta Corrente", "Valor da Conta"},
		{"", "Existente Ltda", "Outros", "Banco", 10.5},
	}, "Instrucoes")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.SetCellFormula(sheet, "F2", "E2*2"))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())
	return path
}

func sampleRecords() []domain.Record {
	now := time.Date(2025, time.July, 3, 0, 0, 0, 0, time.UTC)
	return []domain.Record{
		domain.NewRecord("Maria Souza", 1234.56, "maria@pix.com", now),
		domain.NewRecord("Bruno Reis", 45, "", now),
	}
}

func newTestService(outDir string) *service {
	return NewService(outDir, nil).(*service)
}

func TestColumns(t *testing.T) {
	want := map[string]int{
		"B": 2, "C": 3, "D": 4, "E": 5, "G": 7, "H": 8, "I": 9, "J": 10,
		"M": 13, "Q": 17, "R": 18, "AJ": 36, "AW": 49,
	}
	require.Len(t, Columns, len(want))
	for _, col := range Columns {
		assert.Equal(t, want[col.Letter], col.Index(), col.Letter)
	}
}

func TestFill_AppendsAfterLastRow(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "saida")
	tpl := writeOmieTemplate(t, dir)
	before := hashFile(t, tpl)

	result, err := newTestService(outDir).Fill(sampleRecords(), tpl, sheet)
	require.NoError(t, err)
	assert.Equal(t, outDir, filepath.Dir(result))
	assert.Regexp(t, `^resultado_\d{8}_\d{6}_[0-9a-f]{8}\.xlsx$`, filepath.Base(result))
	assert.Equal(t, before, hashFile(t, tpl), "template must not change")

	f, err := excelize.OpenFile(result)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	// existing rows untouched
	assert.Equal(t, "Fornecedor", get("B1"))
	assert.Equal(t, "Existente Ltda", get("B2"))
	formula, err := f.GetCellFormula(sheet, "F2")
	require.NoError(t, err)
	assert.Equal(t, "E2*2", formula)

	// first record on row 3
	assert.Equal(t, "Maria Souza", get("B3"))
	assert.Equal(t, domain.CategoriaPadrao, get("C3"))
	assert.Equal(t, domain.ContaCorrentePadrao, get("D3"))
	assert.Equal(t, "1234.56", get("E3"))
	assert.Equal(t, domain.ProjetoPadrao, get("G3"))
	assert.Equal(t, "03/07/2025", get("H3"))
	assert.Equal(t, "03/07/2025", get("I3"))
	assert.Equal(t, domain.DataVencimentoPadrao, get("J3"))
	assert.Equal(t, "1234.56", get("M3"))
	assert.Equal(t, "", get("Q3"))
	assert.Equal(t, "", get("R3"))
	assert.Equal(t, "maria@pix.com", get("AJ3"))
	assert.Equal(t, domain.DepartamentoPadrao, get("AW3"))

	// second record on row 4, no gaps
	assert.Equal(t, "Bruno Reis", get("B4"))
	assert.Equal(t, "45", get("E4"))
	assert.Equal(t, "45", get("M4"))

	// reserved columns never written
	for _, cell := range []string{"A3", "F3", "K3", "L3", "N3", "O3", "P3", "S3", "AI3", "AK3", "AV3", "AX3"} {
		assert.Equal(t, "", get(cell), cell)
	}
}

func TestFill_RepeatedCallsNeverCompound(t *testing.T) {
	dir := t.TempDir()
	tpl := writeOmieTemplate(t, dir)
	before := hashFile(t, tpl)
	svc := newTestService(dir)

	first, err := svc.Fill(sampleRecords(), tpl, sheet)
	require.NoError(t, err)
	second, err := svc.Fill(sampleRecords(), tpl, sheet)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, before, hashFile(t, tpl))

	for _, path := range []string{first, second} {
		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		rows, err := f.GetRows(sheet)
		require.NoError(t, err)
		assert.Len(t, rows, 4, path)
		require.NoError(t, f.Close())
	}
}

func TestFill_EmptyRecords(t *testing.T) {
	dir := t.TempDir()
	tpl := writeOmieTemplate(t, dir)

	result, err := newTestService(dir).Fill(nil, tpl, sheet)
	require.NoError(t, err)

	f, err := excelize.OpenFile(result)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, []string{sheet, "Instrucoes"}, f.GetSheetList())
}

func TestFill_EmptySheetStartsAtFirstRow(t *testing.T) {
	dir := t.TempDir()
	tpl := testutil.WriteTemplate(t, dir, "vazio.xlsx", sheet, nil)

	result, err := newTestService(dir).Fill(sampleRecords()[:1], tpl, sheet)
	require.NoError(t, err)

	f, err := excelize.OpenFile(result)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(sheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", v)
}

func TestFill_MissingSheet(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "saida")
	tpl := writeOmieTemplate(t, dir)
	before := hashFile(t, tpl)

	result, err := newTestService(outDir).Fill(sampleRecords(), tpl, "NoSuchSheet")
	assert.Empty(t, result)

	var tplErr *TemplateError
	require.ErrorAs(t, err, &tplErr)
	assert.Equal(t, "NoSuchSheet", tplErr.Sheet)
	assert.Equal(t, []string{sheet, "Instrucoes"}, tplErr.Available)
	assert.Contains(t, err.Error(), "a aba 'NoSuchSheet' não existe na planilha modelo")

	assert.Equal(t, before, hashFile(t, tpl))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "orphaned copy must be removed")
}

func TestFill_SheetNameIsCaseSensitive(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "saida")
	tpl := writeOmieTemplate(t, dir)

	_, err := newTestService(outDir).Fill(sampleRecords(), tpl, "OMIE_CONTAS_PAGAR")

	var tplErr *TemplateError
	require.ErrorAs(t, err, &tplErr)
	assert.Equal(t, sheet, tplErr.Suggestion)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFill_SparseTemplateRows(t *testing.T) {
	dir := t.TempDir()
	tpl := writeOmieTemplate(t, dir)

	f, err := excelize.OpenFile(tpl)
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue(sheet, "B7", "Linha solta"))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	t.Run("populated row after a gap", func(t *testing.T) {
		result, err := newTestService(t.TempDir()).Fill(sampleRecords()[:1], tpl, sheet)
		require.NoError(t, err)

		out, err := excelize.OpenFile(result)
		require.NoError(t, err)
		defer out.Close()

		for cell, want := range map[string]string{"B3": "", "B7": "Linha solta", "B8": "Maria Souza"} {
			got, err := out.GetCellValue(sheet, cell)
			require.NoError(t, err)
			assert.Equal(t, want, got, cell)
		}
	})

	t.Run("formatting-only row counts as last row", func(t *testing.T) {
		styled := filepath.Join(t.TempDir(), "estilo.xlsx")
		f, err := excelize.OpenFile(tpl)
		require.NoError(t, err)
		require.NoError(t, f.SetRowHeight(sheet, 10, 30))
		require.NoError(t, f.SaveAs(styled))
		require.NoError(t, f.Close())

		result, err := newTestService(t.TempDir()).Fill(sampleRecords()[:1], styled, sheet)
		require.NoError(t, err)

		out, err := excelize.OpenFile(result)
		require.NoError(t, err)
		defer out.Close()

		got, err := out.GetCellValue(sheet, "B11")
		require.NoError(t, err)
		assert.Equal(t, "Maria Souza", got)
		got, err = out.GetCellValue(sheet, "B8")
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})
}

func TestFill_MissingSheetSuggestion(t *testing.T) {
	dir := t.TempDir()
	tpl := writeOmieTemplate(t, dir)

	_, err := newTestService(dir).Fill(nil, tpl, "Omie_Contas_Paga")

	var tplErr *TemplateError
	require.ErrorAs(t, err, &tplErr)
	assert.Equal(t, sheet, tplErr.Suggestion)
	assert.Contains(t, err.Error(), "você quis dizer 'Omie_Contas_Pagar'")
}

func TestFill_TemplateErrors(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "saida")

	t.Run("missing template", func(t *testing.T) {
		_, err := newTestService(outDir).Fill(nil, filepath.Join(dir, "nao-existe.xlsx"), sheet)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "erro ao abrir a planilha modelo")
	})

	t.Run("template is not a spreadsheet", func(t *testing.T) {
		bad := filepath.Join(dir, "quebrada.xlsx")
		require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0644))

		_, err := newTestService(outDir).Fill(nil, bad, sheet)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "erro ao abrir a cópia da planilha modelo")

		entries, err := os.ReadDir(outDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
