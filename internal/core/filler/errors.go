package filler

import (
	"fmt"
	"strings"

	"github.com/schollz/closestmatch"
)

// TemplateError indicates the target sheet is not present in the template.
type TemplateError struct {
	Sheet      string
	Available  []string
	Suggestion string
}

func (e *TemplateError) Error() string {
	msg := fmt.Sprintf("a aba '%s' não existe na planilha modelo", e.Sheet)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (você quis dizer '%s'?)", e.Suggestion)
	}
	if len(e.Available) > 0 {
		msg += fmt.Sprintf("; abas disponíveis: %s", strings.Join(e.Available, ", "))
	}
	return msg
}

func newTemplateError(sheet string, available []string) *TemplateError {
	e := &TemplateError{Sheet: sheet, Available: available}
	for _, name := range available {
		if strings.EqualFold(name, sheet) {
			e.Suggestion = name
			return e
		}
	}
	if len(available) > 0 && sheet != "" {
		cm := closestmatch.New(available, []int{2, 3})
		if match := cm.Closest(sheet); match != sheet {
			e.Suggestion = match
		}
	}
	return e
}
