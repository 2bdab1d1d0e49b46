package extractor

import "fmt"

// ExtractionError represents a failure to open or parse a PDF document.
type ExtractionError struct {
	Path string
	Page int // 0 when the failure happened before any page was read
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("falha ao ler o PDF %q (página %d): %v", e.Path, e.Page, e.Err)
	}
	return fmt.Sprintf("falha ao ler o PDF %q: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func newExtractionError(path string, page int, err error) *ExtractionError {
	return &ExtractionError{Path: path, Page: page, Err: err}
}
