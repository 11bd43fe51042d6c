package export

// Format selects the rendered output type.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Dataset defines tabular export content. Rows are keyed by header name so
// renderers stay order-stable against the Headers slice.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

// Valid reports whether the format is a known output type.
func (f Format) Valid() bool {
	return f == FormatCSV || f == FormatPDF
}

// Render produces the dataset in the requested format.
func Render(data Dataset, format Format) ([]byte, error) {
	if format == FormatPDF {
		return renderPDF(data)
	}
	return renderCSV(data)
}
