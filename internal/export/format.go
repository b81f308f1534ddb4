// Package export implements the multi-format export engine: a dispatcher
// that filters, sorts and selects invoice snapshots, and five stateless
// renderers that project them into format-specific byte streams.
package export

import "strings"

// Format identifies an export output format
type Format string

const (
	FormatXML   Format = "Xml"
	FormatExcel Format = "Excel"
	FormatCSV   Format = "Csv"
	FormatPDF   Format = "Pdf"
	FormatJSON  Format = "Json"
)

// Formats lists the supported formats in their stable enumeration order
func Formats() []Format {
	return []Format{FormatXML, FormatExcel, FormatCSV, FormatPDF, FormatJSON}
}

// ParseFormat resolves a case-insensitive format name or its numeric value
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xml", "1":
		return FormatXML, true
	case "excel", "xlsx", "2":
		return FormatExcel, true
	case "csv", "3":
		return FormatCSV, true
	case "pdf", "4":
		return FormatPDF, true
	case "json", "5":
		return FormatJSON, true
	}
	return "", false
}

// Value returns the stable numeric value of the format
func (f Format) Value() int {
	switch f {
	case FormatXML:
		return 1
	case FormatExcel:
		return 2
	case FormatCSV:
		return 3
	case FormatPDF:
		return 4
	case FormatJSON:
		return 5
	}
	return 0
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatXML:
		return "application/xml"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// Extension returns the file extension without the dot
func (f Format) Extension() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatExcel:
		return "xlsx"
	case FormatCSV:
		return "csv"
	case FormatPDF:
		return "pdf"
	case FormatJSON:
		return "json"
	}
	return "bin"
}

// Description returns a human-readable description of the format
func (f Format) Description() string {
	switch f {
	case FormatXML:
		return "UBL XML format for e-invoicing compliance"
	case FormatExcel:
		return "Excel spreadsheet with multiple sheets"
	case FormatCSV:
		return "Comma-separated values for data analysis"
	case FormatPDF:
		return "PDF document for printing and sharing"
	case FormatJSON:
		return "JSON format for API integration"
	}
	return "Unknown format"
}

// FormatInfo describes a format for the formats listing endpoint
type FormatInfo struct {
	Value       int    `json:"value"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ContentType string `json:"contentType"`
}

// FormatInfos returns the static enumeration of all supported formats
func FormatInfos() []FormatInfo {
	formats := Formats()
	infos := make([]FormatInfo, 0, len(formats))
	for _, f := range formats {
		infos = append(infos, FormatInfo{
			Value:       f.Value(),
			Name:        string(f),
			Description: f.Description(),
			ContentType: f.ContentType(),
		})
	}
	return infos
}
