package service

// XLSXContentType is the media type of spreadsheet exports
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportFile is a generated download
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
