package excel

// ReaderConfig controls how tabular files are decoded.
type ReaderConfig struct {
	// Sheet is the worksheet read from XLSX files. Empty picks the first sheet.
	Sheet string `json:"sheet" yaml:"sheet"`
	// Comma is the CSV field delimiter.
	Comma rune `json:"comma" yaml:"comma"`
	// MaxRows caps the number of data rows read. Zero reads everything.
	MaxRows int `json:"max_rows" yaml:"max_rows"`
}

// DefaultReaderConfig reads the first sheet and comma-separated CSV.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{Comma: ','}
}
