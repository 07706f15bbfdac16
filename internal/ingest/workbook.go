// Package ingest loads bank statement workbooks and converts them into the
// model types the analysis pipeline works on.
//
// This package handles the quirks of real-world statement exports: two
// container formats, inconsistent cell formatting, partially filled balance
// grids and rows that fail to parse.
//
// Key features:
//   - Reads both modern .xlsx and legacy .xls statement exports
//   - Detects the container format from file content, not the extension
//   - Validates the expected sheets and column headers before parsing
//   - Skips malformed rows with per-row error accounting instead of aborting
//   - Reshapes the wide day-by-month balance grid into ordered snapshots
//   - Degrades gracefully when the balance sheet is missing or broken
//
// Example usage:
//
//	parser, err := NewStatementParser(DefaultWorkbookConfig())
//	statement, stats, err := parser.ParseFile("statement.xlsx")
//
// Transaction sheet problems are fatal because every analysis depends on it;
// balance sheet problems are reported as warnings on the returned Statement.
package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang-statement-analyzer/pkg/errors"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// WorkbookReader abstracts the spreadsheet container so the statement
// parser does not care which format the bank exported
type WorkbookReader interface {
	// SheetNames returns the sheet names in workbook order
	SheetNames() []string
	// Rows returns all rows of the named sheet as trimmed-right string cells
	Rows(sheet string) ([][]string, error)
	// Close releases the underlying resources
	Close() error
}

// workbookFormat identifies the container format of a statement file
type workbookFormat int

const (
	formatUnknown workbookFormat = iota
	formatXLSX
	formatXLS
)

// Magic numbers of the two supported containers: xlsx files are zip
// archives, legacy xls files are OLE2 compound documents
var (
	xlsxMagic = []byte{0x50, 0x4B, 0x03, 0x04}
	xlsMagic  = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

func detectFormat(data []byte) workbookFormat {
	switch {
	case bytes.HasPrefix(data, xlsxMagic):
		return formatXLSX
	case bytes.HasPrefix(data, xlsMagic):
		return formatXLS
	default:
		return formatUnknown
	}
}

// OpenWorkbook opens a statement workbook from disk, detecting the
// container format from the file content
func OpenWorkbook(path string) (WorkbookReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, errors.FileError(errors.CodeFilePermission, path, err)
		}
		return nil, errors.FileError(errors.CodeFileCorrupted, path, err)
	}

	return OpenWorkbookData(data, path)
}

// OpenWorkbookReader opens a statement workbook from a stream, such as an
// upload, buffering it in memory first
func OpenWorkbookReader(r io.Reader, name string) (WorkbookReader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.FileError(errors.CodeFileCorrupted, name, err)
	}

	return OpenWorkbookData(data, name)
}

// OpenWorkbookData opens a statement workbook held in memory
func OpenWorkbookData(data []byte, name string) (WorkbookReader, error) {
	switch detectFormat(data) {
	case formatXLSX:
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.FileError(errors.CodeFileCorrupted, name, err)
		}
		return &xlsxReader{file: file}, nil

	case formatXLS:
		workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, errors.FileError(errors.CodeFileCorrupted, name, err)
		}
		return &xlsReader{workbook: workbook}, nil

	default:
		return nil, errors.FileError(errors.CodeUnsupportedFormat, name, nil)
	}
}

// xlsxReader reads modern zip-based workbooks via excelize
type xlsxReader struct {
	file *excelize.File
}

func (r *xlsxReader) SheetNames() []string {
	return r.file.GetSheetList()
}

func (r *xlsxReader) Rows(sheet string) ([][]string, error) {
	rows, err := r.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet '%s': %w", sheet, err)
	}
	return rows, nil
}

func (r *xlsxReader) Close() error {
	return r.file.Close()
}

// xlsReader reads legacy OLE2 workbooks via the xls library
type xlsReader struct {
	workbook *xls.WorkBook
}

func (r *xlsReader) SheetNames() []string {
	names := make([]string, 0, r.workbook.NumSheets())
	for i := 0; i < r.workbook.NumSheets(); i++ {
		if sheet := r.workbook.GetSheet(i); sheet != nil {
			names = append(names, sheet.Name)
		}
	}
	return names
}

func (r *xlsReader) Rows(sheet string) ([][]string, error) {
	for i := 0; i < r.workbook.NumSheets(); i++ {
		worksheet := r.workbook.GetSheet(i)
		if worksheet == nil || worksheet.Name != sheet {
			continue
		}

		rows := make([][]string, 0, int(worksheet.MaxRow)+1)
		for rowIdx := 0; rowIdx <= int(worksheet.MaxRow); rowIdx++ {
			row := worksheet.Row(rowIdx)
			if row == nil {
				rows = append(rows, nil)
				continue
			}

			cells := make([]string, row.LastCol())
			for col := row.FirstCol(); col < row.LastCol(); col++ {
				cells[col] = row.Col(col)
			}
			rows = append(rows, cells)
		}
		return rows, nil
	}

	return nil, fmt.Errorf("sheet '%s' not found", sheet)
}

// Close is a no-op: the legacy reader operates on an in-memory buffer
func (r *xlsReader) Close() error {
	return nil
}

// HasSheet reports whether the workbook contains the named sheet
func HasSheet(reader WorkbookReader, name string) bool {
	for _, sheet := range reader.SheetNames() {
		if sheet == name {
			return true
		}
	}
	return false
}
