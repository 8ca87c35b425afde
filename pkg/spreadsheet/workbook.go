// Package spreadsheet ведет зеркало записей в XLSX-книге, только добавление.
package spreadsheet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Workbook добавляет строки в один лист одного файла. Запись идет по одной:
// excelize при сохранении переписывает весь файл.
type Workbook struct {
	path    string
	sheet   string
	headers []string
	mu      sync.Mutex
}

func NewWorkbook(path, sheet string, headers []string) *Workbook {
	return &Workbook{path: path, sheet: sheet, headers: headers}
}

func (w *Workbook) Path() string { return w.path }

// AppendRow дописывает строку в конец листа. Файл и строка заголовков
// создаются при первой записи.
func (w *Workbook) AppendRow(row []interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(w.sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", w.sheet, err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(w.sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// Rows возвращает все строки листа вместе с заголовком.
func (w *Workbook) Rows() ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetRows(w.sheet)
}

func (w *Workbook) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(w.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
			return nil, err
		}
		return w.create()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	idx, err := f.GetSheetIndex(w.sheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	if idx == -1 {
		if _, err := f.NewSheet(w.sheet); err != nil {
			f.Close()
			return nil, err
		}
		if err := writeHeader(f, w.sheet, w.headers); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func (w *Workbook) create() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", w.sheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeHeader(f, w.sheet, w.headers); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	if len(headers) == 0 {
		return nil
	}
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

// BuildReport собирает файл для выгрузки: заголовок и строки данных.
// Вызывающий обязан закрыть файл.
func BuildReport(sheet string, headers []string, rows [][]interface{}) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeHeader(f, sheet, headers); err != nil {
		f.Close()
		return nil, err
	}

	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			f.Close()
			return nil, err
		}
	}

	if len(headers) > 0 {
		lastCol, _ := excelize.ColumnNumberToName(len(headers))
		_ = f.SetColWidth(sheet, "A", lastCol, 20)
	}
	return f, nil
}
