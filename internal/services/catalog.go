package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/AnshRaj112/mindcare-backend/internal/models"
	"github.com/AnshRaj112/mindcare-backend/pkg/logger"
)

const generalCatalogFile = "general.xlsx"

// Column headers of the category spreadsheets.
var categoryColumns = struct{ name, price, url, image string }{
	name:  "Name",
	price: "Price",
	url:   "URL",
	image: "Image URL",
}

// Column headers of the general catalog.
var generalColumns = struct{ name, price, url, description string }{
	name:        "Nama Produk",
	price:       "Harga",
	url:         "URL",
	description: "Deskripsi",
}

// Catalog serves the drug store from spreadsheet files in a data directory.
type Catalog struct {
	dataDir string
	log     *logger.Logger
}

func NewCatalog(dataDir string, log *logger.Logger) *Catalog {
	return &Catalog{dataDir: dataDir, log: log.With("service", "Catalog")}
}

// ByCategory returns the medicines in <category>.xls (or .xlsx). A non-empty name
// keeps only rows whose name contains it, ignoring case.
func (c *Catalog) ByCategory(category, name string) ([]models.Medicine, error) {
	path, ok := c.categoryPath(category)
	if !ok {
		return nil, ErrCategoryNotFound
	}

	rows, err := readSheet(path)
	if err != nil {
		c.log.Error("Error reading spreadsheet", "path", path, "error", err)
		return nil, fmt.Errorf("failed to read category %q: %w", category, err)
	}

	medicines := make([]models.Medicine, 0, len(rows))
	for _, row := range rows {
		medicines = append(medicines, models.Medicine{
			Name:     row[categoryColumns.name],
			Price:    cellValue(row[categoryColumns.price]),
			URL:      row[categoryColumns.url],
			ImageURL: row[categoryColumns.image],
		})
	}

	if name == "" {
		return medicines, nil
	}
	filtered := FilterMedicines(medicines, name)
	if len(filtered) == 0 {
		return nil, ErrMedicineNotFound
	}
	return filtered, nil
}

// General returns every row of the general catalog.
func (c *Catalog) General() ([]models.Medicine, error) {
	path := filepath.Join(c.dataDir, generalCatalogFile)
	if !fileExists(path) {
		return nil, ErrCatalogNotFound
	}

	rows, err := readSheet(path)
	if err != nil {
		c.log.Error("Error reading spreadsheet", "path", path, "error", err)
		return nil, fmt.Errorf("failed to read general catalog: %w", err)
	}

	medicines := make([]models.Medicine, 0, len(rows))
	for _, row := range rows {
		medicines = append(medicines, models.Medicine{
			Name:        row[generalColumns.name],
			Price:       cellValue(row[generalColumns.price]),
			URL:         row[generalColumns.url],
			Description: row[generalColumns.description],
		})
	}
	return medicines, nil
}

// FilterMedicines keeps medicines whose name contains term, case-insensitively.
// Rows without a name never match.
func FilterMedicines(medicines []models.Medicine, term string) []models.Medicine {
	term = strings.ToLower(term)
	out := make([]models.Medicine, 0)
	for _, m := range medicines {
		if m.Name != "" && strings.Contains(strings.ToLower(m.Name), term) {
			out = append(out, m)
		}
	}
	return out
}

func (c *Catalog) categoryPath(category string) (string, bool) {
	if category == "" || category == "." || strings.Contains(category, "..") || strings.ContainsAny(category, `/\`) {
		return "", false
	}
	for _, ext := range []string{".xls", ".xlsx"} {
		path := filepath.Join(c.dataDir, category+ext)
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// cellValue turns a raw cell into a JSON value: numbers stay numbers, blanks vanish.
func cellValue(raw string) interface{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// readSheet reads the first sheet of a workbook as header-keyed rows. Blank rows
// are skipped.
func readSheet(path string) ([]map[string]string, error) {
	var grid [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls":
		grid, err = readXLS(path)
	case ".xlsx":
		grid, err = readXLSX(path)
	default:
		err = fmt.Errorf("unsupported spreadsheet format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, nil
	}

	header := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]map[string]string, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		row := make(map[string]string, len(header))
		blank := true
		for i, v := range cells {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if strings.TrimSpace(v) != "" {
				blank = false
			}
			row[header[i]] = v
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0])
}

func readXLS(path string) (grid [][]string, err error) {
	// The legacy BIFF reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			grid, err = nil, fmt.Errorf("malformed xls file: %v", r)
		}
	}()

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, errors.New("no workbook stream in xls file")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}

	// Rows may omit trailing blank cells, so read at least as wide as the header.
	width := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		n := row.LastCol()
		if n < width {
			n = width
		}
		cells := make([]string, n)
		for j := range cells {
			cells[j] = row.Col(j)
		}
		if i == 0 {
			width = n
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// xlsRow returns nil for a row index with no records. WorkSheet.Row panics there.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
