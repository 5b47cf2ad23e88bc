package dataexchange

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	dataexchangeerrors "ippis-portal/internal/dataexchange/errors"
	"ippis-portal/internal/shared/apperror"

	"github.com/extrame/xls"
	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeXLS  = "application/vnd.ms-excel"
	mimeOLE  = "application/x-ole-storage"
)

// ReadRows returns every row of the first worksheet (or the whole CSV). The format is taken
// from the content; the extension only has to be one of the accepted ones.
func ReadRows(data []byte, fileName string, maxRows int) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".xlsx" && ext != ".xls" && ext != ".csv" {
		return nil, dataexchangeerrors.ErrUnsupportedFile
	}

	mt := mimetype.Detect(data)
	var (
		rows [][]string
		err  error
	)
	switch {
	case mt.Is(mimeXLSX):
		rows, err = readXLSX(data)
	case mt.Is(mimeXLS), mt.Is(mimeOLE):
		rows, err = readXLS(data, maxRows)
	case strings.HasPrefix(mt.String(), "text/"):
		rows, err = readCSV(data)
	default:
		return nil, dataexchangeerrors.ErrUnsupportedFile
	}
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.Wrap(err, dataexchangeerrors.ErrUnreadableFile.Code,
			dataexchangeerrors.ErrUnreadableFile.Message, dataexchangeerrors.ErrUnreadableFile.HTTPStatus)
	}

	rows = trimTrailingBlank(rows)
	if len(rows) < 2 {
		return nil, dataexchangeerrors.ErrEmptyFile
	}
	if maxRows > 0 && len(rows)-1 > maxRows {
		return nil, dataexchangeerrors.ErrTooManyRows
	}
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no worksheet found")
	}
	// Raw values keep date cells as serial numbers instead of locale display text.
	return f.GetRows(sheet, excelize.Options{RawCellValue: true})
}

func readXLS(data []byte, maxRows int) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}
	limit := 100000
	if maxRows > 0 {
		limit = maxRows + 2
	}
	return wb.ReadAllCells(limit), nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
}

func trimTrailingBlank(rows [][]string) [][]string {
	for len(rows) > 0 && isBlank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
