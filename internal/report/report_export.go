package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const summaryTimeLayout = "2006-01-02 15:04 UTC"

type section struct {
	title   string
	buckets []Bucket
}

func (s Summary) sections() []section {
	cases := make([]Bucket, len(s.Cases))
	for i, c := range s.Cases {
		cases[i] = Bucket{Key: c.Kind, Label: c.Kind, Count: c.Open}
	}
	return []section{
		{"Headcount by department", s.Headcount.ByDepartment},
		{"Headcount by status", s.Headcount.ByStatus},
		{"Headcount by gender", s.Headcount.ByGender},
		{"Open cases by kind", cases},
		{"Leave requests by status", s.LeaveByStatus},
	}
}

// Lines renders the summary as plain text lines, used for the PDF.
func (s Summary) Lines() []string {
	lines := []string{
		"IPPIS Portal - Summary Report",
		"Generated " + s.GeneratedAt.Format(summaryTimeLayout),
		fmt.Sprintf("Total headcount: %d", s.Headcount.Total),
	}
	for _, sec := range s.sections() {
		lines = append(lines, "", sec.title)
		if len(sec.buckets) == 0 {
			lines = append(lines, "  (none)")
		}
		for _, b := range sec.buckets {
			lines = append(lines, fmt.Sprintf("  %-40s %6d", b.Label, b.Count))
		}
	}
	return lines
}

func WritePDF(s Summary, w io.Writer) error {
	_, err := w.Write(buildSinglePagePDF(s.Lines()))
	return err
}

// WriteXLSX writes one sheet with a block per section and a Cases sheet with totals.
func WriteXLSX(s Summary, w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	row := 1
	put := func(values ...any) error {
		cellName, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(sheet, cellName, &values)
	}
	title := func(text string) error {
		cellName, _ := excelize.CoordinatesToCellName(1, row)
		if err := put(text); err != nil {
			return err
		}
		return f.SetCellStyle(sheet, cellName, cellName, bold)
	}

	if err := title("IPPIS Portal - Summary Report"); err != nil {
		return err
	}
	if err := put("Generated", s.GeneratedAt.Format(summaryTimeLayout)); err != nil {
		return err
	}
	if err := put("Total headcount", s.Headcount.Total); err != nil {
		return err
	}
	for _, sec := range s.sections() {
		row++
		if err := title(sec.title); err != nil {
			return err
		}
		for _, b := range sec.buckets {
			if err := put(b.Label, b.Count); err != nil {
				return err
			}
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		return err
	}

	const casesSheet = "Cases"
	if _, err := f.NewSheet(casesSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(casesSheet, "A1", &[]any{"Kind", "Total", "Open"}); err != nil {
		return err
	}
	for i, c := range s.Cases {
		cellName, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(casesSheet, cellName, &[]any{c.Kind, c.Total, c.Open}); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}
