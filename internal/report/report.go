// Package report exports batch match results as an Excel workbook.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/job-matcher/internal/matching"
	"github.com/jonathan/job-matcher/internal/types"
)

// SheetName is the worksheet holding the ranked matches
const SheetName = "Matches"

var fastDimensions = []types.Dimension{
	types.DimensionPosition,
	types.DimensionSkills,
	types.DimensionExperience,
	types.DimensionEducation,
	types.DimensionSemantic,
}

// Headers returns the column titles in sheet order
func Headers() []string {
	h := []string{"Rank", "Job ID", "Title", "Company", "City", "Salary", "Score"}
	for _, d := range fastDimensions {
		h = append(h, string(d))
	}
	return append(h, "Precise Score", "Recommendation", "Strengths", "Weaknesses")
}

// WriteXLSX writes matches, in the given order, as one row each
func WriteXLSX(w io.Writer, matches []matching.RankedMatch) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := Headers()
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, m := range matches {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := matchRow(i+1, m)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := styleSheet(f, len(headers), len(matches)); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteFile writes the workbook to path
func WriteFile(path string, matches []matching.RankedMatch) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteXLSX(out, matches)
}

func matchRow(rank int, m matching.RankedMatch) []any {
	var title, company, city, salary string
	if m.Job != nil {
		title, company, city, salary = m.Job.Title, m.Job.Company, m.Job.City, m.Job.SalaryRange
	}
	row := []any{rank, m.JobID, title, company, city, salary, m.Score}
	for _, d := range fastDimensions {
		if v, ok := m.Fast.DimensionScores[d]; ok {
			row = append(row, v)
		} else {
			row = append(row, nil)
		}
	}

	if m.Precise == nil {
		return append(row, nil, "", "", "")
	}
	return append(row,
		m.Precise.Score,
		m.Precise.Detail.Recommendation,
		strings.Join(m.Precise.Detail.Strengths, "; "),
		strings.Join(m.Precise.Detail.Weaknesses, "; "),
	)
}

func styleSheet(f *excelize.File, cols, rows int) error {
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	if err := f.SetColWidth(SheetName, "B", "C", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "N", "P", 40); err != nil {
		return err
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if rows == 0 {
		return nil
	}
	lastCell, err := excelize.CoordinatesToCellName(cols, rows+1)
	if err != nil {
		return err
	}
	if err := f.AutoFilter(SheetName, "A1:"+lastCell, nil); err != nil {
		return fmt.Errorf("add filter: %w", err)
	}
	return nil
}
