package report

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/audi70r/gitlogreport/internal/git"
)

const sheetName = "Commits"

var sheetHeader = []string{"Project", "Branch", "Hash", "Author", "Date", "Summary", "Message"}

// WriteXLSX exports commits carrying a message to a spreadsheet, one row
// each, with the same summary text the condensed report uses.
func WriteXLSX(path string, commits []git.Commit, opts Options) error {
	if path == "" {
		return errors.New("output path is required")
	}

	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	if err := file.SetSheetName(file.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := setColumnWidths(file); err != nil {
		return err
	}

	for idx, title := range sheetHeader {
		cell, err := excelize.CoordinatesToCellName(idx+1, 1)
		if err != nil {
			return fmt.Errorf("convert header cell: %w", err)
		}
		if err := file.SetCellValue(sheetName, cell, title); err != nil {
			return fmt.Errorf("write header %s: %w", cell, err)
		}
	}

	row := 2
	for _, c := range commits {
		if !c.HasMessage {
			continue
		}
		name := c.Repo.Name()
		values := []any{
			name,
			c.Repo.Branch,
			c.Hash,
			c.Author,
			c.Date,
			opts.Overrides.Resolve(name, c.Repo.Branch) + CleanMessage(Subject(c.Message)),
			c.Message,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("convert row %d: %w", row, err)
		}
		if err := file.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

func setColumnWidths(file *excelize.File) error {
	widths := []struct {
		from, to string
		width    float64
	}{
		{"A", "B", 20},
		{"C", "C", 42},
		{"D", "E", 26},
		{"F", "F", 60},
		{"G", "G", 100},
	}
	for _, w := range widths {
		if err := file.SetColWidth(sheetName, w.from, w.to, w.width); err != nil {
			return fmt.Errorf("set width for %s-%s: %w", w.from, w.to, err)
		}
	}
	return nil
}
