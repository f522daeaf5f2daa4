// Package export produces spreadsheet reports of the diary.
package export

import (
	"fmt"

	"github.com/fieldworks/diary-service/internal/model"
	"github.com/xuri/excelize/v2"
)

var dayHeader = []string{"Engineer", "Date", "Start", "End", "Site", "Call", "Notes", "Created By"}

// DayWorkbook builds an XLSX report of one day's bookings, one row per entry,
// ordered as given. Engineer names come from the roster; unknown assignees
// fall back to their numeric id.
func DayWorkbook(date string, roster []*model.Engineer, entries []*model.DiaryEntry) (*excelize.File, error) {
	names := make(map[int64]string, len(roster))
	for _, eng := range roster {
		names[eng.ID] = eng.Name
	}

	f := excelize.NewFile()
	sheet := "Diary " + date
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, title := range dayHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, entry := range entries {
		name, ok := names[entry.EngineerID]
		if !ok {
			name = fmt.Sprintf("engineer #%d", entry.EngineerID)
		}
		values := []any{
			name,
			entry.Date,
			entry.StartTime,
			entry.EndTime,
			entry.SiteID,
			entry.CallID,
			entry.Notes,
			entry.CreatedBy,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
	}

	return f, nil
}

// DayWorkbookBytes is DayWorkbook serialized for HTTP responses.
func DayWorkbookBytes(date string, roster []*model.Engineer, entries []*model.DiaryEntry) ([]byte, error) {
	f, err := DayWorkbook(date, roster, entries)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
