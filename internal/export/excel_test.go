package export_test

import (
	"bytes"
	"testing"

	"github.com/fieldworks/diary-service/internal/export"
	"github.com/fieldworks/diary-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDayWorkbookBytes(t *testing.T) {
	roster := []*model.Engineer{
		{ID: 1, Name: "A. Keller", IsEngineer: true},
	}
	entries := []*model.DiaryEntry{
		{
			ID: 1, EngineerID: 1, SiteID: 5, CallID: 7,
			Date: "2025-03-10", StartTime: "9:00", EndTime: "11:00",
			Notes: "boiler service", CreatedBy: 99,
		},
		{
			ID: 2, EngineerID: 3, SiteID: 6, CallID: 8,
			Date: "2025-03-10", StartTime: "13:00", EndTime: "14:00",
		},
	}

	data, err := export.DayWorkbookBytes("2025-03-10", roster, entries)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Diary 2025-03-10")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Engineer", rows[0][0])
	assert.Equal(t, "Notes", rows[0][6])

	assert.Equal(t, "A. Keller", rows[1][0])
	assert.Equal(t, "9:00", rows[1][2])
	assert.Equal(t, "11:00", rows[1][3])
	assert.Equal(t, "boiler service", rows[1][6])

	// Assignee missing from the roster falls back to their id.
	assert.Equal(t, "engineer #3", rows[2][0])
}

func TestDayWorkbook_EmptyDay(t *testing.T) {
	data, err := export.DayWorkbookBytes("2025-03-10", nil, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Diary 2025-03-10")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
