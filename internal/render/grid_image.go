// Package render draws the diary day grid as a PNG: one column per engineer,
// one row per hourly slot, bookings as rounded blocks.
package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fieldworks/diary-service/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	imageWidth       = 1400
	imageHeight      = 980
	headerHeight     = 60
	leftLabelsWidth  = 70
	columnPaddingX   = 6
	slotBorderRadius = 5.0
	minBlockHeight   = 10.0
)

var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	evenColColor   = color.NRGBA{240, 240, 240, 255}
	oddColColor    = color.NRGBA{220, 220, 220, 255}

	bookingColor     = color.RGBA{255, 182, 193, 255}
	bookingEdgeColor = color.RGBA{204, 145, 154, 255}
	bookingTextColor = color.RGBA{120, 40, 50, 255}
)

// DayGrid renders one calendar day for the given roster and its bookings.
func DayGrid(date string, roster []*model.Engineer, entries []*model.DiaryEntry) ([]byte, error) {
	if len(roster) == 0 {
		return nil, fmt.Errorf("empty roster")
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(bgColor)
	dc.Clear()

	colWidth := float64(imageWidth-leftLabelsWidth) / float64(len(roster))
	gridHeight := float64(imageHeight - headerHeight)
	cellHeight := gridHeight / float64(model.SlotsPerDay)

	drawHeader(dc, date)
	drawHourLabels(dc, cellHeight)

	byEngineer := make(map[int64][]*model.DiaryEntry)
	for _, entry := range entries {
		if entry.Date == date {
			byEngineer[entry.EngineerID] = append(byEngineer[entry.EngineerID], entry)
		}
	}

	for i, eng := range roster {
		x := float64(leftLabelsWidth) + float64(i)*colWidth
		drawColumn(dc, x, colWidth, cellHeight, i, eng, byEngineer[eng.ID])
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode grid image: %w", err)
	}
	return buf.Bytes(), nil
}

func drawHeader(dc *gg.Context, date string) {
	dc.SetColor(textColor)
	dc.DrawStringAnchored("Diary "+date, float64(imageWidth)/2, float64(headerHeight)/3, 0.5, 0.5)
}

func drawHourLabels(dc *gg.Context, cellHeight float64) {
	dc.SetColor(hourLabelColor)
	for hour := 0; hour < model.SlotsPerDay; hour++ {
		y := float64(headerHeight) + float64(hour)*cellHeight
		dc.DrawStringAnchored(model.FormatSlot(hour), float64(leftLabelsWidth)-8, y+cellHeight/2, 1, 0.5)
	}
}

func drawColumn(dc *gg.Context, x, colWidth, cellHeight float64, index int, eng *model.Engineer, entries []*model.DiaryEntry) {
	if index%2 == 0 {
		dc.SetColor(evenColColor)
	} else {
		dc.SetColor(oddColColor)
	}
	dc.DrawRectangle(x, float64(headerHeight), colWidth, float64(imageHeight-headerHeight))
	dc.Fill()

	dc.SetColor(textColor)
	dc.DrawStringAnchored(eng.Name, x+colWidth/2, float64(headerHeight)-12, 0.5, 0.5)

	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for hour := 0; hour <= model.SlotsPerDay; hour++ {
		y := float64(headerHeight) + float64(hour)*cellHeight
		dc.DrawLine(x, y, x+colWidth, y)
		dc.Stroke()
	}

	for _, entry := range entries {
		drawBooking(dc, x, colWidth, cellHeight, entry)
	}
}

func drawBooking(dc *gg.Context, x, colWidth, cellHeight float64, entry *model.DiaryEntry) {
	start, end, err := entry.Hours()
	if err != nil {
		return
	}

	y := float64(headerHeight) + float64(start)*cellHeight
	height := float64(end-start) * cellHeight
	if height < minBlockHeight {
		height = minBlockHeight
	}
	width := colWidth - 2*columnPaddingX

	dc.SetColor(bookingColor)
	dc.DrawRoundedRectangle(x+columnPaddingX, y+1, width, height-2, slotBorderRadius)
	dc.Fill()

	dc.SetColor(bookingEdgeColor)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+columnPaddingX, y+1, width, height-2, slotBorderRadius)
	dc.Stroke()

	dc.SetColor(bookingTextColor)
	label := fmt.Sprintf("%s-%s call #%d", entry.StartTime, entry.EndTime, entry.CallID)
	dc.DrawStringAnchored(label, x+columnPaddingX+6, y+12, 0, 0.5)
	if entry.Notes != "" && height > 26 {
		notes := entry.Notes
		if len(notes) > 24 {
			notes = notes[:21] + "..."
		}
		dc.DrawStringAnchored(notes, x+columnPaddingX+6, y+26, 0, 0.5)
	}
}
