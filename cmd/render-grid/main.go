// Renders a sample diary day grid to grid.png for eyeballing layout changes
// without a running service.
package main

import (
	"log"
	"os"

	"github.com/fieldworks/diary-service/internal/model"
	"github.com/fieldworks/diary-service/internal/render"
)

func main() {
	roster := []*model.Engineer{
		{ID: 1, Name: "A. Keller", IsEngineer: true},
		{ID: 2, Name: "B. Osei", IsEngineer: true},
		{ID: 3, Name: "C. Marsh", IsEngineer: true},
	}

	date := "2025-03-10"
	entries := []*model.DiaryEntry{
		{ID: 1, EngineerID: 1, SiteID: 11, CallID: 101, Date: date, StartTime: "9:00", EndTime: "11:00", Notes: "Boiler inspection"},
		{ID: 2, EngineerID: 1, SiteID: 12, CallID: 102, Date: date, StartTime: "13:00", EndTime: "14:00"},
		{ID: 3, EngineerID: 2, SiteID: 13, CallID: 103, Date: date, StartTime: "8:00", EndTime: "12:00", Notes: "Full service"},
		{ID: 4, EngineerID: 3, SiteID: 11, CallID: 101, Date: date, StartTime: "15:00", EndTime: "17:00"},
	}

	png, err := render.DayGrid(date, roster, entries)
	if err != nil {
		log.Fatalf("render grid: %v", err)
	}

	if err := os.WriteFile("grid.png", png, 0o644); err != nil {
		log.Fatalf("write grid.png: %v", err)
	}

	log.Printf("wrote grid.png (%d bytes)", len(png))
}
