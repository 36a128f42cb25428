// Command export_settlements writes an xlsx report of settled meetings
// for the finance team: one row per meeting whose charge reached a
// terminal state, with its wallet movements.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mshirazi/datebridge/internal/config"
	"github.com/mshirazi/datebridge/internal/database"
	"github.com/mshirazi/datebridge/internal/models"
	"github.com/mshirazi/datebridge/internal/repositories"
	"github.com/mshirazi/datebridge/pkg/logger"
	"github.com/xuri/excelize/v2"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}
	logger.Init()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	limit := 1000
	if raw := os.Getenv("EXPORT_LIMIT"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	meetings, err := repositories.NewMeetingRepository(db).ListSettled(limit)
	if err != nil {
		logger.Fatal("Failed to list settled meetings", err)
	}

	f := excelize.NewFile()
	sheet := "Settlements"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Ref", "Host ID", "Guest ID", "Scheduled", "Status", "Charge Status",
		"Fee (cents)", "Outcome", "Fault", "Resolution", "Finalized At", "Resolved At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, m := range meetings {
		guestID := uint(0)
		for _, p := range m.Participants {
			if p.Role == models.ParticipantGuest {
				guestID = p.UserID
				break
			}
		}

		values := []interface{}{
			m.PublicRef, m.HostID, guestID,
			m.ScheduledAt.Format("2006-01-02 15:04"),
			m.Status, m.ChargeStatus, m.FeeCents,
			m.Outcome, m.FaultDetermination, m.AdminResolution,
			formatTime(m.FinalizedAt), formatTime(m.AdminResolvedAt),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	out := os.Getenv("EXPORT_PATH")
	if out == "" {
		out = "settlements.xlsx"
	}
	if err := f.SaveAs(out); err != nil {
		logger.Fatal("Failed to save report", err)
	}

	fmt.Printf("Exported %d settled meetings to %s\n", len(meetings), out)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
