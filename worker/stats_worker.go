package worker

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lpfactory/models"
)

// StatsWorker rolls raw conversion events up into per-day counters so
// the dashboard never has to scan the event table.
type StatsWorker struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewStatsWorker(db *gorm.DB, logger *log.Logger) *StatsWorker {
	return &StatsWorker{DB: db, Logger: logger}
}

func (sw *StatsWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	time.Sleep(10 * time.Second)

	sw.Logger.Println("Stats worker started")

	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	sw.aggregate()

	for {
		select {
		case <-ctx.Done():
			sw.Logger.Println("Stats worker shutting down...")
			return
		case <-ticker.C:
			sw.aggregate()
		}
	}
}

type statRow struct {
	ClientKey      string
	Day            time.Time
	ConversionType string
	Count          int64
}

// aggregate recomputes counters for the last two days. Re-running over
// the same window is safe: the unique index on (client_key, day, type)
// turns repeats into updates.
func (sw *StatsWorker) aggregate() {
	since := time.Now().AddDate(0, 0, -2).Truncate(24 * time.Hour)

	var rows []statRow
	err := sw.DB.Model(&models.ConversionEvent{}).
		Select("client_key, date_trunc('day', created_at) AS day, conversion_type, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("client_key, day, conversion_type").
		Scan(&rows).Error
	if err != nil {
		sw.Logger.Printf("Error aggregating conversion events: %v", err)
		return
	}

	for _, row := range rows {
		stat := models.DailyStat{
			ClientKey:      row.ClientKey,
			Day:            row.Day,
			ConversionType: row.ConversionType,
			Count:          row.Count,
		}
		err := sw.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_key"}, {Name: "day"}, {Name: "conversion_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"count"}),
		}).Create(&stat).Error
		if err != nil {
			sw.Logger.Printf("Error upserting daily stat for %s: %v", row.ClientKey, err)
		}
	}

	if len(rows) > 0 {
		sw.Logger.Printf("Aggregated %d daily stat rows", len(rows))
	}
}
