package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"ZoneFlow/internal/domain/models"
	pkgch "ZoneFlow/pkg/clickhouse"
	applogger "ZoneFlow/pkg/logger"
)

// CHSampleStore loads sample frames from a wide ClickHouse table. The table
// layout is ts + symbol + one numeric column per series; indicator columns
// are discovered from the result set, so adding a column to the table makes
// it visible to detection without a code change. NULL cells become NaN.
type CHSampleStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHSampleStore(ch *pkgch.Client, table string) *CHSampleStore {
	return &CHSampleStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHSampleStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSampleStore) GetFrame(ctx context.Context, symbol string, from, to time.Time) (*models.Frame, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT * EXCEPT (symbol)
        FROM %s
        WHERE symbol = ? AND ts >= ? AND ts <= ?
        ORDER BY ts ASC
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_frame query error",
				applogger.String("table", s.table),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get frame: %w", err)
	}
	defer rows.Close()

	frame, err := scanFrame(rows)
	if err != nil {
		return nil, err
	}
	if s.l != nil {
		s.l.Info("clickhouse get_frame ok",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.Int("rows", frame.Len()),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return frame, nil
}

func (s *CHSampleStore) GetLatestFrame(ctx context.Context, symbol string, n int) (*models.Frame, error) {
	start := time.Now()
	// Inner DESC + outer ASC keeps the newest n rows in ascending order.
	q := fmt.Sprintf(`
        SELECT * FROM (
            SELECT * EXCEPT (symbol)
            FROM %s
            WHERE symbol = ?
            ORDER BY ts DESC
            LIMIT ?
        )
        ORDER BY ts ASC
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, n)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse latest_frame query error",
				applogger.String("table", s.table),
				applogger.String("symbol", symbol),
				applogger.Int("limit", n),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get latest frame: %w", err)
	}
	defer rows.Close()

	frame, err := scanFrame(rows)
	if err != nil {
		return nil, err
	}
	if s.l != nil {
		s.l.Info("clickhouse latest_frame ok",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.Int("limit", n),
			applogger.Int("rows", frame.Len()),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return frame, nil
}

// scanFrame builds a frame from a result set whose first column is the
// timestamp and whose remaining columns are numeric series.
func scanFrame(rows *sql.Rows) (*models.Frame, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	if len(cols) < 2 {
		return nil, models.NewDataError("", cols, "sample table has no series columns")
	}

	var times []time.Time
	series := make([][]float64, len(cols)-1)
	for rows.Next() {
		var ts time.Time
		cells := make([]sql.NullFloat64, len(cols)-1)
		dest := make([]interface{}, len(cols))
		dest[0] = &ts
		for i := range cells {
			dest[i+1] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan sample row: %w", err)
		}
		times = append(times, ts)
		for i, c := range cells {
			if c.Valid {
				series[i] = append(series[i], c.Float64)
			} else {
				series[i] = append(series[i], math.NaN())
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	frame := models.NewFrame(times)
	for i, name := range cols[1:] {
		if err := frame.AddColumn(name, series[i]); err != nil {
			return nil, err
		}
	}
	return frame, nil
}
