package interactionstore

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/dotazy/faqbot/internal/domain/interaction"
)

// Tabular layout shared by the local-file and remote-repository backends.
var csvHeader = []string{"id", "question", "answer", "rating", "created_at"}

func encodeRecords(records []interaction.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.Question,
			rec.Answer,
			string(rec.Rating),
			rec.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeRecords(data []byte) ([]interaction.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = len(csvHeader)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	records := make([]interaction.Record, 0, len(rows))
	for i, row := range rows {
		if i == 0 && row[0] == csvHeader[0] {
			continue
		}
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse id %q: %w", i, row[0], err)
		}
		rating, err := interaction.ParseRating(row[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		createdAt, err := time.Parse(time.RFC3339, row[4])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse created_at %q: %w", i, row[4], err)
		}
		records = append(records, interaction.Record{
			ID:        id,
			Question:  row[1],
			Answer:    row[2],
			Rating:    rating,
			CreatedAt: createdAt,
		})
	}
	return records, nil
}

// nextRecordID keeps ids monotonic across the whole dataset. Records are
// never deleted, so max+1 can never reuse an id.
func nextRecordID(records []interaction.Record) int64 {
	var max int64
	for _, rec := range records {
		if rec.ID > max {
			max = rec.ID
		}
	}
	return max + 1
}

func recentOf(records []interaction.Record, limit int) []interaction.Record {
	if limit <= 0 || limit > len(records) {
		limit = len(records)
	}
	out := make([]interaction.Record, 0, limit)
	for i := len(records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, records[i])
	}
	return out
}
