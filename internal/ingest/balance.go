package ingest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang-statement-analyzer/internal/models"
)

// monthColumn pairs a parsed month header with its cell index in the grid
type monthColumn struct {
	index int
	label string
	month time.Time
}

// ReshapeBalances converts the wide balance grid, one row per day of month
// and one column per statement month, into a flat list of snapshots sorted
// by month then day. Cells are blank for days a month does not have; those
// are skipped without a warning
func ReshapeBalances(rows [][]string, config *WorkbookConfig) ([]*models.BalanceSnapshot, []string, error) {
	if config == nil {
		config = DefaultWorkbookConfig()
	}

	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("balance sheet is empty")
	}

	var warnings []string

	header := rows[0]
	dayColumn := config.GetColumnName("day")
	if !strings.EqualFold(cellValue(header, 0), dayColumn) {
		return nil, nil, fmt.Errorf("first balance column must be '%s', got '%s'", dayColumn, cellValue(header, 0))
	}

	columns := make([]monthColumn, 0, len(header)-1)
	for i := 1; i < len(header); i++ {
		label := cellValue(header, i)
		if label == "" {
			continue
		}

		month, err := models.ParseMonthLabel(label)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Skipping balance column '%s': unrecognized month label", label))
			continue
		}
		columns = append(columns, monthColumn{index: i, label: label, month: month})
	}

	if len(columns) == 0 {
		return nil, warnings, fmt.Errorf("no recognizable month columns in balance sheet")
	}

	snapshots := make([]*models.BalanceSnapshot, 0, (len(rows)-1)*len(columns))
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}

		rowNum := i + 2
		day, err := parseDayNumber(cellValue(row, 0))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Skipping balance row %d: %v", rowNum, err))
			continue
		}

		for _, column := range columns {
			cell := cellValue(row, column.index)
			if cell == "" {
				continue
			}

			balance, err := models.ParseDecimalFromString(cell)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf(
					"Skipping balance cell at row %d, column '%s': invalid value '%s'",
					rowNum, column.label, cell))
				continue
			}

			snapshot := models.NewBalanceSnapshot(day, column.month, balance)
			if err := snapshot.Validate(); err != nil {
				warnings = append(warnings, fmt.Sprintf("Skipping balance row %d: %v", rowNum, err))
				break
			}

			snapshots = append(snapshots, snapshot)
		}
	}

	sort.Slice(snapshots, func(i, j int) bool {
		if !snapshots[i].Month.Equal(snapshots[j].Month) {
			return snapshots[i].Month.Before(snapshots[j].Month)
		}
		return snapshots[i].Day < snapshots[j].Day
	})

	return snapshots, warnings, nil
}

// parseDayNumber parses the day-of-month cell, accepting both plain
// integers and the "15.0" style some exports produce
func parseDayNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("day cell is empty")
	}

	if day, err := strconv.Atoi(s); err == nil {
		return day, nil
	}

	d, err := models.ParseDecimalFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid day number '%s'", s)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("day number must be whole, got '%s'", s)
	}

	return int(d.IntPart()), nil
}
