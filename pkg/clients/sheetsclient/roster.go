package sheetsclient

import (
	"fmt"

	"github.com/misterkoko92/asf-benev/internal/config"
	"github.com/misterkoko92/asf-benev/pkg/core/model"
)

// ListRosterRows retrieves and parses volunteer rows from the configured
// roster spreadsheet tab.
func (c *Client) ListRosterRows(cfg *config.Config) ([]model.RosterRow, error) {
	if cfg.Roster.SheetID == "" {
		return nil, fmt.Errorf("no roster sheet configured")
	}

	values, err := c.GetValues(cfg.Roster.SheetID, cfg.Roster.Tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster data: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("roster sheet is empty")
	}

	return parseRosterRows(values)
}

// parseRosterRows converts raw spreadsheet data into RosterRow structs.
// Fully blank lines are dropped; half-filled rows are kept so the import
// can report them as skipped.
func parseRosterRows(raw [][]interface{}) ([]model.RosterRow, error) {
	header := make([]string, len(raw[0]))
	for i, cell := range raw[0] {
		header[i] = cellString(cell)
	}
	headers := model.IndexHeaders(header)
	if len(headers) == 0 {
		return nil, fmt.Errorf("no recognizable header row")
	}

	rows := make([]model.RosterRow, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		record := raw[i]
		row := model.RosterRowFromRecord(headers, func(index int) string {
			if index >= len(record) {
				return ""
			}
			return cellString(record[index])
		})
		if row == (model.RosterRow{}) {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
