// Package sheets implements domain.Store on a Google Sheets spreadsheet.
// Each entity maps to one named sheet with a fixed header row; every cell
// is a string. It is the primary backend.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// RowAPI is the narrow surface the store needs from a tabular backend:
// idempotent table creation plus row-level read, append, update and
// delete. Update and Delete address rows by zero-based data-row offset
// (the header row is not counted), so callers must re-read row positions
// immediately before mutating.
type RowAPI interface {
	EnsureTable(ctx context.Context, table string, header []string) error
	Rows(ctx context.Context, table string) ([][]string, error)
	Append(ctx context.Context, table string, row []string) error
	Update(ctx context.Context, table string, index int, row []string) error
	Delete(ctx context.Context, table string, index int) error
}

// googleRowAPI implements RowAPI against the Sheets v4 API.
type googleRowAPI struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewRowAPI builds a RowAPI over one spreadsheet using service-account
// credentials.
func NewRowAPI(ctx context.Context, spreadsheetID string, credentialsJSON []byte) (RowAPI, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &googleRowAPI{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (g *googleRowAPI) EnsureTable(ctx context.Context, table string, header []string) error {
	doc, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range doc.Sheets {
		if sh.Properties != nil && sh.Properties.Title == table {
			return nil
		}
	}

	_, err = g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: table},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("add sheet %s: %w", table, err)
	}

	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	rng := fmt.Sprintf("%s!A1:%s1", table, columnLetter(len(header)))
	_, err = g.svc.Spreadsheets.Values.Update(g.spreadsheetID, rng, &sheetsapi.ValueRange{
		Values: [][]interface{}{cells},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header for %s: %w", table, err)
	}
	return nil
}

// Rows returns all data rows of the table, header stripped, every cell
// coerced to string.
func (g *googleRowAPI) Rows(ctx context.Context, table string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, table+"!A:Z").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	if len(resp.Values) <= 1 {
		return nil, nil
	}

	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (g *googleRowAPI) Append(ctx context.Context, table string, row []string) error {
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, table+"!A:Z", &sheetsapi.ValueRange{
		Values: [][]interface{}{toCells(row)},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", table, err)
	}
	return nil
}

func (g *googleRowAPI) Update(ctx context.Context, table string, index int, row []string) error {
	// Data row 0 lives on spreadsheet row 2, below the header.
	rng := fmt.Sprintf("%s!A%d:%s%d", table, index+2, columnLetter(len(row)), index+2)
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, rng, &sheetsapi.ValueRange{
		Values: [][]interface{}{toCells(row)},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update row in %s: %w", table, err)
	}
	return nil
}

func (g *googleRowAPI) Delete(ctx context.Context, table string, index int) error {
	sheetID, err := g.sheetID(ctx, table)
	if err != nil {
		return err
	}
	_, err = g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			DeleteDimension: &sheetsapi.DeleteDimensionRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(index + 1),
					EndIndex:   int64(index + 2),
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete row from %s: %w", table, err)
	}
	return nil
}

func (g *googleRowAPI) sheetID(ctx context.Context, table string) (int64, error) {
	doc, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range doc.Sheets {
		if sh.Properties != nil && sh.Properties.Title == table {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %s not found", table)
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

// columnLetter maps a 1-based column count to its letter; table widths
// here never exceed 10 columns.
func columnLetter(n int) string {
	return string(rune('A' + n - 1))
}
