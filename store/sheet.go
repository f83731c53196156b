package store

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/sheets/v4"

	"github.com/yated/yated-sheets/table"
)

// Worksheets returns the titles of the worksheets in a spreadsheet, in tab order.
func (c *Client) Worksheets(ctx context.Context, id string) ([]string, error) {
	spreadsheet, err := c.sheets.Spreadsheets.Get(id).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, unavailable(err)
	}

	titles := []string{}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}

	return titles, nil
}

// Read returns the full contents of a worksheet. A blank worksheet title selects the first worksheet.
func (c *Client) Read(ctx context.Context, id, worksheet string) (*table.Snapshot, error) {
	title, err := c.resolve(ctx, id, worksheet)
	if err != nil {
		return nil, err
	}

	response, err := c.sheets.Spreadsheets.Values.Get(id, quote(title)).Context(ctx).Do()
	if err != nil {
		return nil, missing(err, title)
	}

	if len(response.Values) == 0 {
		return nil, fmt.Errorf("no data in worksheet '%s' (%w)", title, ErrEmpty)
	}

	return table.MakeSnapshot(response.Values)
}

// Append writes a row immediately below the last non-empty row of a worksheet. A blank worksheet title
// selects the first worksheet.
//
// The worksheet is re-read to find the next row rather than left to values.append, which only looks at
// the block of rows contiguous with A1 and would insert above any rows that follow a blank row.
func (c *Client) Append(ctx context.Context, id, worksheet string, row []string) error {
	title, err := c.resolve(ctx, id, worksheet)
	if err != nil {
		return err
	}

	existing, err := c.sheets.Spreadsheets.Values.Get(id, quote(title)).Context(ctx).Do()
	if err != nil {
		return missing(err, title)
	}

	next := len(existing.Values) + 1
	area := fmt.Sprintf("%s!A%d:%s%d", quote(title), next, a1(max(1, len(row))), next)

	record := make([]any, len(row))
	for i, v := range row {
		record[i] = v
	}

	var rows = sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         [][]any{record},
	}

	if _, err := c.sheets.Spreadsheets.Values.Update(id, area, &rows).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do(); err != nil {
		if status(err) == http.StatusForbidden {
			return wrap(ErrPermissionDenied, err)
		}

		return missing(err, title)
	}

	return nil
}

func (c *Client) resolve(ctx context.Context, id, worksheet string) (string, error) {
	if title := strings.TrimSpace(worksheet); title != "" {
		return title, nil
	}

	titles, err := c.Worksheets(ctx, id)
	if err != nil {
		return "", err
	}

	if len(titles) == 0 {
		return "", fmt.Errorf("spreadsheet has no worksheets (%w)", ErrEmpty)
	}

	return titles[0], nil
}

func quote(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// a1 returns the A1 notation letters for a 1-based column number e.g. 1 -> A, 27 -> AA.
func a1(column int) string {
	letters := ""
	for n := column; n > 0; n = (n - 1) / 26 {
		letters = string(rune('A'+(n-1)%26)) + letters
	}

	return letters
}
