// Package sheet implements the tabular store on Google Sheets, with
// Drive permission grants so the rotated spreadsheets stay reachable
// by the service account and the owner.
package sheet

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// All rows live on the default grid of each spreadsheet.
const valueRange = "Sheet1"

type Client struct {
	sheets *sheets.Service
	drive  *drive.Service
}

func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	opts := []option.ClientOption{
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope, drive.DriveFileScope),
	}

	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "sheets service")
	}
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "drive service")
	}

	return &Client{sheets: sheetsSvc, drive: driveSvc}, nil
}

// CreateTable creates a spreadsheet titled title whose first row is the
// header, returning the new spreadsheet id.
func (c *Client) CreateTable(ctx context.Context, title string, header []string) (string, error) {
	cells := make([]*sheets.CellData, len(header))
	for i := range header {
		cells[i] = &sheets.CellData{
			UserEnteredValue: &sheets.ExtendedValue{StringValue: &header[i]},
		}
	}

	created, err := c.sheets.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
		Sheets: []*sheets.Sheet{{
			Data: []*sheets.GridData{{
				StartRow:    0,
				StartColumn: 0,
				RowData:     []*sheets.RowData{{Values: cells}},
			}},
		}},
	}).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return "", errors.Wrap(err, "create spreadsheet")
	}
	return created.SpreadsheetId, nil
}

// GrantAccess shares the spreadsheet with the given identity.
func (c *Client) GrantAccess(ctx context.Context, sheetID, email, role string) error {
	_, err := c.drive.Permissions.Create(sheetID, &drive.Permission{
		Type:         "user",
		Role:         role,
		EmailAddress: email,
	}).Context(ctx).Do()
	return errors.Wrapf(err, "share %s with %s", sheetID, email)
}

// AppendRow appends one row of values after the existing rows.
func (c *Client) AppendRow(ctx context.Context, sheetID string, row []string) error {
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}

	_, err := c.sheets.Spreadsheets.Values.
		Append(sheetID, valueRange, &sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	return errors.Wrapf(err, "append row to %s", sheetID)
}

// ReadAllRows returns every row of the spreadsheet, header included,
// in sheet order.
func (c *Client) ReadAllRows(ctx context.Context, sheetID string) ([][]string, error) {
	resp, err := c.sheets.Spreadsheets.Values.Get(sheetID, valueRange).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "read rows of %s", sheetID)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
