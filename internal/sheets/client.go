package sheets

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/Domenick1991/tourledger/config"
	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/Domenick1991/tourledger/internal/ledger"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

const insertRows = "INSERT_ROWS"

// Client appends rows to one range of a Google spreadsheet.
type Client struct {
	service       *sheetsapi.Service
	spreadsheetID string
	writeRange    string
}

func NewClient(ctx context.Context, cfg config.SheetsConfig, opts ...option.ClientOption) (*Client, error) {
	clientOpts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		writeRange:    cfg.Range,
	}, nil
}

func (c *Client) AppendRow(ctx context.Context, cells []any, opts ledger.AppendOptions) error {
	values := &sheetsapi.ValueRange{Values: [][]interface{}{cells}}

	call := c.service.Spreadsheets.Values.Append(c.spreadsheetID, c.writeRange, values).
		InsertDataOption(insertRows).
		Context(ctx)
	if opts.ValueInputOption != "" {
		call = call.ValueInputOption(opts.ValueInputOption)
	}

	if _, err := call.Do(); err != nil {
		return classifyError(err)
	}
	return nil
}

// classifyError maps Sheets API failures onto the store error taxonomy.
// Context errors are returned unchanged for the appender to classify.
func classifyError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if isRateLimited(apiErr) || apiErr.Code >= http.StatusInternalServerError || apiErr.Code == http.StatusRequestTimeout {
			return domain.TransientStoreError{Msg: "sheets append failed", Err: err}
		}
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.PermanentStoreError{Msg: "sheets rejected credentials", Err: err}
		case http.StatusNotFound:
			return domain.PermanentStoreError{Msg: "spreadsheet not found", Err: err}
		default:
			return domain.PermanentStoreError{Msg: "sheets append rejected", Err: err}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.TransientStoreError{Msg: "sheets unreachable", Err: err}
	}
	return err
}

func isRateLimited(apiErr *googleapi.Error) bool {
	if apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	for _, item := range apiErr.Errors {
		if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
			return true
		}
	}
	return false
}

var _ ledger.Client = (*Client)(nil)
