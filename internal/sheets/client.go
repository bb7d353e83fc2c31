package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dental-analytics/sheetbridge/internal/constants"
	"dental-analytics/sheetbridge/internal/models/dtos"

	"golang.org/x/time/rate"
)

// Client reads and appends spreadsheet data through the Google Sheets values
// API. Calls are rate limited to stay inside the per-minute quota.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// Sheets API allows 60 read requests per minute per user.
		limiter: rate.NewLimiter(rate.Limit(1), 5),
	}
}

// GetMetadata fetches spreadsheet properties (timezone) and the sheet tab list.
func (c *Client) GetMetadata(ctx context.Context, spreadsheetID string) (*dtos.SpreadsheetMeta, error) {
	endpoint := fmt.Sprintf("%s/spreadsheets/%s?fields=spreadsheetId,properties(title,timeZone),sheets(properties(sheetId,title,index))",
		c.baseURL, url.PathEscape(spreadsheetID))

	var meta dtos.SpreadsheetMeta
	if err := c.getJSON(ctx, endpoint, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// GetValues fetches a range in row-major order. Cells come back as formatted
// strings; anything else the API produces is coerced.
func (c *Client) GetValues(ctx context.Context, spreadsheetID, rangeA1 string) ([][]string, error) {
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s?majorDimension=ROWS&valueRenderOption=FORMATTED_VALUE",
		c.baseURL, url.PathEscape(spreadsheetID), url.PathEscape(rangeA1))

	var vr dtos.ValueRange
	if err := c.getJSON(ctx, endpoint, &vr); err != nil {
		return nil, err
	}

	rows := make([][]string, len(vr.Values))
	for i, raw := range vr.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = coerceCell(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

// AppendRow appends one row to the given tab, used by the audit log writer.
func (c *Client) AppendRow(ctx context.Context, spreadsheetID, tab string, row []string) error {
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s:append?valueInputOption=RAW",
		c.baseURL, url.PathEscape(spreadsheetID), url.PathEscape(tab))

	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	payload := dtos.AppendRequest{
		Range:          tab,
		MajorDimension: "ROWS",
		Values:         [][]interface{}{values},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal append payload: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	return c.handleHTTPError(resp)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if err := c.handleHTTPError(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// handleHTTPError converts non-2xx responses to ProviderError
func (c *Client) handleHTTPError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidAPIKey),
			Details: string(body),
		}
	case http.StatusNotFound:
		return &ProviderError{
			Code:    constants.ErrCodeSpreadsheetMissing,
			Message: constants.GetErrorMessage(constants.ErrCodeSpreadsheetMissing),
			Details: string(body),
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: string(body),
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodeServerError,
			Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
			Details: string(body),
		}
	}
}

func coerceCell(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ProviderError represents a Sheets API error
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
