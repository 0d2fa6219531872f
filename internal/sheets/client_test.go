package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Domenick1991/tourledger/config"
	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/Domenick1991/tourledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(),
		config.SheetsConfig{SpreadsheetID: "sheet-id", Range: "Sheet1"},
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return client
}

func TestClient_AppendRow(t *testing.T) {
	var gotBody struct {
		Values [][]any `json:"values"`
	}
	var gotQuery map[string][]string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.Contains(r.URL.Path, "/v4/spreadsheets/sheet-id/values/"), r.URL.Path)
		assert.True(t, strings.HasSuffix(r.URL.Path, ":append"), r.URL.Path)
		gotQuery = r.URL.Query()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-id","updates":{"updatedRows":1}}`))
	})

	row := domain.Row{Date: "12, Apr, Fri", TotalPeople: 2, TotalPrice: 100, NetPrice: 69, Note: domain.AutoFillNote}
	err := client.AppendRow(context.Background(), row.Cells(), ledger.AppendOptions{ValueInputOption: "USER_ENTERED"})

	require.NoError(t, err)
	assert.Equal(t, []string{"USER_ENTERED"}, gotQuery["valueInputOption"])
	assert.Equal(t, []string{"INSERT_ROWS"}, gotQuery["insertDataOption"])
	require.Len(t, gotBody.Values, 1)
	require.Len(t, gotBody.Values[0], domain.RowWidth)
	assert.Equal(t, "12, Apr, Fri", gotBody.Values[0][0])
	assert.Equal(t, float64(2), gotBody.Values[0][9])
	assert.Equal(t, float64(69), gotBody.Values[0][11])
}

func TestClient_AppendRow_PermanentErrors(t *testing.T) {
	testCases := []struct {
		name   string
		status int
	}{
		{name: "forbidden", status: http.StatusForbidden},
		{name: "not found", status: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"nope"}}`, tc.status)
			})

			err := client.AppendRow(context.Background(), []any{"x"}, ledger.AppendOptions{})
			assert.True(t, domain.IsPermanentStore(err), "got %v", err)
		})
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	testCases := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{name: "429", err: &googleapi.Error{Code: http.StatusTooManyRequests}, check: domain.IsTransientStore},
		{name: "503", err: &googleapi.Error{Code: http.StatusServiceUnavailable}, check: domain.IsTransientStore},
		{name: "500", err: &googleapi.Error{Code: http.StatusInternalServerError}, check: domain.IsTransientStore},
		{
			name:  "403 rate limit reason",
			err:   &googleapi.Error{Code: http.StatusForbidden, Errors: []googleapi.ErrorItem{{Reason: "userRateLimitExceeded"}}},
			check: domain.IsTransientStore,
		},
		{name: "401", err: &googleapi.Error{Code: http.StatusUnauthorized}, check: domain.IsPermanentStore},
		{name: "403", err: &googleapi.Error{Code: http.StatusForbidden}, check: domain.IsPermanentStore},
		{name: "404", err: &googleapi.Error{Code: http.StatusNotFound}, check: domain.IsPermanentStore},
		{name: "400", err: &googleapi.Error{Code: http.StatusBadRequest}, check: domain.IsPermanentStore},
		{name: "network", err: &net.OpError{Op: "dial", Err: timeoutErr{}}, check: domain.IsTransientStore},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.check(classifyError(tc.err)))
		})
	}
}

func TestClassifyError_ContextPassesThrough(t *testing.T) {
	err := classifyError(context.DeadlineExceeded)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, domain.IsTransientStore(err))
}
