package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/travelroom/pkg/database"
)

func TestCreateAndListBills(t *testing.T) {
	db, err := database.NewClient(context.Background(), "sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := &Server{db: db}
	e := echo.New()

	t.Run("skips records missing required fields and saves the rest", func(t *testing.T) {
		body := `{
			"bills": [
				{"topic": "dinner", "payer": "Alex", "participants": ["Alex", "Blake"], "amount": 40},
				{"topic": "", "payer": "Alex", "participants": ["Alex"], "amount": 10}
			],
			"user_input": "split dinner"
		}`
		req := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, s.createBillsHandler(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp CreateBillsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.BillIDs, 1)
	})

	t.Run("defaults currency to USD", func(t *testing.T) {
		body := `{"bills": [{"topic": "taxi", "payer": "Casey", "participants": ["Casey", "Drew"], "amount": 15}]}`
		req := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, s.createBillsHandler(c))

		listReq := httptest.NewRequest(http.MethodGet, "/bills", nil)
		listRec := httptest.NewRecorder()
		listCtx := e.NewContext(listReq, listRec)
		require.NoError(t, s.listBillsHandler(listCtx))

		var bills []*BillResponse
		require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &bills))
		var found bool
		for _, b := range bills {
			if b.Topic == "taxi" {
				found = true
				require.Equal(t, "USD", b.Currency)
			}
		}
		require.True(t, found, "expected the taxi bill to be listed")
	})

	t.Run("rejects an empty bills array", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(`{"bills": []}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := s.createBillsHandler(c)
		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		require.Equal(t, http.StatusBadRequest, he.Code)
	})

	t.Run("GET /bills/:id on an unknown id returns 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bills/99999", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("99999")

		err := s.getBillHandler(c)
		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		require.Equal(t, http.StatusNotFound, he.Code)
	})

	t.Run("GET /bills/:id with a non-numeric id returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bills/not-a-number", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("not-a-number")

		err := s.getBillHandler(c)
		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		require.Equal(t, http.StatusBadRequest, he.Code)
	})
}
