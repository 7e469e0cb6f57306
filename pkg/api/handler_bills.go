package api

import (
	"net/http"
	"strconv"

	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/travelroom/pkg/database"
	"github.com/codeready-toolchain/travelroom/pkg/orchestrator"
)

// listBillsHandler handles GET /bills.
func (s *Server) listBillsHandler(c *echo.Context) error {
	bills, err := s.db.ListBills(c.Request().Context())
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, toBillResponses(bills))
}

// getBillHandler handles GET /bills/{id}.
func (s *Server) getBillHandler(c *echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bill id")
	}

	bill, found, err := s.db.BillByID(c.Request().Context(), id)
	if err != nil {
		return mapStoreError(err)
	}
	if !found {
		return mapStoreError(database.ErrNotFound)
	}
	return c.JSON(http.StatusOK, toBillResponse(bill))
}

// createBillsHandler handles POST /bills, accepting
// {bills: [...], user_input}.
func (s *Server) createBillsHandler(c *echo.Context) error {
	var req CreateBillsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Bills) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "bills is required")
	}

	var ids []int64
	for _, rec := range req.Bills {
		if rec.Topic == "" || rec.Payer == "" || len(rec.Participants) == 0 {
			continue
		}
		currency := rec.Currency
		if currency == "" {
			currency = "USD"
		}
		id, err := s.db.SaveBill(c.Request().Context(), orchestrator.BillRecord{
			Topic:        rec.Topic,
			Payer:        rec.Payer,
			Participants: rec.Participants,
			Amount:       rec.Amount,
			Currency:     currency,
			Note:         rec.Note,
			UserInput:    req.UserInput,
		})
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return c.JSON(http.StatusCreated, &CreateBillsResponse{BillIDs: ids})
}

func toBillResponse(b orchestrator.SavedBill) *BillResponse {
	return &BillResponse{
		ID: b.ID, Topic: b.Topic, Payer: b.Payer, Participants: b.Participants,
		Amount: b.Amount, Currency: b.Currency, Note: b.Note, UserInput: b.UserInput,
		CreatedAt: b.CreatedAt,
	}
}

func toBillResponses(bills []orchestrator.SavedBill) []*BillResponse {
	out := make([]*BillResponse, len(bills))
	for i, b := range bills {
		out[i] = toBillResponse(b)
	}
	return out
}
