package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/travelroom/pkg/events"
	"github.com/codeready-toolchain/travelroom/pkg/jsonsalvage"
)

// billQuery is the bill assistant's "I want to look something up" shape.
type billQuery struct {
	Query bool   `json:"query"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// billRecordJSON is one bill-assistant record as the LLM emits it.
type billRecordJSON struct {
	Topic        string   `json:"topic"`
	Payer        string   `json:"payer"`
	Participants []string `json:"participants"`
	Amount       float64  `json:"amount"`
	Currency     string   `json:"currency"`
	Note         string   `json:"note"`
}

// handleBill runs the bill assistant and interprets its response as either a
// query, a record (single object or array), or unparseable free text.
func (e *Executor) handleBill(ctx context.Context, utterance string) {
	raw, err := e.Stages.RunBillAssistant(ctx, utterance)
	if err != nil {
		e.publishError(err)
		return
	}

	var q billQuery
	if jsonsalvage.Extract(raw, &q) && q.Query {
		e.runBillQuery(ctx, q)
		return
	}

	var list []billRecordJSON
	if jsonsalvage.Extract(raw, &list) && len(list) > 0 {
		e.saveBills(ctx, list, utterance)
		return
	}

	var single billRecordJSON
	if jsonsalvage.Extract(raw, &single) && single.Topic != "" && single.Payer != "" && len(single.Participants) > 0 {
		e.saveBills(ctx, []billRecordJSON{single}, utterance)
		return
	}

	e.chunkFrame(raw)
}

// runBillQuery executes a bill lookup and emits the formatted result as a
// single "chunk" frame; the bill path never streams.
func (e *Executor) runBillQuery(ctx context.Context, q billQuery) {
	if e.Bills == nil {
		e.chunkFrame("Bill storage is not configured.")
		return
	}

	var (
		bills []SavedBill
		err   error
	)
	switch q.Type {
	case "id":
		var id int64
		if _, scanErr := fmt.Sscanf(q.Value, "%d", &id); scanErr == nil {
			if b, found, lookupErr := e.Bills.BillByID(ctx, id); lookupErr == nil && found {
				bills = []SavedBill{b}
			}
		}
	case "payer":
		bills, err = e.Bills.BillsByPayer(ctx, q.Value)
	case "participant":
		bills, err = e.Bills.BillsByParticipant(ctx, q.Value)
	}
	if err != nil {
		e.chunkFrame("No matching bill records found.")
		return
	}
	e.chunkFrame(formatBillsForDisplay(bills))
}

// saveBills persists each record independently: a record missing required
// fields, or one that fails to save, is skipped; the rest still proceed.
func (e *Executor) saveBills(ctx context.Context, list []billRecordJSON, userInput string) {
	if e.Bills == nil {
		e.chunkFrame("Bill storage is not configured.")
		return
	}

	var savedIDs []int64
	for _, rec := range list {
		if rec.Topic == "" || rec.Payer == "" || len(rec.Participants) == 0 {
			continue
		}
		currency := rec.Currency
		if currency == "" {
			currency = "USD"
		}
		id, err := e.Bills.SaveBill(ctx, BillRecord{
			Topic:        rec.Topic,
			Payer:        rec.Payer,
			Participants: rec.Participants,
			Amount:       rec.Amount,
			Currency:     currency,
			Note:         rec.Note,
			UserInput:    userInput,
		})
		if err != nil {
			continue
		}
		savedIDs = append(savedIDs, id)
	}

	if len(savedIDs) == 0 {
		e.chunkFrame("Failed to record bill. Please check the data format.")
		return
	}

	message := fmt.Sprintf("Bill successfully recorded! Bill ID: %d", savedIDs[0])
	if len(savedIDs) > 1 {
		message = fmt.Sprintf("Successfully recorded %d bills! Bill IDs: %s", len(savedIDs), joinIDs(savedIDs))
	}
	e.chunkFrame(message)
	e.publish(events.Frame{ID: uuid.New().String(), Kind: events.KindAI, AgentTag: "bill_ids", BillIDs: savedIDs})
}

// chunkFrame publishes the bill assistant's single, already-complete reply.
func (e *Executor) chunkFrame(content string) {
	e.publish(events.Frame{ID: uuid.New().String(), Kind: events.KindAI, Content: content})
}

func formatBillsForDisplay(bills []SavedBill) string {
	if len(bills) == 0 {
		return "No matching bill records found."
	}
	var b strings.Builder
	for _, bill := range bills {
		fmt.Fprintf(&b, "Bill #%d: %s — %s paid %.2f %s (participants: %s)\n",
			bill.ID, bill.Topic, bill.Payer, bill.Amount, bill.Currency, strings.Join(bill.Participants, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
