package sessions

import (
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

// A wallet holding 50 must never match the debit for a 60 session: the
// filter carries the balance guard and the update decrements by exactly
// the price, so a non-matching wallet is left untouched.
func TestDebitQueryGuardsBalance(t *testing.T) {
	filter, update := debitQuery("user_w", 60)

	if filter["userId"] != "user_w" {
		t.Fatalf("filter userId = %v, want user_w", filter["userId"])
	}
	guard, ok := filter["balance"].(bson.M)
	if !ok {
		t.Fatalf("filter has no balance guard: %v", filter)
	}
	if got := guard["$gte"]; got != float64(60) {
		t.Fatalf("balance guard $gte = %v, want 60", got)
	}

	inc, ok := update["$inc"].(bson.M)
	if !ok {
		t.Fatalf("update is not an $inc: %v", update)
	}
	if got := inc["balance"]; got != float64(-60) {
		t.Fatalf("debit $inc = %v, want -60", got)
	}
}

func TestRefundReversesDebit(t *testing.T) {
	_, update := debitQuery("user_w", 42)
	debit := update["$inc"].(bson.M)["balance"].(float64)

	refund := refundUpdate(42)["$inc"].(bson.M)["balance"].(float64)
	if debit+refund != 0 {
		t.Fatalf("debit %v + refund %v != 0", debit, refund)
	}
}

func TestDebitFailureStatus(t *testing.T) {
	code, msg := debitFailureStatus(0)
	if code != http.StatusNotFound || msg != "Wallet not found" {
		t.Fatalf("no wallet: got %d %q", code, msg)
	}

	code, msg = debitFailureStatus(1)
	if code != http.StatusConflict || msg != "Insufficient balance" {
		t.Fatalf("existing wallet: got %d %q", code, msg)
	}
}
