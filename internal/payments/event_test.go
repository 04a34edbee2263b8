package payments

import "testing"

func TestParseEventCheckoutCompleted(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"object": "checkout.session",
				"status": "complete",
				"payment_status": "paid",
				"amount_total": 149000,
				"currency": "czk",
				"created": 1748779200,
				"metadata": {"productId": "premium"},
				"customer_details": {"email": "zenich@example.com"}
			}
		}
	}`)

	evt, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("ParseEvent returned error: %v", err)
	}
	if evt.Type != EventCheckoutCompleted {
		t.Fatalf("unexpected event type %q", evt.Type)
	}

	session, err := evt.CheckoutSession()
	if err != nil {
		t.Fatalf("CheckoutSession returned error: %v", err)
	}
	if session.ID != "cs_test_1" || !session.Paid() {
		t.Fatalf("unexpected session %+v", session)
	}
	if session.AmountTotal != 149000 || session.Currency != "czk" {
		t.Fatalf("unexpected totals %d %s", session.AmountTotal, session.Currency)
	}
	if session.Metadata["productId"] != "premium" {
		t.Fatalf("unexpected metadata %v", session.Metadata)
	}
	if session.CustomerEmail != "zenich@example.com" {
		t.Fatalf("unexpected email %q", session.CustomerEmail)
	}
}

func TestParseEventPaymentFailed(t *testing.T) {
	payload := []byte(`{
		"id": "evt_2",
		"type": "payment_intent.payment_failed",
		"data": {"object": {"id": "pi_123", "object": "payment_intent"}}
	}`)

	evt, err := ParseEvent(payload)
	if err != nil {
		t.Fatalf("ParseEvent returned error: %v", err)
	}
	if evt.Type != EventPaymentFailed {
		t.Fatalf("unexpected event type %q", evt.Type)
	}
	intentID, err := evt.PaymentIntent()
	if err != nil {
		t.Fatalf("PaymentIntent returned error: %v", err)
	}
	if intentID != "pi_123" {
		t.Fatalf("unexpected intent id %q", intentID)
	}
}

func TestParseEventRejectsGarbage(t *testing.T) {
	if _, err := ParseEvent([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if _, err := ParseEvent([]byte(`{"id":"evt_3"}`)); err == nil {
		t.Fatal("expected error for missing type")
	}
}
