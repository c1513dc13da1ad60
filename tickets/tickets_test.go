package tickets

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestQRPayloadShape(t *testing.T) {
	payload := QRPayload("event", "event123", "u1")
	parts := strings.Split(payload, "|")
	if len(parts) != 5 {
		t.Fatalf("got %d parts, want 5: %s", len(parts), payload)
	}
	if parts[0] != "event" || parts[1] != "event123" || parts[2] != "u1" {
		t.Fatalf("unexpected payload: %s", payload)
	}
}

func verifyResponse(t *testing.T, payload string) (bool, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/tickets/verify?payload="+url.QueryEscape(payload), nil)
	rec := httptest.NewRecorder()
	VerifyTicket(rec, req, nil)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	return body.Success, body.Message
}

func TestVerifyTicketAcceptsOwnPayload(t *testing.T) {
	ok, msg := verifyResponse(t, QRPayload("slot", "slot42", "u1"))
	if !ok {
		t.Fatalf("verification failed: %s", msg)
	}
}

func TestVerifyTicketRejectsTampering(t *testing.T) {
	payload := QRPayload("slot", "slot42", "u1")
	tampered := strings.Replace(payload, "slot42", "slot43", 1)
	if ok, _ := verifyResponse(t, tampered); ok {
		t.Fatal("tampered payload must not verify")
	}
}

func TestVerifyTicketRejectsGarbage(t *testing.T) {
	if ok, _ := verifyResponse(t, "no-pipes-here"); ok {
		t.Fatal("garbage payload must not verify")
	}
}
