// Package tickets renders downloadable PDF confirmations with a signed QR
// payload: one for event registrations, one for slot bookings.
package tickets

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"mawid/db"
	"mawid/globals"
	"mawid/models"
	"mawid/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

func signPayload(parts string) string {
	h := hmac.New(sha256.New, []byte(globals.Env("TICKET_SECRET", "ticket-secret")))
	h.Write([]byte(parts))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// QRPayload builds the verifiable string embedded in ticket QR codes:
// kind|id|userID|timestamp|signature.
func QRPayload(kind, id, userID string) string {
	data := fmt.Sprintf("%s|%s|%s|%d", kind, id, userID, time.Now().Unix())
	return data + "|" + signPayload(data)
}

func writePDF(w http.ResponseWriter, title string, lines []string, qrPayload string) {
	qrPNG, err := qrcode.Encode(qrPayload, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	for _, line := range lines {
		pdf.Cell(0, 10, line)
		pdf.Ln(8)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=ticket.pdf")
	w.Write(buf.Bytes())
}

// EventTicket serves the registration confirmation for an event the caller
// is registered to.
func EventTicket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	eventID := ps.ByName("eventId")

	var event models.Event
	if err := db.EventCollection.FindOne(r.Context(), bson.M{
		"eventid":             eventID,
		"participants.userid": userID,
	}).Decode(&event); err != nil {
		http.Error(w, "Registration not found", http.StatusNotFound)
		return
	}

	var participant models.Participant
	for _, p := range event.Participants {
		if p.UserID == userID {
			participant = p
			break
		}
	}

	lines := []string{
		fmt.Sprintf("Event: %s", event.Title),
		fmt.Sprintf("Location: %s", event.Location),
		fmt.Sprintf("Starts: %s", event.StartDate.Format("2006-01-02 15:04")),
		fmt.Sprintf("Name: %s", participant.UserData.Name),
		fmt.Sprintf("Paid: %.2f", participant.FinalPrice),
	}
	writePDF(w, "Event Ticket", lines, QRPayload("event", eventID, userID))
}

// BookingTicket serves the confirmation for a calendar slot booking owned
// by the caller.
func BookingTicket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	slotID := ps.ByName("slotId")

	var slot models.CalendarSlot
	if err := db.CalendarSlotCollection.FindOne(r.Context(), bson.M{
		"slotid":   slotID,
		"bookedby": userID,
		"isbooked": true,
	}).Decode(&slot); err != nil {
		http.Error(w, "Booking not found", http.StatusNotFound)
		return
	}
	if slot.Cancelled {
		http.Error(w, "Booking cancelled", http.StatusNotFound)
		return
	}

	providerName := ""
	if slot.BookingData != nil {
		providerName = slot.BookingData.ProviderData.Name
	}

	lines := []string{
		fmt.Sprintf("Provider: %s", providerName),
		fmt.Sprintf("Date: %s", slot.Date),
		fmt.Sprintf("Time: %s - %s", slot.StartTime, slot.EndTime),
		fmt.Sprintf("Amount: %.2f", slot.Amount),
	}
	writePDF(w, "Booking Confirmation", lines, QRPayload("slot", slotID, userID))
}

// VerifyTicket checks a scanned QR payload signature. Providers use this
// at the door.
func VerifyTicket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	payload := r.URL.Query().Get("payload")
	idx := strings.LastIndexByte(payload, '|')
	if idx < 0 {
		utils.Fail(w, "Invalid ticket payload")
		return
	}
	data, sig := payload[:idx], payload[idx+1:]
	if !hmac.Equal([]byte(signPayload(data)), []byte(sig)) {
		log.Printf("tickets: signature mismatch for %q", data)
		utils.Fail(w, "Ticket signature mismatch")
		return
	}
	utils.Success(w, utils.M{"message": "Ticket verified", "data": data})
}
