package services

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/transeast/tripmaster-backend/internal/models"
)

var sheetsClient = &http.Client{Timeout: 10 * time.Second}

// MirrorToSheet forwards a saved trip to the spreadsheet webhook as JSON.
// Best-effort side channel: the response body is ignored and failures are
// logged, never surfaced. The primary save path must not wait on or fail
// with this call, so callers run it in a goroutine after the store confirms.
func MirrorToSheet(webhookURL string, record models.TripRecord) {
	if webhookURL == "" {
		log.Printf("Sheets webhook URL not set. Trip %s saved to store only.", record.ID)
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		log.Printf("Failed to encode trip %s for sheets mirror: %v", record.ID, err)
		return
	}

	resp, err := sheetsClient.Post(webhookURL, "application/json", bytes.NewReader(data))
	if err != nil {
		log.Printf("Error mirroring trip %s to sheets: %v", record.ID, err)
		return
	}
	resp.Body.Close()
}
