package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/transeast/tripmaster-backend/internal/models"
)

var (
	// ErrNotConfigured means the store URL or key is missing; no network
	// call was attempted.
	ErrNotConfigured = errors.New("trip store not configured")
	// ErrRemoteUnavailable covers network failures and non-2xx responses.
	ErrRemoteUnavailable = errors.New("trip store unavailable")
	// ErrNotFound means an update targeted an id the store no longer has.
	ErrNotFound = errors.New("trip record not found")
)

// TripStore is a client for the remote trips collection, spoken over the
// Supabase REST API. It performs no retries; recovery is the caller's
// decision.
type TripStore struct {
	settings models.AppSettings
	client   *http.Client
}

func NewTripStore(settings models.AppSettings) *TripStore {
	return &TripStore{
		settings: settings,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// tripRow is the wire shape of a record. The store may return a numeric id;
// json.Number keeps both forms and the mapping normalizes to string.
type tripRow struct {
	ID            json.Number `json:"id,omitempty"`
	Date          string      `json:"date"`
	TripType      string      `json:"trip_type"`
	Description   string      `json:"description"`
	VehicleNumber string      `json:"vehicle_number"`
	DMID          string      `json:"dm_id"`
	DriverID      string      `json:"driver_id"`
	PhoneNumber   string      `json:"phone_number"`
	GPNumber      string      `json:"gp_number"`
	CreatedAt     string      `json:"created_at,omitempty"`
}

func (r tripRow) toRecord() models.TripRecord {
	record := models.TripRecord{
		ID:            r.ID.String(),
		Date:          r.Date,
		TripType:      models.TripType(r.TripType),
		Description:   r.Description,
		VehicleNumber: r.VehicleNumber,
		DMID:          r.DMID,
		DriverID:      r.DriverID,
		PhoneNumber:   r.PhoneNumber,
		GPNumber:      r.GPNumber,
		CreatedAt:     r.CreatedAt,
	}
	record.ResolveGP()
	return record
}

// tripPayload carries only the mutable fields; id and created_at belong to
// the store.
type tripPayload struct {
	Date          string `json:"date"`
	TripType      string `json:"trip_type"`
	Description   string `json:"description"`
	VehicleNumber string `json:"vehicle_number"`
	DMID          string `json:"dm_id"`
	DriverID      string `json:"driver_id"`
	PhoneNumber   string `json:"phone_number"`
	GPNumber      string `json:"gp_number"`
}

func newTripPayload(record models.TripRecord) tripPayload {
	return tripPayload{
		Date:          record.Date,
		TripType:      string(record.TripType),
		Description:   record.Description,
		VehicleNumber: record.VehicleNumber,
		DMID:          record.DMID,
		DriverID:      record.DriverID,
		PhoneNumber:   record.PhoneNumber,
		GPNumber:      record.GPNumber,
	}
}

// List fetches every trip, most recently created first.
func (s *TripStore) List(ctx context.Context) ([]models.TripRecord, error) {
	data, err := s.request(ctx, http.MethodGet, "order=created_at.desc", nil)
	if err != nil {
		return nil, err
	}
	var rows []tripRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: decoding list response: %v", ErrRemoteUnavailable, err)
	}
	records := make([]models.TripRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}

// Create persists a new record. The record is not saved unless this returns
// successfully; callers must not assume persistence on error.
func (s *TripStore) Create(ctx context.Context, record models.TripRecord) (models.TripRecord, error) {
	data, err := s.request(ctx, http.MethodPost, "", newTripPayload(record))
	if err != nil {
		return models.TripRecord{}, err
	}
	rows, err := decodeRepresentation(data)
	if err != nil {
		return models.TripRecord{}, err
	}
	if len(rows) == 0 {
		return models.TripRecord{}, fmt.Errorf("%w: store returned no representation for created record", ErrRemoteUnavailable)
	}
	return rows[0].toRecord(), nil
}

// Update replaces the mutable fields of an existing record.
func (s *TripStore) Update(ctx context.Context, id string, record models.TripRecord) (models.TripRecord, error) {
	data, err := s.request(ctx, http.MethodPatch, "id=eq."+url.QueryEscape(id), newTripPayload(record))
	if err != nil {
		return models.TripRecord{}, err
	}
	rows, err := decodeRepresentation(data)
	if err != nil {
		return models.TripRecord{}, err
	}
	// A PATCH against a missing id matches zero rows upstream.
	if len(rows) == 0 {
		return models.TripRecord{}, ErrNotFound
	}
	return rows[0].toRecord(), nil
}

// Delete removes a record permanently. Deleting an id the store no longer
// has matches zero rows and still succeeds, so the call is idempotent from
// the caller's perspective.
func (s *TripStore) Delete(ctx context.Context, id string) error {
	_, err := s.request(ctx, http.MethodDelete, "id=eq."+url.QueryEscape(id), nil)
	return err
}

func decodeRepresentation(data []byte) ([]tripRow, error) {
	var rows []tripRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: decoding store response: %v", ErrRemoteUnavailable, err)
	}
	return rows, nil
}

func (s *TripStore) request(ctx context.Context, method, query string, body interface{}) ([]byte, error) {
	if !s.settings.StoreConfigured() {
		return nil, ErrNotConfigured
	}

	endpoint := strings.TrimRight(s.settings.SupabaseURL, "/") + "/rest/v1/trips"
	if query != "" {
		endpoint += "?" + query
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	req.Header.Set("apikey", s.settings.SupabaseAnonKey)
	req.Header.Set("Authorization", "Bearer "+s.settings.SupabaseAnonKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrRemoteUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrRemoteUnavailable, remoteMessage(data, resp.StatusCode))
	}
	return data, nil
}

// remoteMessage pulls the store's message field out of an error body, with a
// generic fallback when the body is not what we expect.
func remoteMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fmt.Sprintf("store returned status %d", status)
}
