package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transeast/tripmaster-backend/internal/models"
)

func storeFor(url string) *TripStore {
	return NewTripStore(models.AppSettings{
		SupabaseURL:     url,
		SupabaseAnonKey: "test-key",
	})
}

func TestListRequestShape(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := storeFor(server.URL).List(context.Background())
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/rest/v1/trips", got.URL.Path)
	assert.Equal(t, "order=created_at.desc", got.URL.RawQuery)
	assert.Equal(t, "test-key", got.Header.Get("apikey"))
	assert.Equal(t, "Bearer test-key", got.Header.Get("Authorization"))
}

func TestListMapsWireFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 42, "date": "2024-05-01", "trip_type": "Import GP",
			 "description": "GP: 4456. Loaded container", "vehicle_number": "D.M.U-23-2020",
			 "dm_id": "DM102", "driver_id": "DRV9", "phone_number": "01712345678",
			 "gp_number": "", "created_at": "2024-05-01T10:00:00Z"}
		]`))
	}))
	defer server.Close()

	trips, err := storeFor(server.URL).List(context.Background())
	require.NoError(t, err)
	require.Len(t, trips, 1)

	trip := trips[0]
	assert.Equal(t, "42", trip.ID)
	assert.Equal(t, models.TripTypeImportGP, trip.TripType)
	assert.Equal(t, "D.M.U-23-2020", trip.VehicleNumber)
	assert.Equal(t, "DM102", trip.DMID)
	assert.Equal(t, "DRV9", trip.DriverID)
	assert.Equal(t, "2024-05-01T10:00:00Z", trip.CreatedAt)

	// GP resolution runs at load time.
	assert.Equal(t, "4456", trip.DisplayGP)
	assert.Equal(t, models.GPSourceEmbedded, trip.GPSource)
}

func TestCreateSendsWirePayload(t *testing.T) {
	var payload map[string]interface{}
	var prefer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		prefer = r.Header.Get("Prefer")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(201)
		w.Write([]byte(`[{"id": 7, "date": "2024-05-01", "trip_type": "Empty GP",
			"description": "Loaded container", "vehicle_number": "D.M.U-23-2020",
			"dm_id": "DM102", "driver_id": "DRV9", "phone_number": "0",
			"gp_number": "", "created_at": "2024-05-01T10:00:00Z"}]`))
	}))
	defer server.Close()

	record := models.TripRecord{
		Date:          "2024-05-01",
		TripType:      models.TripTypeEmptyGP,
		Description:   "Loaded container",
		VehicleNumber: "D.M.U-23-2020",
		DMID:          "DM102",
		DriverID:      "DRV9",
		PhoneNumber:   "0",
	}
	created, err := storeFor(server.URL).Create(context.Background(), record)
	require.NoError(t, err)

	assert.Equal(t, "return=representation", prefer)
	assert.Equal(t, "Empty GP", payload["trip_type"])
	assert.Equal(t, "D.M.U-23-2020", payload["vehicle_number"])
	assert.Equal(t, "DM102", payload["dm_id"])
	assert.Equal(t, "DRV9", payload["driver_id"])
	assert.Equal(t, "0", payload["phone_number"])

	// id and created_at belong to the store.
	assert.NotContains(t, payload, "id")
	assert.NotContains(t, payload, "created_at")

	assert.Equal(t, "7", created.ID)
	assert.Equal(t, "2024-05-01T10:00:00Z", created.CreatedAt)
}

func TestUpdateTargetsID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "id=eq.42", r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 42, "date": "2024-05-01", "trip_type": "Empty GP",
			"description": "Edited", "vehicle_number": "D.M.U-23-2020",
			"dm_id": "DM102", "driver_id": "DRV9", "phone_number": "0", "gp_number": ""}]`))
	}))
	defer server.Close()

	updated, err := storeFor(server.URL).Update(context.Background(), "42", models.TripRecord{
		Date: "2024-05-01", TripType: models.TripTypeEmptyGP, Description: "Edited",
	})
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Description)
}

func TestUpdateMissingIDIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := storeFor(server.URL).Update(context.Background(), "999", models.TripRecord{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.WriteHeader(204)
	}))
	defer server.Close()

	require.NoError(t, storeFor(server.URL).Delete(context.Background(), "42"))
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "id=eq.42", got.URL.RawQuery)

	// An id the store no longer has matches zero rows and still succeeds.
	require.NoError(t, storeFor(server.URL).Delete(context.Background(), "42"))
}

func TestErrorBodyMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`{"message": "JWT expired"}`))
	}))
	defer server.Close()

	_, err := storeFor(server.URL).List(context.Background())
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.ErrorContains(t, err, "JWT expired")
}

func TestErrorBodyFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := storeFor(server.URL).List(context.Background())
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.ErrorContains(t, err, "status 500")
}

func TestNotConfiguredShortCircuits(t *testing.T) {
	store := NewTripStore(models.AppSettings{})

	_, err := store.List(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = store.Create(context.Background(), models.TripRecord{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.ErrorIs(t, store.Delete(context.Background(), "1"), ErrNotConfigured)
}

func TestNetworkFailureIsRemoteUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := storeFor(server.URL).List(context.Background())
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}
