package handlers

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/transeast/tripmaster-backend/internal/models"
	"github.com/transeast/tripmaster-backend/internal/services"
	"github.com/transeast/tripmaster-backend/pkg/utils"
)

// SettingsStore provides the persisted app settings. Implemented by the
// gorm-backed store in internal/database.
type SettingsStore interface {
	Get() (models.AppSettings, error)
	Update(models.AppSettings) (models.AppSettings, error)
}

// TripCache is the last-known-good snapshot of the trip list. Implemented by
// the redis-backed cache in internal/services.
type TripCache interface {
	SaveSnapshot(ctx context.Context, trips []models.TripRecord) error
	LoadSnapshot(ctx context.Context) ([]models.TripRecord, error)
}

type TripInput struct {
	Date          string `json:"date" binding:"required"`
	TripType      string `json:"tripType" binding:"required"`
	Description   string `json:"description" binding:"required"`
	VehicleNumber string `json:"vehicleNumber" binding:"required"`
	DMID          string `json:"dmId" binding:"required"`
	DriverID      string `json:"driverId" binding:"required"`
	PhoneNumber   string `json:"phoneNumber" binding:"required"`
	GPNumber      string `json:"gpNumber"`
}

func (in TripInput) toRecord() models.TripRecord {
	record := models.TripRecord{
		Date:          in.Date,
		TripType:      models.TripType(in.TripType),
		Description:   in.Description,
		VehicleNumber: in.VehicleNumber,
		DMID:          in.DMID,
		DriverID:      in.DriverID,
		PhoneNumber:   in.PhoneNumber,
		GPNumber:      in.GPNumber,
	}
	record.Normalize()
	return record
}

// ListTrips serves the report view: the full list from the store, newest
// first, optionally filtered by ?search=. When the store is unreachable the
// last snapshot is served instead, so the view is never empty after a prior
// successful load.
func ListTrips(settings SettingsStore, cache TripCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := settings.Get()
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to load settings"})
			return
		}

		store := services.NewTripStore(cfg)
		trips, err := store.List(c.Request.Context())
		if err != nil {
			log.Printf("Trip list fetch failed, falling back to snapshot: %v", err)
			cached, cacheErr := cache.LoadSnapshot(c.Request.Context())
			if cacheErr != nil || cached == nil {
				respondStoreError(c, err)
				return
			}
			c.JSON(200, gin.H{
				"trips":  filterTrips(cached, c.Query("search")),
				"source": "cache",
			})
			return
		}

		if err := cache.SaveSnapshot(c.Request.Context(), trips); err != nil {
			log.Printf("Failed to cache trip snapshot: %v", err)
		}

		c.JSON(200, gin.H{
			"trips":  filterTrips(trips, c.Query("search")),
			"source": "store",
		})
	}
}

// CreateTrip validates and normalizes the submitted record, persists it,
// mirrors it to the spreadsheet webhook, and returns the reloaded list. The
// record does not count as saved unless the store call succeeds; a failure
// here changes nothing upstream.
func CreateTrip(settings SettingsStore, cache TripCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input TripInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		record := input.toRecord()
		if err := record.Validate(); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		cfg, err := settings.Get()
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to load settings"})
			return
		}

		store := services.NewTripStore(cfg)
		created, err := store.Create(c.Request.Context(), record)
		if err != nil {
			respondStoreError(c, err)
			return
		}

		go services.MirrorToSheet(cfg.SheetsWebhookURL, created)

		c.JSON(201, gin.H{
			"trip":  created,
			"trips": reloadTrips(c.Request.Context(), store, cache),
		})
	}
}

// UpdateTrip replaces the mutable fields of an existing record and returns
// the reloaded list.
func UpdateTrip(settings SettingsStore, cache TripCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input TripInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		record := input.toRecord()
		if err := record.Validate(); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		cfg, err := settings.Get()
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to load settings"})
			return
		}

		store := services.NewTripStore(cfg)
		updated, err := store.Update(c.Request.Context(), c.Param("id"), record)
		if err != nil {
			respondStoreError(c, err)
			return
		}

		c.JSON(200, gin.H{
			"trip":  updated,
			"trips": reloadTrips(c.Request.Context(), store, cache),
		})
	}
}

// DeleteTrip removes a record permanently. There is no soft delete and no
// undo; the confirmation step lives in the client.
func DeleteTrip(settings SettingsStore, cache TripCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := settings.Get()
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to load settings"})
			return
		}

		store := services.NewTripStore(cfg)
		if err := store.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondStoreError(c, err)
			return
		}

		c.JSON(200, gin.H{
			"message": "Trip record deleted",
			"trips":   reloadTrips(c.Request.Context(), store, cache),
		})
	}
}

type GPImportInput struct {
	GPNumber string `json:"gpNumber" binding:"required"`
}

// ImportGP sets the dedicated GP number on an existing record and rewrites
// the description prefix so both forms agree, then persists the record.
func ImportGP(settings SettingsStore, cache TripCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input GPImportInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		gp := utils.NormalizeDigits(input.GPNumber)
		if gp == "" {
			c.JSON(400, gin.H{"error": "GP number must contain digits"})
			return
		}

		cfg, err := settings.Get()
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to load settings"})
			return
		}

		store := services.NewTripStore(cfg)
		trip, err := findTrip(c.Request.Context(), store, c.Param("id"))
		if err != nil {
			respondStoreError(c, err)
			return
		}

		trip.GPNumber = gp
		trip.Description = utils.EmbedGPIntoDescription(trip.Description, gp)
		trip.ResolveGP()

		updated, err := store.Update(c.Request.Context(), trip.ID, trip)
		if err != nil {
			respondStoreError(c, err)
			return
		}

		c.JSON(200, gin.H{
			"trip":  updated,
			"trips": reloadTrips(c.Request.Context(), store, cache),
		})
	}
}

// ShareTrip builds the WhatsApp share payload for one record: the formatted
// message text and a wa.me link targeting the configured default number.
func ShareTrip(settings SettingsStore, cache TripCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := settings.Get()
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to load settings"})
			return
		}

		store := services.NewTripStore(cfg)
		trip, err := findTrip(c.Request.Context(), store, c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrRemoteUnavailable) {
				// Share works off the current view, cached or not.
				if cached, cacheErr := cache.LoadSnapshot(c.Request.Context()); cacheErr == nil {
					if found := findInList(cached, c.Param("id")); found != nil {
						respondShare(c, *found, cfg)
						return
					}
				}
			}
			respondStoreError(c, err)
			return
		}

		respondShare(c, trip, cfg)
	}
}

func respondShare(c *gin.Context, trip models.TripRecord, cfg models.AppSettings) {
	text := shareText(trip)
	c.JSON(200, gin.H{
		"text":             text,
		"whatsappUrl":      "https://wa.me/" + cfg.WhatsAppDefaultNumber + "?text=" + url.QueryEscape(text),
		"vehicleShortCode": utils.VehicleShortCode(trip.VehicleNumber),
	})
}

func shareText(trip models.TripRecord) string {
	gp := trip.DisplayGP
	if gp == "" {
		gp = "N/A"
	}
	lines := []string{
		"*Trip Information*",
		"Date: " + trip.Date,
		"Type: " + string(trip.TripType),
		"Vehicle: " + trip.VehicleNumber,
		"DM ID: " + trip.DMID,
		"Driver ID: " + trip.DriverID,
		"Phone: " + trip.PhoneNumber,
		"GP No: " + gp,
		"Description: " + trip.Description,
	}
	return strings.Join(lines, "\n")
}

// findTrip locates one record through the list operation, the same read path
// the report view uses.
func findTrip(ctx context.Context, store *services.TripStore, id string) (models.TripRecord, error) {
	trips, err := store.List(ctx)
	if err != nil {
		return models.TripRecord{}, err
	}
	if found := findInList(trips, id); found != nil {
		return *found, nil
	}
	return models.TripRecord{}, services.ErrNotFound
}

func findInList(trips []models.TripRecord, id string) *models.TripRecord {
	for i := range trips {
		if trips[i].ID == id {
			return &trips[i]
		}
	}
	return nil
}

// reloadTrips refreshes the list after a mutation so the client always
// renders authoritative store state rather than a locally patched guess.
// A reload failure degrades to the snapshot; the mutation itself already
// succeeded.
func reloadTrips(ctx context.Context, store *services.TripStore, cache TripCache) []models.TripRecord {
	trips, err := store.List(ctx)
	if err != nil {
		log.Printf("Trip reload after mutation failed: %v", err)
		cached, cacheErr := cache.LoadSnapshot(ctx)
		if cacheErr != nil {
			return nil
		}
		return cached
	}
	if err := cache.SaveSnapshot(ctx, trips); err != nil {
		log.Printf("Failed to cache trip snapshot: %v", err)
	}
	return trips
}

// filterTrips narrows the list by the report view's search semantics: match
// against vehicle, driver, DM, description, and both GP forms.
func filterTrips(trips []models.TripRecord, search string) []models.TripRecord {
	if search == "" {
		return trips
	}
	needle := strings.ToLower(search)
	filtered := make([]models.TripRecord, 0, len(trips))
	for _, trip := range trips {
		if strings.Contains(strings.ToLower(trip.VehicleNumber), needle) ||
			strings.Contains(strings.ToLower(trip.DriverID), needle) ||
			strings.Contains(strings.ToLower(trip.DMID), needle) ||
			strings.Contains(strings.ToLower(trip.GPNumber), needle) ||
			strings.Contains(strings.ToLower(trip.DisplayGP), needle) ||
			strings.Contains(strings.ToLower(trip.Description), needle) {
			filtered = append(filtered, trip)
		}
	}
	return filtered
}

func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotConfigured):
		c.JSON(503, gin.H{"error": "Trip store credentials not configured"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(404, gin.H{"error": "Trip record not found"})
	default:
		log.Printf("Trip store error: %v", err)
		c.JSON(502, gin.H{"error": "Trip store request failed"})
	}
}
