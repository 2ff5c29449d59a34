package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/transeast/tripmaster-backend/internal/models"
)

// GetSettings returns the persisted configuration surface.
func GetSettings(store SettingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := store.Get()
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to load settings"})
			return
		}
		c.JSON(200, settings)
	}
}

type SettingsInput struct {
	SupabaseURL           string `json:"supabaseUrl"`
	SupabaseAnonKey       string `json:"supabaseAnonKey"`
	SheetsWebhookURL      string `json:"sheetsWebhookUrl"`
	WhatsAppDefaultNumber string `json:"whatsappDefaultNumber"`
}

// UpdateSettings replaces the configuration with the submitted values. Edits
// take effect on the next trip operation; no restart is needed.
func UpdateSettings(store SettingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SettingsInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		updated, err := store.Update(models.AppSettings{
			SupabaseURL:           input.SupabaseURL,
			SupabaseAnonKey:       input.SupabaseAnonKey,
			SheetsWebhookURL:      input.SheetsWebhookURL,
			WhatsAppDefaultNumber: input.WhatsAppDefaultNumber,
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to save settings"})
			return
		}

		c.JSON(200, updated)
	}
}
