package database

import (
	"errors"
	"os"

	"gorm.io/gorm"

	"github.com/transeast/tripmaster-backend/internal/models"
)

// SettingsStore reads and writes the single app_settings row.
type SettingsStore struct {
	db *gorm.DB
}

func NewSettingsStore(db *gorm.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the settings row, seeding it from the environment on first
// boot so a fresh deployment comes up pointed at the right store.
func (s *SettingsStore) Get() (models.AppSettings, error) {
	var settings models.AppSettings
	err := s.db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.AppSettings{
			SupabaseURL:           os.Getenv("SUPABASE_URL"),
			SupabaseAnonKey:       os.Getenv("SUPABASE_ANON_KEY"),
			SheetsWebhookURL:      os.Getenv("SHEETS_WEBHOOK_URL"),
			WhatsAppDefaultNumber: os.Getenv("WHATSAPP_DEFAULT_NUMBER"),
		}
		if err := s.db.Create(&settings).Error; err != nil {
			return models.AppSettings{}, err
		}
		return settings, nil
	}
	if err != nil {
		return models.AppSettings{}, err
	}
	return settings, nil
}

// Update replaces every editable field with the submitted values.
func (s *SettingsStore) Update(in models.AppSettings) (models.AppSettings, error) {
	current, err := s.Get()
	if err != nil {
		return models.AppSettings{}, err
	}

	current.SupabaseURL = in.SupabaseURL
	current.SupabaseAnonKey = in.SupabaseAnonKey
	current.SheetsWebhookURL = in.SheetsWebhookURL
	current.WhatsAppDefaultNumber = in.WhatsAppDefaultNumber

	if err := s.db.Save(&current).Error; err != nil {
		return models.AppSettings{}, err
	}
	return current, nil
}
