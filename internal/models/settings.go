package models

import "time"

// AppSettings is the single persisted configuration row: where the remote
// trip store lives, where the spreadsheet mirror posts, and the default
// WhatsApp share target. Editable at runtime through the settings endpoints.
type AppSettings struct {
	ID                    uint      `gorm:"primarykey" json:"-"`
	SupabaseURL           string    `gorm:"column:supabase_url" json:"supabaseUrl"`
	SupabaseAnonKey       string    `gorm:"column:supabase_anon_key" json:"supabaseAnonKey"`
	SheetsWebhookURL      string    `gorm:"column:sheets_webhook_url" json:"sheetsWebhookUrl"`
	WhatsAppDefaultNumber string    `gorm:"column:whatsapp_default_number" json:"whatsappDefaultNumber"`
	UpdatedAt             time.Time `json:"-"`
}

// TableName specifies the table name
func (AppSettings) TableName() string {
	return "app_settings"
}

// StoreConfigured reports whether the remote trip store is reachable in
// principle. Remote calls are short-circuited when it is false.
func (s AppSettings) StoreConfigured() bool {
	return s.SupabaseURL != "" && s.SupabaseAnonKey != ""
}
