package models

import (
	"fmt"
	"time"

	"github.com/transeast/tripmaster-backend/pkg/utils"
)

type TripType string

const (
	TripTypeEmptyGP      TripType = "Empty GP"
	TripTypeImportGP     TripType = "Import GP"
	TripTypeThirdParty   TripType = "Third Party GP"
	TripTypeInterCompany TripType = "Inter Company GP"
	TripTypeSCM          TripType = "SCM"
)

// TripTypes lists the closed set of trip classifications in form order.
func TripTypes() []TripType {
	return []TripType{
		TripTypeEmptyGP,
		TripTypeImportGP,
		TripTypeThirdParty,
		TripTypeInterCompany,
		TripTypeSCM,
	}
}

func (t TripType) Valid() bool {
	for _, known := range TripTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// GPSource tags where the displayed GP number of a record came from.
type GPSource string

const (
	GPSourceDedicated GPSource = "dedicated"
	GPSourceEmbedded  GPSource = "embedded"
	GPSourceAbsent    GPSource = "absent"
)

// TripRecord is a single truck trip entry. ID and CreatedAt are assigned by
// the remote store; a record has neither before its first successful save.
type TripRecord struct {
	ID            string   `json:"id,omitempty"`
	Date          string   `json:"date"`
	TripType      TripType `json:"tripType"`
	Description   string   `json:"description"`
	VehicleNumber string   `json:"vehicleNumber"`
	DMID          string   `json:"dmId"`
	DriverID      string   `json:"driverId"`
	PhoneNumber   string   `json:"phoneNumber"`
	GPNumber      string   `json:"gpNumber,omitempty"`
	CreatedAt     string   `json:"createdAt,omitempty"`

	// Resolved once when the record is loaded or normalized, not re-derived
	// at every read site.
	DisplayGP string   `json:"displayGp,omitempty"`
	GPSource  GPSource `json:"gpSource,omitempty"`
}

// NewTripRecord returns the default form state: today's date, the first trip
// type, everything else empty.
func NewTripRecord() TripRecord {
	record := TripRecord{
		Date:     time.Now().Format("2006-01-02"),
		TripType: TripTypeEmptyGP,
	}
	record.ResolveGP()
	return record
}

// Normalize canonicalizes the operator-entered fields and recomputes the GP
// resolution.
func (t *TripRecord) Normalize() {
	t.VehicleNumber = utils.NormalizeVehicleNumber(t.VehicleNumber)
	t.DMID = utils.NormalizeIDField(t.DMID)
	t.DriverID = utils.NormalizeIDField(t.DriverID)
	t.PhoneNumber = utils.NormalizeDigits(t.PhoneNumber)
	t.GPNumber = utils.NormalizeDigits(t.GPNumber)
	t.ResolveGP()
}

// ResolveGP fills DisplayGP and GPSource. The dedicated field wins over a
// prefix embedded in the description.
func (t *TripRecord) ResolveGP() {
	if t.GPNumber != "" {
		t.DisplayGP = t.GPNumber
		t.GPSource = GPSourceDedicated
		return
	}
	if gp := utils.ExtractGPFromDescription(t.Description); gp != "" {
		t.DisplayGP = gp
		t.GPSource = GPSourceEmbedded
		return
	}
	t.DisplayGP = ""
	t.GPSource = GPSourceAbsent
}

// Validate enforces the submit-time rules. It runs before any network call,
// so a record that fails here is never sent to the store.
func (t *TripRecord) Validate() error {
	if t.Date == "" {
		return fmt.Errorf("date is required")
	}
	if !t.TripType.Valid() {
		return fmt.Errorf("invalid trip type %q", t.TripType)
	}
	if t.Description == "" {
		return fmt.Errorf("description is required")
	}
	if t.VehicleNumber == "" {
		return fmt.Errorf("vehicle number is required")
	}
	if t.DMID == "" {
		return fmt.Errorf("DM ID is required")
	}
	if t.DriverID == "" {
		return fmt.Errorf("driver ID is required")
	}
	if !utils.ValidatePhone(t.PhoneNumber) {
		return fmt.Errorf("phone number must be 0 or 11 digits")
	}
	return nil
}
