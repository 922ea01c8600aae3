package types

import "time"

// ------------------------------
// Core Domain Entities
// ------------------------------

// RecordType names the vital sign a HealthRecord measures.
type RecordType string

const (
	BloodPressure RecordType = "blood_pressure"
	BloodSugar    RecordType = "blood_sugar"
	HeartRate     RecordType = "heart_rate"
	Weight        RecordType = "weight"
)

// RecordTypes lists every supported record type.
var RecordTypes = []RecordType{BloodPressure, BloodSugar, HeartRate, Weight}

// DefaultUnit returns the unit the backend assumes when none is sent.
func (t RecordType) DefaultUnit() string {
	switch t {
	case BloodPressure:
		return "mmHg"
	case BloodSugar:
		return "mg/dL"
	case HeartRate:
		return "bpm"
	case Weight:
		return "kg"
	}
	return ""
}

// User represents the account owner
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name,omitempty"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Medication represents a prescribed medication
type Medication struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Frequency string    `json:"frequency"`
	StartDate string    `json:"start_date,omitempty"`
	EndDate   string    `json:"end_date,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// HealthRecord is a single vital-sign reading. Blood pressure uses
// Systolic/Diastolic; every other type uses Value.
type HealthRecord struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Type       RecordType `json:"type"`
	Systolic   int        `json:"systolic,omitempty"`
	Diastolic  int        `json:"diastolic,omitempty"`
	Value      float64    `json:"value,omitempty"`
	Unit       string     `json:"unit,omitempty"`
	RecordedAt time.Time  `json:"recorded_at"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
