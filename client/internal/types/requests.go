package types

import "time"

// ------------------------------
// Request Types
// ------------------------------

// LoginRequest holds credentials for /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest holds parameters for a new account
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

// UpdateProfileRequest holds the mutable profile fields
type UpdateProfileRequest struct {
	Name        string `json:"name,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

// MedicationRequest is used for both create and update
type MedicationRequest struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Active    *bool  `json:"active,omitempty"`
}

// HealthRecordRequest is used for both create and update
type HealthRecordRequest struct {
	Type       RecordType `json:"type"`
	Systolic   int        `json:"systolic,omitempty"`
	Diastolic  int        `json:"diastolic,omitempty"`
	Value      float64    `json:"value,omitempty"`
	Unit       string     `json:"unit,omitempty"`
	RecordedAt time.Time  `json:"recorded_at,omitzero"`
	Notes      string     `json:"notes,omitempty"`
}

// HealthRecordFilter narrows ListHealthRecords. Zero fields are ignored.
type HealthRecordFilter struct {
	Type  RecordType
	From  time.Time
	To    time.Time
	Limit int
}
