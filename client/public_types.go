package client

import "github.com/vitaltrack/vitaltrack/client/internal/types"

// Public type aliases so SDK consumers can import only the client package.
// Requests
type (
	LoginRequest         = types.LoginRequest
	RegisterRequest      = types.RegisterRequest
	UpdateProfileRequest = types.UpdateProfileRequest
	MedicationRequest    = types.MedicationRequest
	HealthRecordRequest  = types.HealthRecordRequest
	HealthRecordFilter   = types.HealthRecordFilter

	// Domain entities
	User         = types.User
	Medication   = types.Medication
	HealthRecord = types.HealthRecord
	RecordType   = types.RecordType

	// Responses
	AuthResponse = types.AuthResponse
	HealthStatus = types.HealthStatus

	// TokenStore persists the bearer token; see package tokenstore.
	TokenStore = types.TokenStore
)

// Record types accepted by the backend.
const (
	BloodPressure = types.BloodPressure
	BloodSugar    = types.BloodSugar
	HeartRate     = types.HeartRate
	Weight        = types.Weight
)

// Errors re-exported in errors.go
