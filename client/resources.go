package client

import (
	"context"

	"github.com/vitaltrack/vitaltrack/client/internal/api"
)

// --------------------------------------------------------------------
// Auth operations - delegated to internal/api
// --------------------------------------------------------------------

// Login authenticates and stores the returned token in the token store.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	return api.Login(ctx, c, c.tokens, req)
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	return api.Register(ctx, c, c.tokens, req)
}

// Logout forgets the stored token.
func (c *Client) Logout(context.Context) error {
	return api.Logout(c.tokens)
}

// --------------------------------------------------------------------
// User operations
// --------------------------------------------------------------------

// GetProfile returns the authenticated user.
func (c *Client) GetProfile(ctx context.Context) (*User, error) {
	return api.GetProfile(ctx, c, c.tokens)
}

// UpdateProfile changes the authenticated user's profile.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	return api.UpdateProfile(ctx, c, c.tokens, req)
}

// --------------------------------------------------------------------
// Medication operations
// --------------------------------------------------------------------

// ListMedications returns the user's medications.
func (c *Client) ListMedications(ctx context.Context) ([]Medication, error) {
	return api.ListMedications(ctx, c, c.tokens)
}

// GetMedication retrieves a medication by ID.
func (c *Client) GetMedication(ctx context.Context, id int64) (*Medication, error) {
	return api.GetMedication(ctx, c, c.tokens, id)
}

// CreateMedication adds a medication.
func (c *Client) CreateMedication(ctx context.Context, req MedicationRequest) (*Medication, error) {
	return api.CreateMedication(ctx, c, c.tokens, req)
}

// UpdateMedication replaces a medication.
func (c *Client) UpdateMedication(ctx context.Context, id int64, req MedicationRequest) (*Medication, error) {
	return api.UpdateMedication(ctx, c, c.tokens, id, req)
}

// DeleteMedication removes a medication.
func (c *Client) DeleteMedication(ctx context.Context, id int64) error {
	return api.DeleteMedication(ctx, c, c.tokens, id)
}

// --------------------------------------------------------------------
// Health record operations
// --------------------------------------------------------------------

// ListHealthRecords returns readings matching filter, newest first.
func (c *Client) ListHealthRecords(ctx context.Context, filter HealthRecordFilter) ([]HealthRecord, error) {
	return api.ListHealthRecords(ctx, c, c.tokens, filter)
}

// GetHealthRecord retrieves a reading by ID.
func (c *Client) GetHealthRecord(ctx context.Context, id int64) (*HealthRecord, error) {
	return api.GetHealthRecord(ctx, c, c.tokens, id)
}

// CreateHealthRecord stores a reading.
func (c *Client) CreateHealthRecord(ctx context.Context, req HealthRecordRequest) (*HealthRecord, error) {
	return api.CreateHealthRecord(ctx, c, c.tokens, req)
}

// UpdateHealthRecord replaces a reading.
func (c *Client) UpdateHealthRecord(ctx context.Context, id int64, req HealthRecordRequest) (*HealthRecord, error) {
	return api.UpdateHealthRecord(ctx, c, c.tokens, id, req)
}

// DeleteHealthRecord removes a reading.
func (c *Client) DeleteHealthRecord(ctx context.Context, id int64) error {
	return api.DeleteHealthRecord(ctx, c, c.tokens, id)
}
