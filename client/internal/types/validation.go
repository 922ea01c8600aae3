package types

import (
	"context"
	"fmt"
	"net/mail"
	"time"
)

// ------------------------------
// Shared Interfaces
// ------------------------------

// Requester is the JSON verb surface the API layer calls. The retrying
// client satisfies it.
type Requester interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Put(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
	Clear() error
}

// ------------------------------
// Validation
// ------------------------------

const dateLayout = "2006-01-02"

// ValidateID rejects non-positive database identifiers.
func ValidateID(id int64, field string) error {
	if id <= 0 {
		return fmt.Errorf("%s must be positive, got %d", field, id)
	}
	return nil
}

// ValidateEmail checks the address parses as a bare addr-spec.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email %q", email)
	}
	return nil
}

// ValidateDate accepts an empty string or a YYYY-MM-DD date.
func ValidateDate(value, field string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return fmt.Errorf("%s must be YYYY-MM-DD, got %q", field, value)
	}
	return nil
}

// ValidateLogin checks the credentials are present.
func ValidateLogin(req LoginRequest) error {
	if err := ValidateEmail(req.Email); err != nil {
		return err
	}
	if req.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// ValidateRegister checks a registration payload.
func ValidateRegister(req RegisterRequest) error {
	if err := ValidateLogin(LoginRequest{Email: req.Email, Password: req.Password}); err != nil {
		return err
	}
	return ValidateDate(req.DateOfBirth, "date_of_birth")
}

// ValidateMedication checks the required medication fields and date order.
func ValidateMedication(req MedicationRequest) error {
	if req.Name == "" {
		return fmt.Errorf("medication name is required")
	}
	if req.Dosage == "" {
		return fmt.Errorf("medication dosage is required")
	}
	if req.Frequency == "" {
		return fmt.Errorf("medication frequency is required")
	}
	if err := ValidateDate(req.StartDate, "start_date"); err != nil {
		return err
	}
	if err := ValidateDate(req.EndDate, "end_date"); err != nil {
		return err
	}
	// layout is lexically ordered
	if req.StartDate != "" && req.EndDate != "" && req.EndDate < req.StartDate {
		return fmt.Errorf("end_date %s is before start_date %s", req.EndDate, req.StartDate)
	}
	return nil
}

// ValidateRecordType rejects unknown record types.
func ValidateRecordType(t RecordType) error {
	for _, known := range RecordTypes {
		if t == known {
			return nil
		}
	}
	return fmt.Errorf("unknown record type %q", t)
}

// ValidateHealthRecord checks the reading matches its type.
func ValidateHealthRecord(req HealthRecordRequest) error {
	if err := ValidateRecordType(req.Type); err != nil {
		return err
	}
	if req.Type == BloodPressure {
		if req.Systolic <= 0 || req.Diastolic <= 0 {
			return fmt.Errorf("blood pressure needs positive systolic and diastolic values")
		}
		if req.Systolic <= req.Diastolic {
			return fmt.Errorf("systolic (%d) must exceed diastolic (%d)", req.Systolic, req.Diastolic)
		}
		return nil
	}
	if req.Value <= 0 {
		return fmt.Errorf("%s needs a positive value", req.Type)
	}
	return nil
}

// ValidateFilter checks a list filter before it is encoded.
func ValidateFilter(f HealthRecordFilter) error {
	if f.Type != "" {
		if err := ValidateRecordType(f.Type); err != nil {
			return err
		}
	}
	if f.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return fmt.Errorf("to must not be before from")
	}
	return nil
}
