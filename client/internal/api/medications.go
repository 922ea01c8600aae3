package api

import (
	"context"
	"fmt"

	"github.com/vitaltrack/vitaltrack/client/internal/types"
)

// ListMedications returns the user's medications.
func ListMedications(ctx context.Context, r types.Requester, tokens types.TokenStore) ([]types.Medication, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var meds []types.Medication
	if err := r.Get(ctx, "/medications", &meds); err != nil {
		return nil, authFailure(tokens, "list medications", err)
	}
	return meds, nil
}

// GetMedication retrieves one medication.
func GetMedication(ctx context.Context, r types.Requester, tokens types.TokenStore, id int64) (*types.Medication, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateID(id, "medicationId"); err != nil {
		return nil, err
	}
	var med types.Medication
	if err := r.Get(ctx, fmt.Sprintf("/medications/%d", id), &med); err != nil {
		return nil, authFailure(tokens, "get medication", err)
	}
	return &med, nil
}

// CreateMedication adds a medication.
func CreateMedication(ctx context.Context, r types.Requester, tokens types.TokenStore, req types.MedicationRequest) (*types.Medication, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateMedication(req); err != nil {
		return nil, err
	}
	var med types.Medication
	if err := r.Post(ctx, "/medications", req, &med); err != nil {
		return nil, authFailure(tokens, "create medication", err)
	}
	return &med, nil
}

// UpdateMedication replaces a medication's fields.
func UpdateMedication(ctx context.Context, r types.Requester, tokens types.TokenStore, id int64, req types.MedicationRequest) (*types.Medication, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateID(id, "medicationId"); err != nil {
		return nil, err
	}
	if err := types.ValidateMedication(req); err != nil {
		return nil, err
	}
	var med types.Medication
	if err := r.Put(ctx, fmt.Sprintf("/medications/%d", id), req, &med); err != nil {
		return nil, authFailure(tokens, "update medication", err)
	}
	return &med, nil
}

// DeleteMedication removes a medication. Backend returns 204 No Content on success.
func DeleteMedication(ctx context.Context, r types.Requester, tokens types.TokenStore, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidateID(id, "medicationId"); err != nil {
		return err
	}
	if err := r.Delete(ctx, fmt.Sprintf("/medications/%d", id), nil); err != nil {
		return authFailure(tokens, "delete medication", err)
	}
	return nil
}
