package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/vitaltrack/vitaltrack/client/internal/types"
)

// ListHealthRecords returns readings matching the filter, newest first.
func ListHealthRecords(ctx context.Context, r types.Requester, tokens types.TokenStore, filter types.HealthRecordFilter) ([]types.HealthRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateFilter(filter); err != nil {
		return nil, err
	}
	path := "/health-records"
	if q := filterQuery(filter); q != "" {
		path += "?" + q
	}
	var records []types.HealthRecord
	if err := r.Get(ctx, path, &records); err != nil {
		return nil, authFailure(tokens, "list health records", err)
	}
	return records, nil
}

// GetHealthRecord retrieves one reading.
func GetHealthRecord(ctx context.Context, r types.Requester, tokens types.TokenStore, id int64) (*types.HealthRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateID(id, "recordId"); err != nil {
		return nil, err
	}
	var rec types.HealthRecord
	if err := r.Get(ctx, fmt.Sprintf("/health-records/%d", id), &rec); err != nil {
		return nil, authFailure(tokens, "get health record", err)
	}
	return &rec, nil
}

// CreateHealthRecord stores a reading. A missing unit is filled with the
// type's default and a zero RecordedAt with the current time.
func CreateHealthRecord(ctx context.Context, r types.Requester, tokens types.TokenStore, req types.HealthRecordRequest) (*types.HealthRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateHealthRecord(req); err != nil {
		return nil, err
	}
	req = withDefaults(req)
	var rec types.HealthRecord
	if err := r.Post(ctx, "/health-records", req, &rec); err != nil {
		return nil, authFailure(tokens, "create health record", err)
	}
	return &rec, nil
}

// UpdateHealthRecord replaces a reading.
func UpdateHealthRecord(ctx context.Context, r types.Requester, tokens types.TokenStore, id int64, req types.HealthRecordRequest) (*types.HealthRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateID(id, "recordId"); err != nil {
		return nil, err
	}
	if err := types.ValidateHealthRecord(req); err != nil {
		return nil, err
	}
	req = withDefaults(req)
	var rec types.HealthRecord
	if err := r.Put(ctx, fmt.Sprintf("/health-records/%d", id), req, &rec); err != nil {
		return nil, authFailure(tokens, "update health record", err)
	}
	return &rec, nil
}

// DeleteHealthRecord removes a reading.
func DeleteHealthRecord(ctx context.Context, r types.Requester, tokens types.TokenStore, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidateID(id, "recordId"); err != nil {
		return err
	}
	if err := r.Delete(ctx, fmt.Sprintf("/health-records/%d", id), nil); err != nil {
		return authFailure(tokens, "delete health record", err)
	}
	return nil
}

func withDefaults(req types.HealthRecordRequest) types.HealthRecordRequest {
	if req.Unit == "" {
		req.Unit = req.Type.DefaultUnit()
	}
	if req.RecordedAt.IsZero() {
		req.RecordedAt = time.Now().UTC()
	}
	return req
}

func filterQuery(f types.HealthRecordFilter) string {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if !f.From.IsZero() {
		q.Set("from", f.From.UTC().Format(time.RFC3339))
	}
	if !f.To.IsZero() {
		q.Set("to", f.To.UTC().Format(time.RFC3339))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q.Encode()
}
