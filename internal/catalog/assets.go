package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const assetColumns = "asset_key, url, recipe_name, state, error_kind, error_message, content_type, width, height, size_bytes, run_id, updated_at"

// RecordAsset upserts the latest outcome for an asset key.
func (s *Store) RecordAsset(ctx context.Context, asset Asset) error {
	key := strings.TrimSpace(asset.Key)
	if key == "" {
		return errors.New("asset key is required")
	}
	if asset.State == "" {
		return errors.New("asset state is required")
	}
	if asset.UpdatedAt.IsZero() {
		asset.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO assets (`+assetColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(asset_key) DO UPDATE SET
             url = excluded.url,
             recipe_name = excluded.recipe_name,
             state = excluded.state,
             error_kind = excluded.error_kind,
             error_message = excluded.error_message,
             content_type = COALESCE(excluded.content_type, assets.content_type),
             width = CASE WHEN excluded.width > 0 THEN excluded.width ELSE assets.width END,
             height = CASE WHEN excluded.height > 0 THEN excluded.height ELSE assets.height END,
             size_bytes = CASE WHEN excluded.size_bytes > 0 THEN excluded.size_bytes ELSE assets.size_bytes END,
             run_id = excluded.run_id,
             updated_at = excluded.updated_at`,
		key,
		asset.URL,
		nullableString(asset.RecipeName),
		string(asset.State),
		nullableString(asset.ErrorKind),
		nullableString(asset.ErrorMessage),
		nullableString(asset.ContentType),
		asset.Width,
		asset.Height,
		asset.SizeBytes,
		nullableString(asset.RunID),
		asset.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record asset %s: %w", key, err)
	}
	return nil
}

// GetAsset returns the ledger row for key, or nil when none exists.
func (s *Store) GetAsset(ctx context.Context, key string) (*Asset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE asset_key = ?`, key)
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return asset, nil
}

// ListAssets returns ledger rows ordered by key. When states is non-empty only
// rows in those states are returned.
func (s *Store) ListAssets(ctx context.Context, states ...AssetState) ([]*Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets`
	args := make([]any, 0, len(states))
	if len(states) > 0 {
		placeholders := make([]string, len(states))
		for i, state := range states {
			placeholders[i] = "?"
			args = append(args, string(state))
		}
		query += ` WHERE state IN (` + strings.Join(placeholders, ",") + `)`
	}
	query += ` ORDER BY asset_key`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []*Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return assets, nil
}

// AssetStats counts ledger rows per state.
func (s *Store) AssetStats(ctx context.Context) (map[AssetState]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT state, COUNT(1) FROM assets GROUP BY state`)
	if err != nil {
		return nil, fmt.Errorf("asset stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[AssetState]int)
	for rows.Next() {
		var (
			state string
			count int
		)
		if err := rows.Scan(&state, &count); err != nil {
			return nil, fmt.Errorf("scan asset stats: %w", err)
		}
		stats[AssetState(state)] = count
	}
	return stats, rows.Err()
}

// RemoveAsset deletes the ledger row for key. Missing rows are not an error.
func (s *Store) RemoveAsset(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM assets WHERE asset_key = ?`, key); err != nil {
		return fmt.Errorf("remove asset %s: %w", key, err)
	}
	return nil
}

func scanAsset(scanner interface{ Scan(dest ...any) error }) (*Asset, error) {
	var (
		key          string
		url          string
		recipeName   sql.NullString
		state        string
		errorKind    sql.NullString
		errorMessage sql.NullString
		contentType  sql.NullString
		width        int
		height       int
		sizeBytes    int64
		runID        sql.NullString
		updatedRaw   string
	)
	if err := scanner.Scan(
		&key,
		&url,
		&recipeName,
		&state,
		&errorKind,
		&errorMessage,
		&contentType,
		&width,
		&height,
		&sizeBytes,
		&runID,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	asset := &Asset{
		Key:          key,
		URL:          url,
		RecipeName:   recipeName.String,
		State:        AssetState(state),
		ErrorKind:    errorKind.String,
		ErrorMessage: errorMessage.String,
		ContentType:  contentType.String,
		Width:        width,
		Height:       height,
		SizeBytes:    sizeBytes,
		RunID:        runID.String,
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		asset.UpdatedAt = updated
	}
	return asset, nil
}
