package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/landgis/api/internal/models"
)

// ParcelRepository defines data access for parcel records and their
// attribute documents. The three bulk key operations each execute as a
// single UPDATE statement, so concurrent readers never observe a
// half-applied change.
type ParcelRepository interface {
	// List returns all parcels, newest first.
	// Returns an empty slice if no parcels exist (not an error).
	List(ctx context.Context) ([]models.Parcel, error)

	// Create inserts a new parcel with its caller-supplied initial
	// attributes and returns the stored record.
	Create(ctx context.Context, parcel *models.Parcel) (*models.Parcel, error)

	// Delete removes the parcel with the given id.
	// Returns false, nil if no such parcel exists (not an error).
	Delete(ctx context.Context, id int64) (bool, error)

	// GetAttributes returns the attribute document for one parcel.
	// Returns nil, nil if the parcel does not exist.
	GetAttributes(ctx context.Context, id int64) (models.Attributes, error)

	// ReplaceAttributes fully overwrites the parcel's attribute document
	// and returns the stored document. Returns nil, nil if the parcel
	// does not exist.
	ReplaceAttributes(ctx context.Context, id int64, attrs models.Attributes) (models.Attributes, error)

	// AddKeyToAll inserts key with the given value into every document
	// that does not already contain it. Returns the number of parcels
	// changed; re-running with the same key changes nothing.
	AddKeyToAll(ctx context.Context, key string, value models.Value) (int64, error)

	// RenameKeyEverywhere moves the value under oldKey to newKey in every
	// document containing oldKey. An existing newKey value is overwritten.
	// Returns the number of parcels changed.
	RenameKeyEverywhere(ctx context.Context, oldKey, newKey string) (int64, error)

	// DeleteKeyEverywhere removes key from every document containing it.
	// Returns the number of parcels changed.
	DeleteKeyEverywhere(ctx context.Context, key string) (int64, error)

	// WithTx returns a repository bound to the given transaction.
	WithTx(tx pgx.Tx) ParcelRepository
}

// parcelRepository is the concrete implementation of ParcelRepository.
type parcelRepository struct {
	db DBTX
}

// NewParcelRepository creates a new instance of ParcelRepository.
func NewParcelRepository(db DBTX) ParcelRepository {
	return &parcelRepository{
		db: db,
	}
}

func (r *parcelRepository) WithTx(tx pgx.Tx) ParcelRepository {
	return &parcelRepository{db: tx}
}

const parcelColumns = `
	id, title, type, price, area, location,
	latitude, longitude, segment, status, boundary, attributes,
	created_at, updated_at
`

// scanParcel reads one parcel row. Boundary and attributes arrive as raw
// jsonb and are decoded here.
func scanParcel(row pgx.Row) (*models.Parcel, error) {
	var parcel models.Parcel
	var boundaryJSON, attrsJSON []byte

	err := row.Scan(
		&parcel.ID,
		&parcel.Title,
		&parcel.Type,
		&parcel.Price,
		&parcel.Area,
		&parcel.Location,
		&parcel.Latitude,
		&parcel.Longitude,
		&parcel.Segment,
		&parcel.Status,
		&boundaryJSON,
		&attrsJSON,
		&parcel.CreatedAt,
		&parcel.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if boundaryJSON != nil {
		var boundary models.Boundary
		if err := json.Unmarshal(boundaryJSON, &boundary); err != nil {
			return nil, fmt.Errorf("failed to parse boundary for parcel %d: %w", parcel.ID, err)
		}
		parcel.Boundary = &boundary
	}

	parcel.Attributes = models.Attributes{}
	if attrsJSON != nil {
		if err := json.Unmarshal(attrsJSON, &parcel.Attributes); err != nil {
			return nil, fmt.Errorf("failed to parse attributes for parcel %d: %w", parcel.ID, err)
		}
	}

	return &parcel, nil
}

// List returns all parcels ordered by creation time, newest first.
func (r *parcelRepository) List(ctx context.Context) ([]models.Parcel, error) {
	query := `
		SELECT ` + parcelColumns + `
		FROM parcels
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query parcels: %w", err)
	}
	defer rows.Close()

	var results []models.Parcel

	for rows.Next() {
		parcel, err := scanParcel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan parcel row: %w", err)
		}
		results = append(results, *parcel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parcel rows: %w", err)
	}

	if results == nil {
		results = []models.Parcel{}
	}

	return results, nil
}

// Create inserts a new parcel and returns the stored record with its
// server-assigned id and timestamps.
func (r *parcelRepository) Create(ctx context.Context, parcel *models.Parcel) (*models.Parcel, error) {
	attrsJSON, err := json.Marshal(parcel.Attributes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal attributes: %w", err)
	}

	var boundaryJSON []byte
	if parcel.Boundary != nil {
		boundaryJSON, err = json.Marshal(parcel.Boundary)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal boundary: %w", err)
		}
	}

	query := `
		INSERT INTO parcels
		(title, type, price, area, location, latitude, longitude, segment, status, boundary, attributes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + parcelColumns

	row := r.db.QueryRow(ctx, query,
		parcel.Title,
		parcel.Type,
		parcel.Price,
		parcel.Area,
		parcel.Location,
		parcel.Latitude,
		parcel.Longitude,
		parcel.Segment,
		parcel.Status,
		boundaryJSON,
		attrsJSON,
	)

	created, err := scanParcel(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert parcel: %w", err)
	}

	return created, nil
}

// Delete removes one parcel by id.
func (r *parcelRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM parcels WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete parcel %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetAttributes returns the attribute document for one parcel.
func (r *parcelRepository) GetAttributes(ctx context.Context, id int64) (models.Attributes, error) {
	var attrsJSON []byte
	err := r.db.QueryRow(ctx, `SELECT attributes FROM parcels WHERE id = $1`, id).Scan(&attrsJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query attributes for parcel %d: %w", id, err)
	}

	attrs := models.Attributes{}
	if attrsJSON != nil {
		if err := json.Unmarshal(attrsJSON, &attrs); err != nil {
			return nil, fmt.Errorf("failed to parse attributes for parcel %d: %w", id, err)
		}
	}

	return attrs, nil
}

// ReplaceAttributes overwrites the full attribute document of one parcel.
func (r *parcelRepository) ReplaceAttributes(ctx context.Context, id int64, attrs models.Attributes) (models.Attributes, error) {
	attrsJSON, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal attributes: %w", err)
	}

	query := `
		UPDATE parcels
		SET attributes = $2, updated_at = now()
		WHERE id = $1
		RETURNING attributes
	`

	var storedJSON []byte
	err = r.db.QueryRow(ctx, query, id, attrsJSON).Scan(&storedJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to replace attributes for parcel %d: %w", id, err)
	}

	stored := models.Attributes{}
	if err := json.Unmarshal(storedJSON, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse stored attributes for parcel %d: %w", id, err)
	}

	return stored, nil
}

// AddKeyToAll inserts key with value into every document lacking it.
// One UPDATE covers all qualifying rows; the WHERE clause makes the
// operation idempotent.
func (r *parcelRepository) AddKeyToAll(ctx context.Context, key string, value models.Value) (int64, error) {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal default value: %w", err)
	}

	query := `
		UPDATE parcels
		SET attributes = attributes || jsonb_build_object($1::text, $2::jsonb),
		    updated_at = now()
		WHERE NOT attributes ? $1::text
	`

	tag, err := r.db.Exec(ctx, query, key, valueJSON)
	if err != nil {
		return 0, fmt.Errorf("failed to add attribute key %q: %w", key, err)
	}

	return tag.RowsAffected(), nil
}

// RenameKeyEverywhere moves the value under oldKey to newKey in every
// document containing oldKey, in a single statement. A pre-existing
// newKey value in the same document is overwritten (last write wins).
func (r *parcelRepository) RenameKeyEverywhere(ctx context.Context, oldKey, newKey string) (int64, error) {
	query := `
		UPDATE parcels
		SET attributes = (attributes - $1::text) || jsonb_build_object($2::text, attributes -> $1::text),
		    updated_at = now()
		WHERE attributes ? $1::text
	`

	tag, err := r.db.Exec(ctx, query, oldKey, newKey)
	if err != nil {
		return 0, fmt.Errorf("failed to rename attribute key %q to %q: %w", oldKey, newKey, err)
	}

	return tag.RowsAffected(), nil
}

// DeleteKeyEverywhere removes key from every document containing it.
func (r *parcelRepository) DeleteKeyEverywhere(ctx context.Context, key string) (int64, error) {
	query := `
		UPDATE parcels
		SET attributes = attributes - $1::text,
		    updated_at = now()
		WHERE attributes ? $1::text
	`

	tag, err := r.db.Exec(ctx, query, key)
	if err != nil {
		return 0, fmt.Errorf("failed to delete attribute key %q: %w", key, err)
	}

	return tag.RowsAffected(), nil
}
