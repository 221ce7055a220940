package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/landgis/api/internal/models"
)

// ConfigRepository defines data access for the attribute configuration
// catalog. attribute_key is unique; uniqueness violations surface as
// ErrDuplicateKey.
type ConfigRepository interface {
	// List returns all catalog entries ordered by display_order, id.
	List(ctx context.Context) ([]models.AttributeConfig, error)

	// Upsert inserts a new entry keyed by cfg.AttributeKey or, when the
	// key already exists, overwrites its mutable fields and refreshes
	// updated_at. Returns the stored entry.
	Upsert(ctx context.Context, cfg models.AttributeConfig) (*models.AttributeConfig, error)

	// UpdateByID applies the non-nil fields of update to one entry.
	// Returns nil, nil if no entry has the given id.
	UpdateByID(ctx context.Context, id int64, update models.ConfigUpdate) (*models.AttributeConfig, error)

	// DeleteByKey removes the entry for attributeKey.
	// Returns false, nil if no such entry exists (not an error).
	DeleteByKey(ctx context.Context, attributeKey string) (bool, error)

	// UpdateOrder sets the display order for one entry by id.
	// Returns false, nil if no such entry exists (not an error).
	UpdateOrder(ctx context.Context, id int64, displayOrder int) (bool, error)

	// RenameKey changes the entry's attribute_key in place, preserving id
	// and history. Returns nil, nil if oldKey has no entry. Returns
	// ErrDuplicateKey if newKey already names another entry.
	RenameKey(ctx context.Context, oldKey, newKey string) (*models.AttributeConfig, error)

	// WithTx returns a repository bound to the given transaction.
	WithTx(tx pgx.Tx) ConfigRepository
}

// configRepository is the concrete implementation of ConfigRepository.
type configRepository struct {
	db DBTX
}

// NewConfigRepository creates a new instance of ConfigRepository.
func NewConfigRepository(db DBTX) ConfigRepository {
	return &configRepository{
		db: db,
	}
}

func (r *configRepository) WithTx(tx pgx.Tx) ConfigRepository {
	return &configRepository{db: tx}
}

const configColumns = `
	id, attribute_key, display_name, display_order,
	visible_in_table, visible_roles, format_type, format_options,
	created_at, updated_at
`

// scanConfig reads one catalog row.
func scanConfig(row pgx.Row) (*models.AttributeConfig, error) {
	var cfg models.AttributeConfig
	var optionsJSON []byte

	err := row.Scan(
		&cfg.ID,
		&cfg.AttributeKey,
		&cfg.DisplayName,
		&cfg.DisplayOrder,
		&cfg.VisibleInTable,
		&cfg.VisibleRoles,
		&cfg.FormatType,
		&optionsJSON,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	cfg.FormatOptions = optionsJSON

	return &cfg, nil
}

// List returns every catalog entry ordered by display_order ascending,
// ties broken by id ascending.
func (r *configRepository) List(ctx context.Context) ([]models.AttributeConfig, error) {
	query := `
		SELECT ` + configColumns + `
		FROM attribute_configs
		ORDER BY display_order ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query attribute configs: %w", err)
	}
	defer rows.Close()

	var results []models.AttributeConfig

	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attribute config row: %w", err)
		}
		results = append(results, *cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attribute config rows: %w", err)
	}

	if results == nil {
		results = []models.AttributeConfig{}
	}

	return results, nil
}

// Upsert inserts or overwrites an entry keyed by attribute_key.
func (r *configRepository) Upsert(ctx context.Context, cfg models.AttributeConfig) (*models.AttributeConfig, error) {
	query := `
		INSERT INTO attribute_configs
		(attribute_key, display_name, display_order, visible_in_table, visible_roles, format_type, format_options)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (attribute_key) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			display_order = EXCLUDED.display_order,
			visible_in_table = EXCLUDED.visible_in_table,
			visible_roles = EXCLUDED.visible_roles,
			format_type = EXCLUDED.format_type,
			format_options = EXCLUDED.format_options,
			updated_at = now()
		RETURNING ` + configColumns

	var optionsJSON []byte
	if cfg.FormatOptions != nil {
		optionsJSON = cfg.FormatOptions
	}

	row := r.db.QueryRow(ctx, query,
		cfg.AttributeKey,
		cfg.DisplayName,
		cfg.DisplayOrder,
		cfg.VisibleInTable,
		cfg.VisibleRoles,
		cfg.FormatType,
		optionsJSON,
	)

	stored, err := scanConfig(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert attribute config %q: %w", cfg.AttributeKey, err)
	}

	return stored, nil
}

// UpdateByID builds the SET clause from the non-nil fields of update.
// The caller is responsible for rejecting empty updates first.
func (r *configRepository) UpdateByID(ctx context.Context, id int64, update models.ConfigUpdate) (*models.AttributeConfig, error) {
	var sets []string
	var args []any

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.DisplayName != nil {
		addSet("display_name", *update.DisplayName)
	}
	if update.DisplayOrder != nil {
		addSet("display_order", *update.DisplayOrder)
	}
	if update.VisibleInTable != nil {
		addSet("visible_in_table", *update.VisibleInTable)
	}
	if update.VisibleRoles != nil {
		addSet("visible_roles", *update.VisibleRoles)
	}
	if update.FormatType != nil {
		addSet("format_type", *update.FormatType)
	}
	if update.FormatOptions != nil {
		addSet("format_options", []byte(*update.FormatOptions))
	}

	if len(sets) == 0 {
		return nil, fmt.Errorf("no fields to update for attribute config %d", id)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE attribute_configs
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), len(args), configColumns)

	cfg, err := scanConfig(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update attribute config %d: %w", id, err)
	}

	return cfg, nil
}

// DeleteByKey removes the entry for one attribute key.
func (r *configRepository) DeleteByKey(ctx context.Context, attributeKey string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM attribute_configs WHERE attribute_key = $1`, attributeKey)
	if err != nil {
		return false, fmt.Errorf("failed to delete attribute config %q: %w", attributeKey, err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateOrder sets one entry's display order by id.
func (r *configRepository) UpdateOrder(ctx context.Context, id int64, displayOrder int) (bool, error) {
	query := `
		UPDATE attribute_configs
		SET display_order = $2, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, displayOrder)
	if err != nil {
		return false, fmt.Errorf("failed to update order for attribute config %d: %w", id, err)
	}

	return tag.RowsAffected() > 0, nil
}

// RenameKey changes attribute_key in place. The unique index on
// attribute_key turns a colliding destination into ErrDuplicateKey.
func (r *configRepository) RenameKey(ctx context.Context, oldKey, newKey string) (*models.AttributeConfig, error) {
	query := `
		UPDATE attribute_configs
		SET attribute_key = $2, updated_at = now()
		WHERE attribute_key = $1
		RETURNING ` + configColumns

	cfg, err := scanConfig(r.db.QueryRow(ctx, query, oldKey, newKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to rename attribute config %q to %q: %w", oldKey, newKey, err)
	}

	return cfg, nil
}
