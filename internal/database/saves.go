package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/mazequest/internal/logger"
	"github.com/lawnchairsociety/mazequest/internal/persistence"
)

var _ persistence.Store = (*Database)(nil)

// Save writes the snapshot into its slot, replacing any previous save.
func (d *Database) Save(s *persistence.Snapshot) error {
	if err := persistence.ValidateSlot(s.Slot); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}

	data, err := persistence.Encode(s)
	if err != nil {
		return err
	}

	query := d.qb.Build(`
		INSERT INTO saves (slot, id, map_index, saved_at, snapshot)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET
			id = excluded.id,
			map_index = excluded.map_index,
			saved_at = excluded.saved_at,
			snapshot = excluded.snapshot`)

	_, err = d.db.Exec(query, s.Slot, s.ID, s.MapIndex, s.SavedAt.UTC().Format(time.RFC3339Nano), string(data))
	if err != nil {
		return fmt.Errorf("failed to save slot %q: %w", s.Slot, err)
	}

	logger.Debug("Snapshot stored", "slot", s.Slot, "id", s.ID, "driver", d.dialect.DriverName())
	return nil
}

// Load reads the snapshot stored in slot.
func (d *Database) Load(slot string) (*persistence.Snapshot, error) {
	if err := persistence.ValidateSlot(slot); err != nil {
		return nil, err
	}

	var data string
	err := d.db.QueryRow(d.qb.Build(`SELECT snapshot FROM saves WHERE slot = ?`), slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", persistence.ErrSaveNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %q: %w", slot, err)
	}

	return persistence.Decode([]byte(data))
}

// List returns all saves ordered by slot name.
func (d *Database) List() ([]persistence.SaveInfo, error) {
	rows, err := d.db.Query(`SELECT slot, id, map_index, saved_at FROM saves ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	defer rows.Close()

	var infos []persistence.SaveInfo
	for rows.Next() {
		var info persistence.SaveInfo
		var savedAt string
		if err := rows.Scan(&info.Slot, &info.ID, &info.MapIndex, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan save row: %w", err)
		}
		info.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt)
		if err != nil {
			logger.Warning("Unparseable save timestamp", "slot", info.Slot, "value", savedAt)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes a slot.
func (d *Database) Delete(slot string) error {
	if err := persistence.ValidateSlot(slot); err != nil {
		return err
	}

	result, err := d.db.Exec(d.qb.Build(`DELETE FROM saves WHERE slot = ?`), slot)
	if err != nil {
		return fmt.Errorf("failed to delete slot %q: %w", slot, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete slot %q: %w", slot, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", persistence.ErrSaveNotFound, slot)
	}
	return nil
}
