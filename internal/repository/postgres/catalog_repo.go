package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"iolist/internal/domain"
	"iolist/internal/port"
)

const catalogSourceName = "postgres:components"

type componentRow struct {
	Prefix      string `db:"prefix"`
	Ordinal     int    `db:"ordinal"`
	Component   string `db:"component"`
	Subtype     string `db:"subtype"`
	IOType      string `db:"io_type"`
	Inputs      []byte `db:"inputs"`
	Outputs     []byte `db:"outputs"`
	InputCable  string `db:"input_cable"`
	OutputCable string `db:"output_cable"`
	Defects     []byte `db:"defects"`
}

type catalogRepo struct {
	db *sqlx.DB
}

// NewCatalogRepo creates a PostgreSQL-backed CatalogStore over the
// components table. Catalog order is the ordinal column.
func NewCatalogRepo(db *sqlx.DB) port.CatalogStore {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) Describe() string {
	return catalogSourceName
}

func (r *catalogRepo) Load(ctx context.Context) (*domain.Catalog, error) {
	var rows []componentRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT prefix, ordinal, component, subtype, io_type, inputs, outputs,
		        input_cable, output_cable, defects
		 FROM components
		 ORDER BY ordinal`)
	if err != nil {
		return nil, &domain.CatalogLoadError{Source: catalogSourceName, Err: err}
	}

	entries := make([]domain.CatalogEntry, 0, len(rows))
	for i := range rows {
		def, err := rows[i].definition()
		if err != nil {
			return nil, &domain.CatalogLoadError{
				Source: catalogSourceName,
				Err:    fmt.Errorf("component %q: %w", rows[i].Prefix, err),
			}
		}
		entries = append(entries, domain.CatalogEntry{Prefix: rows[i].Prefix, Definition: def})
	}
	return domain.NewCatalog(entries), nil
}

func (r *catalogRepo) Replace(ctx context.Context, catalog *domain.Catalog) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalogRepo.Replace begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM components"); err != nil {
		return fmt.Errorf("catalogRepo.Replace delete: %w", err)
	}

	for i, e := range catalog.Entries() {
		row, err := newComponentRow(i, e)
		if err != nil {
			return fmt.Errorf("catalogRepo.Replace %q: %w", e.Prefix, err)
		}
		_, err = tx.NamedExecContext(ctx,
			`INSERT INTO components (
				prefix, ordinal, component, subtype, io_type, inputs, outputs,
				input_cable, output_cable, defects, updated_at
			) VALUES (
				:prefix, :ordinal, :component, :subtype, :io_type, :inputs, :outputs,
				:input_cable, :output_cable, :defects, NOW()
			)`, row)
		if err != nil {
			return fmt.Errorf("catalogRepo.Replace insert %q: %w", e.Prefix, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalogRepo.Replace commit: %w", err)
	}
	return nil
}

func newComponentRow(ordinal int, e domain.CatalogEntry) (*componentRow, error) {
	d := e.Definition
	inputs, err := json.Marshal(nonNil(d.Inputs))
	if err != nil {
		return nil, err
	}
	outputs, err := json.Marshal(nonNil(d.Outputs))
	if err != nil {
		return nil, err
	}
	defects, err := json.Marshal(nonNil(d.Defects))
	if err != nil {
		return nil, err
	}
	return &componentRow{
		Prefix:      e.Prefix,
		Ordinal:     ordinal,
		Component:   d.Component,
		Subtype:     d.Subtype,
		IOType:      d.IOType,
		Inputs:      inputs,
		Outputs:     outputs,
		InputCable:  d.InputCable,
		OutputCable: d.OutputCable,
		Defects:     defects,
	}, nil
}

func (row *componentRow) definition() (domain.ComponentDefinition, error) {
	def := domain.ComponentDefinition{
		Component:   row.Component,
		Subtype:     row.Subtype,
		IOType:      row.IOType,
		InputCable:  row.InputCable,
		OutputCable: row.OutputCable,
	}
	if err := json.Unmarshal(row.Inputs, &def.Inputs); err != nil {
		return def, fmt.Errorf("decoding inputs: %w", err)
	}
	if err := json.Unmarshal(row.Outputs, &def.Outputs); err != nil {
		return def, fmt.Errorf("decoding outputs: %w", err)
	}
	if err := json.Unmarshal(row.Defects, &def.Defects); err != nil {
		return def, fmt.Errorf("decoding defects: %w", err)
	}
	def.Inputs = nonNil(def.Inputs)
	def.Outputs = nonNil(def.Outputs)
	if len(def.Defects) == 0 {
		def.Defects = nil
	}
	return def, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
