// Package ioresolve turns natural keys of dimension entities into
// surrogate ids, creating rows on first sight.
package ioresolve

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mdverse/mddb/pkg/catalog"
	"github.com/mdverse/mddb/pkg/db"
	"github.com/mdverse/mddb/pkg/schema"
)

// Stats counts how natural keys of one table were resolved.
type Stats struct {
	// Created is the number of inserted rows.
	Created int
	// CacheHits is the number of keys found in the run cache.
	CacheHits int
	// StoreHits is the number of keys found by a SELECT.
	StoreHits int
	// Recovered is the number of unique violations turned into lookups.
	Recovered int
}

// Resolver finds or creates dimension rows. It keeps a cache for one
// ingestion run and is not safe for concurrent use.
//
// Rows are written outside of any caller transaction and committed
// immediately, so callers must resolve every key of a record before
// they begin the record transaction.
type Resolver struct {
	op    db.Operator
	cache map[string]int64
	stats map[string]*Stats

	// beforeInsert runs between the lookup and the insert of a new row.
	beforeInsert func(table string)
}

// New creates a Resolver with an empty cache.
func New(op db.Operator) *Resolver {
	return &Resolver{
		op:    op,
		cache: make(map[string]int64),
		stats: make(map[string]*Stats),
	}
}

// MoleculeKey is the natural key of a molecule together with its type.
type MoleculeKey struct {
	Name     string
	Formula  string
	Sequence string
	Type     string
}

// naturalKey describes one find-or-create request.
type naturalKey struct {
	table    string
	idColumn string
	columns  []string
	values   []any
	// isNull columns must be NULL for a row to match.
	isNull []string
	// extra columns are inserted but do not take part in the key.
	extraColumns []string
	extraValues  []any
}

func (k naturalKey) String() string {
	parts := make([]string, len(k.values))
	for i, v := range k.values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, "|")
}

func (k naturalKey) cacheKey() string {
	var sb strings.Builder
	sb.WriteString(k.table)
	for _, c := range k.columns {
		sb.WriteString("\x1f")
		sb.WriteString(c)
	}
	for _, v := range k.values {
		sb.WriteString("\x1e")
		sb.WriteString(fmt.Sprint(v))
	}
	return sb.String()
}

// Resolve returns the id of a single-column dimension value. Empty
// values are replaced with the sentinel of the dimension. Dimensions
// without a sentinel return EmptyKeyError for empty values.
// Software is resolved with an unknown version.
func (r *Resolver) Resolve(
	ctx context.Context,
	d catalog.Dimension,
	name string,
) (int64, error) {
	if d == catalog.Software {
		res, err := r.ResolveSoftware(ctx, name, "")
		if err != nil {
			return 0, err
		}
		if !res.Valid {
			return 0, EmptyKeyError(d.String())
		}
		return res.Int64, nil
	}

	dt, ok := schema.DimensionTableOf(d)
	if !ok {
		return 0, fmt.Errorf("unknown dimension %q", d)
	}

	name = catalog.Normalize(d, name)
	if name == "" {
		return 0, EmptyKeyError(dt.Table)
	}

	return r.findOrCreate(ctx, naturalKey{
		table:    dt.Table,
		idColumn: dt.IDColumn,
		columns:  dt.KeyColumns,
		values:   []any{name},
	})
}

// ResolveSoftware returns the id of (name, version). An empty name
// means the file has no known software and gives a NULL id. An empty
// version becomes "unknown".
func (r *Resolver) ResolveSoftware(
	ctx context.Context,
	name, version string,
) (sql.NullInt64, error) {
	var res sql.NullInt64
	if catalog.IsMissing(name) {
		return res, nil
	}

	dt, _ := schema.DimensionTableOf(catalog.Software)
	id, err := r.findOrCreate(ctx, naturalKey{
		table:    dt.Table,
		idColumn: dt.IDColumn,
		columns:  dt.KeyColumns,
		values: []any{
			strings.TrimSpace(name),
			catalog.NormalizeVersion(version),
		},
	})
	if err != nil {
		return res, err
	}
	return sql.NullInt64{Int64: id, Valid: true}, nil
}

// ResolveAuthor returns the id of an author. Authors with an ORCID are
// identified by it. Authors without ORCID are identified by name among
// authors without ORCID.
func (r *Resolver) ResolveAuthor(
	ctx context.Context,
	name, orcid string,
) (int64, error) {
	name = strings.Join(strings.Fields(name), " ")
	if catalog.IsMissing(name) {
		return 0, EmptyKeyError("authors")
	}

	if catalog.IsMissing(orcid) {
		return r.findOrCreate(ctx, naturalKey{
			table:    "authors",
			idColumn: "author_id",
			columns:  []string{"name"},
			values:   []any{name},
			isNull:   []string{"orcid"},
		})
	}

	return r.findOrCreate(ctx, naturalKey{
		table:        "authors",
		idColumn:     "author_id",
		columns:      []string{"orcid"},
		values:       []any{strings.TrimSpace(orcid)},
		extraColumns: []string{"name"},
		extraValues:  []any{name},
	})
}

// ResolveMolecule returns the id of a molecule by name, formula and
// sequence. The molecule type is resolved too, a missing type becomes
// "unknown".
func (r *Resolver) ResolveMolecule(
	ctx context.Context,
	mk MoleculeKey,
) (int64, error) {
	name := strings.TrimSpace(mk.Name)
	if catalog.IsMissing(name) {
		return 0, EmptyKeyError("molecules")
	}

	typeID, err := r.Resolve(ctx, catalog.MoleculeType, mk.Type)
	if err != nil {
		return 0, err
	}

	return r.findOrCreate(ctx, naturalKey{
		table:    "molecules",
		idColumn: "molecule_id",
		columns:  []string{"name", "formula", "sequence"},
		values: []any{
			name,
			optional(mk.Formula),
			optional(mk.Sequence),
		},
		extraColumns: []string{"molecule_type_id"},
		extraValues:  []any{typeID},
	})
}

// ResolveExternalRef returns the id of a molecule reference in an
// external database.
func (r *Resolver) ResolveExternalRef(
	ctx context.Context,
	moleculeID, databaseID int64,
	dbName, idInDB string,
) (int64, error) {
	idInDB = strings.TrimSpace(idInDB)
	if catalog.IsMissing(idInDB) {
		return 0, EmptyKeyError("molecules_external_db")
	}

	return r.findOrCreate(ctx, naturalKey{
		table:        "molecules_external_db",
		idColumn:     "mol_ext_db_id",
		columns:      []string{"molecule_id", "database_id", "id_in_external_db"},
		values:       []any{moleculeID, databaseID, idInDB},
		extraColumns: []string{"db_name"},
		extraValues:  []any{strings.TrimSpace(dbName)},
	})
}

// Stats returns resolution counts per table.
func (r *Resolver) Stats() map[string]Stats {
	res := make(map[string]Stats, len(r.stats))
	for k, v := range r.stats {
		res[k] = *v
	}
	return res
}

func (r *Resolver) tableStats(table string) *Stats {
	res, ok := r.stats[table]
	if !ok {
		res = &Stats{}
		r.stats[table] = res
	}
	return res
}

// findOrCreate goes cache -> SELECT -> INSERT ... RETURNING. A unique
// violation on insert falls back to a second SELECT.
func (r *Resolver) findOrCreate(
	ctx context.Context,
	k naturalKey,
) (int64, error) {
	stats := r.tableStats(k.table)
	ck := k.cacheKey()
	if id, ok := r.cache[ck]; ok {
		stats.CacheHits++
		return id, nil
	}

	id, found, err := r.lookup(ctx, k)
	if err != nil {
		return 0, err
	}
	if found {
		stats.StoreHits++
		r.cache[ck] = id
		return id, nil
	}

	if r.beforeInsert != nil {
		r.beforeInsert(k.table)
	}

	id, err = r.insert(ctx, k)
	if err == nil {
		stats.Created++
		r.cache[ck] = id
		return id, nil
	}

	if !r.op.IsUniqueViolation(err) {
		return 0, InsertError(k.table, k.String(), err)
	}

	stats.Recovered++
	slog.Debug("Recovered from duplicate key",
		"error", DuplicateKeyError(k.table, k.String(), err))

	id, found, err = r.lookup(ctx, k)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, LookupError(k.table, k.String(), sql.ErrNoRows)
	}
	r.cache[ck] = id
	return id, nil
}

func (r *Resolver) lookup(
	ctx context.Context,
	k naturalKey,
) (int64, bool, error) {
	conds := make([]string, 0, len(k.columns)+len(k.isNull))
	for _, c := range k.columns {
		conds = append(conds, c+" = ?")
	}
	for _, c := range k.isNull {
		conds = append(conds, c+" IS NULL")
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT 1",
		k.idColumn, k.table, strings.Join(conds, " AND "), k.idColumn)

	var id int64
	err := r.op.DB().QueryRowContext(ctx, r.op.Rebind(q), k.values...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, LookupError(k.table, k.String(), err)
	}
	return id, true, nil
}

func (r *Resolver) insert(
	ctx context.Context,
	k naturalKey,
) (int64, error) {
	cols := append(append([]string{}, k.columns...), k.extraColumns...)
	vals := append(append([]any{}, k.values...), k.extraValues...)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		k.table, strings.Join(cols, ", "), marks, k.idColumn)

	var id int64
	err := r.op.DB().QueryRowContext(ctx, r.op.Rebind(q), vals...).Scan(&id)
	return id, err
}

// optional turns missing spellings into an empty string.
func optional(s string) string {
	if catalog.IsMissing(s) {
		return ""
	}
	return strings.TrimSpace(s)
}
