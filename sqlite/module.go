package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/s1000d"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ s1000d.ModuleService = (*ModuleService)(nil)

// ModuleService implements s1000d.ModuleService using SQLite.
type ModuleService struct {
	db *DB
}

// NewModuleService creates a new ModuleService.
func NewModuleService(db *DB) *ModuleService {
	return &ModuleService{db: db}
}

const moduleColumns = `id, title, source_name, source_hash, mode, module_type, system_code,
	page_count, block_count, node_count, has_graphics, created_at`

// CreateModule stores a module. ID and CreatedAt are assigned when empty.
func (s *ModuleService) CreateModule(ctx context.Context, m *s1000d.Module) error {
	if err := m.Validate(); err != nil {
		return err
	}

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.SourceHash == "" {
		m.SourceHash = fmt.Sprintf("%x", xxhash.Sum64String(m.XML))
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO modules (`+moduleColumns+`, xml)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Title, m.SourceName, m.SourceHash, string(m.Mode), string(m.Type), m.SystemCode,
		m.PageCount, m.BlockCount, m.NodeCount, m.HasGraphics, formatTime(m.CreatedAt), m.XML)

	return err
}

// FindModuleByID retrieves a module, including its XML, by ID.
func (s *ModuleService) FindModuleByID(ctx context.Context, id string) (*s1000d.Module, error) {
	m, err := scanModule(s.db.QueryRowContext(ctx, `
		SELECT `+moduleColumns+`, xml
		FROM modules
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s1000d.Errorf(s1000d.ENOTFOUND, "module not found")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// FindModules retrieves modules matching the filter, newest first.
func (s *ModuleService) FindModules(ctx context.Context, filter s1000d.ModuleFilter) ([]*s1000d.Module, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + moduleColumns)
	if filter.WithXML {
		query.WriteString(", xml")
	} else {
		query.WriteString(", ''")
	}
	query.WriteString(" FROM modules WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceHash != nil {
		query.WriteString(" AND source_hash = ?")
		args = append(args, *filter.SourceHash)
	}
	if filter.Mode != nil {
		query.WriteString(" AND mode = ?")
		args = append(args, string(*filter.Mode))
	}

	// rowid breaks ties between modules created within the same second.
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modules []*s1000d.Module
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}

	return modules, rows.Err()
}

// DeleteModule permanently removes a module.
func (s *ModuleService) DeleteModule(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM modules WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return s1000d.Errorf(s1000d.ENOTFOUND, "module not found")
	}

	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanModule(row scanner) (*s1000d.Module, error) {
	var m s1000d.Module
	var mode, typ, createdAt string

	if err := row.Scan(&m.ID, &m.Title, &m.SourceName, &m.SourceHash, &mode, &typ, &m.SystemCode,
		&m.PageCount, &m.BlockCount, &m.NodeCount, &m.HasGraphics, &createdAt, &m.XML); err != nil {
		return nil, err
	}
	m.Mode = s1000d.Mode(mode)
	m.Type = s1000d.ModuleType(typ)

	var err error
	if m.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &m, nil
}
