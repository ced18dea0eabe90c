package s1000d

import (
	"context"
	"time"
)

// Module is a generated data module as kept in the module history.
type Module struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	SourceName  string     `json:"sourceName"`
	SourceHash  string     `json:"sourceHash"`
	Mode        Mode       `json:"mode"`
	Type        ModuleType `json:"type"`
	SystemCode  string     `json:"systemCode"`
	PageCount   int        `json:"pageCount"`
	BlockCount  int        `json:"blockCount"`
	NodeCount   int        `json:"nodeCount"`
	HasGraphics bool       `json:"hasGraphics"`
	XML         string     `json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Validate returns an error if the module contains invalid fields.
func (m *Module) Validate() error {
	if m.SourceName == "" {
		return Errorf(EINVALID, "module source name required")
	}
	if m.XML == "" {
		return Errorf(EINVALID, "module XML required")
	}
	if _, err := ParseMode(string(m.Mode)); err != nil {
		return err
	}
	return nil
}

// FileName returns the file name used when the module is downloaded or
// mirrored to disk.
func (m *Module) FileName() string {
	id := m.ID
	if len(id) > 8 {
		id = id[:8]
	}
	code := m.SystemCode
	if code == "" {
		code = ModuleGeneral.SystemCode()
	}
	return "dm-" + code + "-" + id + ".xml"
}

// ModuleWriter stores generated modules.
type ModuleWriter interface {
	// CreateModule stores a module. Implementations may assign ID and
	// CreatedAt when they are empty.
	CreateModule(ctx context.Context, m *Module) error
}

// ModuleService represents a service for managing the module history.
type ModuleService interface {
	// CreateModule stores a new module, assigning its ID and CreatedAt.
	CreateModule(ctx context.Context, m *Module) error

	// FindModuleByID retrieves a module by ID.
	// Returns ENOTFOUND if the module does not exist.
	FindModuleByID(ctx context.Context, id string) (*Module, error)

	// FindModules retrieves modules matching the filter, newest first.
	FindModules(ctx context.Context, filter ModuleFilter) ([]*Module, error)

	// DeleteModule permanently removes a module.
	// Returns ENOTFOUND if the module does not exist.
	DeleteModule(ctx context.Context, id string) error
}

// ModuleFilter represents a filter for FindModules.
type ModuleFilter struct {
	ID         *string `json:"id"`
	SourceHash *string `json:"sourceHash"`
	Mode       *Mode   `json:"mode"`

	// WithXML loads the XML body, which is omitted from listings otherwise.
	WithXML bool `json:"withXml"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Upload is one document submitted for conversion.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
	Mode        Mode
}

// Validate returns an error if the upload cannot be processed.
func (u *Upload) Validate() error {
	if u.Filename == "" {
		return Errorf(EINVALID, "no file selected")
	}
	if len(u.Data) == 0 {
		return Errorf(EINVALID, "uploaded file %q is empty", u.Filename)
	}
	if _, err := ParseMode(string(u.Mode)); err != nil {
		return err
	}
	return nil
}

// Converter runs the whole conversion pipeline for one upload.
type Converter interface {
	// Convert returns the generated module. Load failures are reported as
	// EINVALID; later stages degrade instead of failing.
	Convert(ctx context.Context, up *Upload) (*Module, error)
}
