package http

import (
	"archive/zip"
	"net/http"
	"strconv"
	"strings"

	"github.com/fwojciec/s1000d"
	"github.com/go-chi/chi/v5"
)

// ModuleListResponse is the JSON body of GET /modules.
type ModuleListResponse struct {
	Modules []*s1000d.Module `json:"modules"`
}

func (s *Server) handleModuleList(w http.ResponseWriter, r *http.Request) {
	var filter s1000d.ModuleFilter
	var err error

	q := r.URL.Query()
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		s.Error(w, r, err)
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		s.Error(w, r, err)
		return
	}
	if v := q.Get("mode"); v != "" {
		mode, err := s1000d.ParseMode(v)
		if err != nil {
			s.Error(w, r, err)
			return
		}
		filter.Mode = &mode
	}

	modules, err := s.Modules.FindModules(r.Context(), filter)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if modules == nil {
		modules = []*s1000d.Module{}
	}

	writeJSON(w, http.StatusOK, &ModuleListResponse{Modules: modules})
}

func (s *Server) handleModuleView(w http.ResponseWriter, r *http.Request) {
	m, err := s.Modules.FindModuleByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeModuleXML(w, r, m)
}

func (s *Server) handleModuleMarkdown(w http.ResponseWriter, r *http.Request) {
	m, err := s.Modules.FindModuleByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}

	res, err := s.Parser.Parse(strings.NewReader(m.XML))
	if err != nil {
		s.Error(w, r, err)
		return
	}

	md, err := s.Exporter.Export(res)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(md))
}

func (s *Server) handleModuleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.Modules.DeleteModule(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleModuleArchive streams every stored module as a zip archive.
func (s *Server) handleModuleArchive(w http.ResponseWriter, r *http.Request) {
	modules, err := s.Modules.FindModules(r.Context(), s1000d.ModuleFilter{WithXML: true})
	if err != nil {
		s.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="modules.zip"`)
	w.WriteHeader(http.StatusOK)

	zw := zip.NewWriter(w)
	for _, m := range modules {
		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:     m.FileName(),
			Method:   zip.Deflate,
			Modified: m.CreatedAt,
		})
		if err != nil {
			s.Logger.Error("write archive", "id", m.ID, "err", err)
			return
		}
		if _, err := f.Write([]byte(m.XML)); err != nil {
			s.Logger.Error("write archive", "id", m.ID, "err", err)
			return
		}
	}
	if err := zw.Close(); err != nil {
		s.Logger.Error("write archive", "err", err)
	}
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, s1000d.Errorf(s1000d.EINVALID, "invalid number %q", v)
	}
	return n, nil
}
