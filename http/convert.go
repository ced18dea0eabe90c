package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/s1000d"
)

// formOverhead is allowed on top of MaxUploadSize for multipart framing and
// the mode field.
const formOverhead = 1 << 20

// recentModules is the number of modules listed on the index page.
const recentModules = 20

type indexData struct {
	Modules       []*s1000d.Module
	MaxUploadSize int64
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{MaxUploadSize: s.MaxUploadSize}
	if s.Modules != nil {
		modules, err := s.Modules.FindModules(r.Context(), s1000d.ModuleFilter{Limit: recentModules})
		if err != nil {
			s.Error(w, r, err)
			return
		}
		data.Modules = modules
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.Logger.Error("render index", "err", err)
	}
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	begin := time.Now()

	if s.Limiter != nil && !s.Limiter.Allow(r.RemoteAddr) {
		s.Error(w, r, s1000d.Errorf(s1000d.ERATELIMIT, "too many uploads, try again shortly"))
		return
	}

	up, err := s.readUpload(w, r)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	m, err := s.Converter.Convert(r.Context(), up)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	w.Header().Set("X-Module-ID", m.ID)
	w.Header().Set("X-Processing-Time", time.Since(begin).String())
	writeModuleXML(w, r, m)
}

// readUpload extracts the file and mode fields of a multipart upload.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*s1000d.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadSize+formOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, s.errTooLarge()
		}
		return nil, s1000d.Errorf(s1000d.EINVALID, "invalid upload form")
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, s1000d.Errorf(s1000d.EINVALID, "no file selected")
	} else if err != nil {
		return nil, s1000d.Errorf(s1000d.EINVALID, "invalid upload form")
	}
	defer file.Close()

	if header.Size > s.MaxUploadSize {
		return nil, s.errTooLarge()
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	return &s1000d.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		Mode:        s1000d.Mode(r.FormValue("mode")),
	}, nil
}

func (s *Server) errTooLarge() error {
	return s1000d.Errorf(s1000d.ETOOLARGE, "file too large: the limit is %d MiB", s.MaxUploadSize>>20)
}

// writeModuleXML writes the module document, as an attachment when the
// request asks for a download.
func writeModuleXML(w http.ResponseWriter, r *http.Request, m *s1000d.Module) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if r.FormValue("download") == "1" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", m.FileName()))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, m.XML)
}
