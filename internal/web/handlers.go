package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/dataprep/internal/dataset"
	"github.com/JonMunkholm/dataprep/internal/export"
	"github.com/JonMunkholm/dataprep/internal/logging"
	"github.com/JonMunkholm/dataprep/internal/session"
	"github.com/JonMunkholm/dataprep/internal/store"
	"github.com/JonMunkholm/dataprep/internal/transform"

	"github.com/go-chi/chi/v5"
)

// previewRows caps the number of rows echoed back after an upload or
// transformation.
const previewRows = 20

// SessionResponse describes a session to the client.
type SessionResponse struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
}

// DatasetResponse summarizes a dataset with a bounded row preview.
type DatasetResponse struct {
	Columns []string   `json:"columns"`
	Rows    int        `json:"rows"`
	Preview [][]string `json:"preview"`
}

// TransformResponse is DatasetResponse plus the warnings the engine
// raised while applying the configuration.
type TransformResponse struct {
	DatasetResponse
	Warnings []transform.Warning `json:"warnings"`
}

// QueryResponse carries query output. Empty is the explicit marker for
// the no-rows outcome.
type QueryResponse struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Empty   bool       `json:"empty"`
	Message string     `json:"message,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	logging.FromContext(r.Context()).Info("session created", "session_id", sess.ID)

	writeJSON(w, http.StatusCreated, SessionResponse{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

// handleUploadDataset ingests a CSV, Parquet or XLSX file into the
// session. Uploading replaces the session's dataset and discards any
// previous transformation result.
func (s *Server) handleUploadDataset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		s.respondError(w, r, err, http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	d, err := s.readDataset(r, file, header.Filename)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	err = s.sessions.Update(sessionID, func(sess *session.Session) error {
		sess.Original = d
		sess.Transformed = nil
		return nil
	})
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	logging.FromContext(r.Context()).Info("dataset uploaded",
		"session_id", sessionID,
		"file", header.Filename,
		"columns", d.NumColumns(),
		"rows", d.NumRows(),
	)
	writeJSON(w, http.StatusOK, datasetResponse(d))
}

// readDataset picks the parser from the file extension.
func (s *Server) readDataset(r *http.Request, file io.Reader, filename string) (*dataset.Dataset, error) {
	var (
		d   *dataset.Dataset
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		d, err = dataset.ReadCSV(file)
	case ".parquet":
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			return nil, readErr
		}
		d, err = dataset.ReadParquet(r.Context(), data)
	case ".xlsx":
		d, err = dataset.ReadXLSX(file)
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedFormat, filepath.Ext(filename))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUnparsableFile, err)
	}
	return d, nil
}

// handleTransform parses a JSON transformation configuration from the
// request body and applies it to the session's original dataset. The
// whole configuration always runs against the original, so re-submitting
// an edited configuration never stacks on a previous run.
func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	body, err := io.ReadAll(io.LimitReader(r.Body, s.cfg.Upload.MaxFileSize))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	cfg, err := transform.ParseConfig(body)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var (
		out      *dataset.Dataset
		warnings []transform.Warning
	)
	err = s.sessions.Update(sessionID, func(sess *session.Session) error {
		if sess.Original == nil {
			return errNoFile
		}
		var applyErr error
		out, warnings, applyErr = s.engine.Apply(sess.Original, cfg)
		if applyErr != nil {
			return applyErr
		}
		sess.Transformed = out
		return nil
	})
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, session.ErrNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, errNoFile) {
			status = http.StatusConflict
		}
		s.respondError(w, r, err, status)
		return
	}

	for _, warning := range warnings {
		logging.FromContext(r.Context()).Warn("transform warning",
			"session_id", sessionID,
			"code", warning.Code,
			"column", warning.Column,
			"message", warning.Message,
		)
	}

	resp := TransformResponse{
		DatasetResponse: datasetResponse(out),
		Warnings:        warnings,
	}
	if resp.Warnings == nil {
		resp.Warnings = []transform.Warning{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// SaveRequest names the target table and write mode.
type SaveRequest struct {
	Table string `json:"table"`
	Mode  string `json:"mode"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Table) == "" {
		s.respondError(w, r, errors.New("table name is required"), http.StatusBadRequest)
		return
	}

	mode := store.ModeReplace
	switch req.Mode {
	case "", string(store.ModeReplace):
	case string(store.ModeAppend):
		mode = store.ModeAppend
	default:
		s.respondError(w, r, fmt.Errorf("unknown save mode %q", req.Mode), http.StatusBadRequest)
		return
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	d := sess.Current()
	if d == nil {
		s.respondError(w, r, errNoFile, http.StatusConflict)
		return
	}

	if err := s.store.SaveTable(r.Context(), req.Table, d, mode); err != nil {
		s.respondStoreError(w, r, "save", err)
		return
	}

	logging.FromContext(r.Context()).Info("dataset saved",
		"session_id", sessionID,
		"table", req.Table,
		"mode", string(mode),
		"rows", d.NumRows(),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"table": req.Table,
		"mode":  string(mode),
		"rows":  d.NumRows(),
	})
}

// QueryRequest carries a free-form SQL query.
type QueryRequest struct {
	SQL string `json:"sql"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		s.respondError(w, r, errors.New("sql is required"), http.StatusBadRequest)
		return
	}

	query := store.PreprocessQuery(req.SQL)
	result, err := s.store.Query(r.Context(), query)
	if err != nil {
		s.respondStoreError(w, r, "query", err)
		return
	}

	resp := QueryResponse{
		Columns: result.Columns,
		Rows:    result.Rows,
		Empty:   result.Empty(),
	}
	if resp.Rows == nil {
		resp.Rows = [][]string{}
	}
	if resp.Empty {
		resp.Message = "query returned no results"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.store.ListTables(r.Context())
	if err != nil {
		s.respondStoreError(w, r, "list tables", err)
		return
	}
	if tables == nil {
		tables = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tables": tables})
}

// DropRequest names the tables to drop.
type DropRequest struct {
	Tables []string `json:"tables"`
}

func (s *Server) handleDropTables(w http.ResponseWriter, r *http.Request) {
	var req DropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if len(req.Tables) == 0 {
		s.respondError(w, r, errors.New("no tables named"), http.StatusBadRequest)
		return
	}

	reports := s.store.DropTables(r.Context(), req.Tables)
	logging.FromContext(r.Context()).Info("tables dropped", "count", len(reports))
	writeJSON(w, http.StatusOK, map[string][]store.DropReport{"results": reports})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	d := sess.Current()
	if d == nil {
		s.respondError(w, r, errNoFile, http.StatusConflict)
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = "data"
	}

	var download *export.Download
	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		download, err = export.CSVDownload(d, filename)
	case "xlsx":
		download, err = export.XLSXDownload(d, filename)
	default:
		s.respondError(w, r, fmt.Errorf("unknown export format %q", format), http.StatusBadRequest)
		return
	}
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, download)
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	d := sess.Current()
	if d == nil {
		s.respondError(w, r, errNoFile, http.StatusConflict)
		return
	}

	report, err := s.describer.Describe(r.Context(), d)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func datasetResponse(d *dataset.Dataset) DatasetResponse {
	rows := d.Rows()
	if len(rows) > previewRows {
		rows = rows[:previewRows]
	}
	if rows == nil {
		rows = [][]string{}
	}
	return DatasetResponse{
		Columns: d.Columns(),
		Rows:    d.NumRows(),
		Preview: rows,
	}
}
