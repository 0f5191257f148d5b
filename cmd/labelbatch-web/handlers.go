package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"

	"github.com/dcervan/labelbatch/internal/batch"
	"github.com/dcervan/labelbatch/internal/filehandler"
	"github.com/dcervan/labelbatch/internal/report"
)

// GET /api/browse?path=...
func handleBrowse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	dirPath := r.URL.Query().Get("path")
	if dirPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "cannot determine home directory")
			return
		}
		dirPath = home
	}

	if containsPathTraversal(dirPath) {
		httpError(w, http.StatusBadRequest, "invalid path")
		return
	}

	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid path")
		return
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			httpError(w, http.StatusNotFound, "path not found")
			return
		}
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !info.IsDir() {
		httpError(w, http.StatusBadRequest, "path is not a directory")
		return
	}

	dirEntries, err := os.ReadDir(absPath)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "cannot read directory")
		return
	}

	type fileEntry struct {
		Name  string `json:"name"`
		Path  string `json:"path"`
		IsDir bool   `json:"isDir"`
		Size  int64  `json:"size"`
	}

	entries := make([]fileEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if strings.HasPrefix(de.Name(), ".") {
			continue
		}

		entryPath := filepath.Join(absPath, de.Name())
		if de.IsDir() {
			entries = append(entries, fileEntry{Name: de.Name(), Path: entryPath, IsDir: true})
			continue
		}

		ext := strings.ToLower(filepath.Ext(de.Name()))
		if !filehandler.IsImage(ext) {
			continue
		}

		fi, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, fileEntry{
			Name: de.Name(),
			Path: entryPath,
			Size: fi.Size(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"path":    absPath,
		"entries": entries,
	})
}

// POST /api/pick
func handlePick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	selected, err := zenity.SelectFile(
		zenity.Directory(),
		zenity.Title("Select image folder"),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"path":     "",
				"canceled": true,
			})
			return
		}
		log.Error().Err(err).Msg("Directory picker failed")
		httpError(w, http.StatusInternalServerError, "directory picker failed")
		return
	}

	log.Info().Str("path", selected).Msg("Directory picked via native dialog")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"path":     selected,
		"canceled": false,
	})
}

// POST /api/batch/start
// Body: {"paths": [...], "maxSizeMB": 10, "delayMs": 200}
// API key comes from the X-Api-Key header and is held in memory only.
func handleBatchStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	apiKey := strings.TrimSpace(r.Header.Get("X-Api-Key"))
	if apiKey == "" {
		httpError(w, http.StatusBadRequest, "missing X-Api-Key header")
		return
	}

	var req struct {
		Paths     []string `json:"paths"`
		MaxSizeMB float64  `json:"maxSizeMB"`
		DelayMs   int      `json:"delayMs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Paths) == 0 {
		httpError(w, http.StatusBadRequest, "no paths provided")
		return
	}
	for _, p := range req.Paths {
		if containsPathTraversal(p) {
			httpError(w, http.StatusBadRequest, "invalid path")
			return
		}
	}

	maxSizeMB := req.MaxSizeMB
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	delay := batch.DefaultDelay
	if req.DelayMs > 0 {
		delay = time.Duration(req.DelayMs) * time.Millisecond
	}

	files := collectImages(req.Paths)
	if len(files) == 0 {
		httpError(w, http.StatusBadRequest, "no supported images found in the provided paths")
		return
	}

	accepted, rejected := filehandler.FilterBySize(files, maxSizeMB)
	if len(accepted) == 0 {
		httpError(w, http.StatusBadRequest, "all images exceed the size limit")
		return
	}

	names := make([]string, len(accepted))
	for i, f := range accepted {
		names[i] = f.Name
	}
	job := newJob(names)

	go runBatchJob(job, accepted, apiKey, delay)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobId":    job.id,
		"accepted": len(accepted),
		"rejected": rejected,
	})
}

// collectImages expands the given paths (files or directories) into a
// flat image list. Inaccessible paths are logged and skipped.
func collectImages(paths []string) []*filehandler.ImageFile {
	var files []*filehandler.ImageFile
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			log.Warn().Err(err).Str("path", p).Msg("Skipping inaccessible path")
			continue
		}
		if info.IsDir() {
			scanned, err := filehandler.ScanDirectory(p)
			if err != nil {
				log.Warn().Err(err).Str("path", p).Msg("Failed to scan directory")
				continue
			}
			files = append(files, scanned...)
		} else {
			f, err := filehandler.LoadImageFile(p)
			if err != nil {
				log.Warn().Err(err).Str("path", p).Msg("Failed to load image file")
				continue
			}
			files = append(files, f)
		}
	}
	return files
}

// GET /api/batch/status?id=...
func handleBatchStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	job := getJob(r.URL.Query().Get("id"))
	if job == nil {
		httpError(w, http.StatusNotFound, "job not found")
		return
	}

	job.mu.Lock()
	defer job.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  job.status,
		"percent": job.percent,
		"label":   job.label,
		"items":   job.items,
		"records": job.records,
		"error":   job.errMsg,
	})
}

// GET /api/batch/export?id=...&format=csv|zip
func handleBatchExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	job := getJob(r.URL.Query().Get("id"))
	if job == nil {
		httpError(w, http.StatusNotFound, "job not found")
		return
	}

	job.mu.Lock()
	records := append([]batch.Record(nil), job.records...)
	job.mu.Unlock()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="report.csv"`)
		if err := report.WriteCSV(w, records); err != nil {
			log.Error().Err(err).Msg("Failed to stream CSV report")
		}
	case "zip":
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename="report.zip"`)
		if err := report.WriteZip(w, "report.csv", records); err != nil {
			log.Error().Err(err).Msg("Failed to stream ZIP report")
		}
	default:
		httpError(w, http.StatusBadRequest, "format must be 'csv' or 'zip'")
	}
}

// POST /api/batch/clear?id=...
func handleBatchClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := r.URL.Query().Get("id")
	if !deleteJob(id) {
		httpError(w, http.StatusNotFound, "job not found")
		return
	}

	log.Info().Str("job", id).Msg("Batch job cleared")
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// GET /api/images/metadata?path=...
func handleImageMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" || containsPathTraversal(path) {
		httpError(w, http.StatusBadRequest, "invalid path")
		return
	}

	f, err := filehandler.LoadImageFile(path)
	if err != nil {
		httpError(w, http.StatusNotFound, fmt.Sprintf("cannot load image: %v", err))
		return
	}

	meta := filehandler.ExtractMetadata(f)

	resp := map[string]interface{}{
		"metadata": meta,
	}
	if exif, err := filehandler.ExtractEXIF(path); err == nil {
		resp["exif"] = exif
	}

	respondJSON(w, http.StatusOK, resp)
}
