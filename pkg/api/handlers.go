package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/palina-pauliuchenka/arkouda-njit/pkg/graph"
	"github.com/palina-pauliuchenka/arkouda-njit/pkg/service"
)

// maxUploadBytes bounds uploaded membership files.
const maxUploadBytes = 512 << 20

// Handlers wires HTTP endpoints to the job service.
type Handlers struct {
	graph     *graph.Graph
	jobs      *service.JobService
	uploadDir string
}

func NewHandlers(g *graph.Graph, jobs *service.JobService, uploadDir string) *Handlers {
	return &Handlers{graph: g, jobs: jobs, uploadDir: uploadDir}
}

// HealthCheck reports liveness and a summary of the loaded graph.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "OK", map[string]interface{}{
		"status":   "healthy",
		"vertices": h.graph.NumVertices(),
		"edges":    h.graph.NumEdges(),
	})
}

type submitRequest struct {
	ClusterFile string `json:"cluster_file"`
}

// SubmitRefinement accepts either a multipart upload (field "clusters") or
// a JSON body naming a membership file on the server, and queues a
// refinement job.
func (h *Handlers) SubmitRefinement(w http.ResponseWriter, r *http.Request) {
	clusterFile, err := h.resolveClusterFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid refinement request", err)
		return
	}

	job, err := h.jobs.Submit(clusterFile)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to submit job", err)
		return
	}

	writeSuccess(w, http.StatusAccepted, "Refinement job submitted", job)
}

// GetJob returns job status and progress.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]

	job, err := h.jobs.Get(jobID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Job not found", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Job retrieved", job)
}

// GetResult returns the full refinement result of a completed job.
func (h *Handlers) GetResult(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]

	job, err := h.jobs.Get(jobID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Job not found", err)
		return
	}
	if job.Status != service.JobStatusCompleted {
		writeError(w, http.StatusConflict, "Job not completed",
			fmt.Errorf("job %s is %s", jobID, job.Status))
		return
	}

	result, err := h.jobs.GetResult(jobID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Result not found", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Result retrieved", result)
}

// CancelJob cancels a queued or running job.
func (h *Handlers) CancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]

	if err := h.jobs.Cancel(jobID); err != nil {
		writeError(w, http.StatusNotFound, "Job not found", err)
		return
	}

	writeSuccess(w, http.StatusOK, "Job cancelled", nil)
}

func (h *Handlers) resolveClusterFile(r *http.Request) (string, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		return h.saveUpload(r)
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", fmt.Errorf("could not decode request body: %w", err)
	}
	if req.ClusterFile == "" {
		return "", fmt.Errorf("cluster_file is required")
	}
	return req.ClusterFile, nil
}

func (h *Handlers) saveUpload(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", fmt.Errorf("could not parse multipart form: %w", err)
	}
	upload, _, err := r.FormFile("clusters")
	if err != nil {
		return "", fmt.Errorf("missing clusters file field: %w", err)
	}
	defer upload.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create upload directory: %w", err)
	}

	path := filepath.Join(h.uploadDir, fmt.Sprintf("clusters_%s.tsv", uuid.New().String()))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not store upload: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(upload, maxUploadBytes)); err != nil {
		return "", fmt.Errorf("could not store upload: %w", err)
	}
	return path, nil
}
