package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/palina-pauliuchenka/arkouda-njit/pkg/graph"
	"github.com/palina-pauliuchenka/arkouda-njit/pkg/mincut"
	"github.com/palina-pauliuchenka/arkouda-njit/pkg/wcc"
)

// JobStatus represents the lifecycle state of a refinement job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job is one ad-hoc refinement request over the server's graph.
type Job struct {
	ID          string     `json:"id"`
	ClusterFile string     `json:"cluster_file"`
	Status      JobStatus  `json:"status"`
	Error       string     `json:"error,omitempty"`
	Summary     *JobResult `json:"summary,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// JobResult is the summary attached to a completed job; the full cluster
// list is served separately.
type JobResult struct {
	AcceptedClusters  int     `json:"accepted_clusters"`
	DiscardedClusters int     `json:"discarded_clusters"`
	MeanSize          float64 `json:"mean_size"`
	MedianSize        float64 `json:"median_size"`
	RuntimeMS         int64   `json:"runtime_ms"`
}

// JobService runs refinement jobs in the background against a single
// loaded graph, bounded by a worker pool, with TTL-based cleanup of
// finished jobs.
type JobService struct {
	graph  *graph.Graph
	oracle mincut.Oracle
	wccCfg *wcc.Config

	jobs    map[string]*Job
	results map[string]*wcc.Result
	cancels map[string]context.CancelFunc
	workers chan struct{}
	mutex   sync.RWMutex

	stop     chan struct{}
	stopOnce sync.Once

	jobTimeout      time.Duration
	jobTTL          time.Duration
	cleanupInterval time.Duration
}

// NewJobService creates a job service and starts its cleanup loop.
func NewJobService(g *graph.Graph, oracle mincut.Oracle, wccCfg *wcc.Config, cfg JobConfig) *JobService {
	s := &JobService{
		graph:           g,
		oracle:          oracle,
		wccCfg:          wccCfg,
		jobs:            make(map[string]*Job),
		results:         make(map[string]*wcc.Result),
		cancels:         make(map[string]context.CancelFunc),
		workers:         make(chan struct{}, cfg.MaxWorkers),
		stop:            make(chan struct{}),
		jobTimeout:      cfg.JobTimeout,
		jobTTL:          cfg.ResultTTL,
		cleanupInterval: cfg.CleanupInterval,
	}

	go s.cleanupLoop()

	return s
}

// Close stops the cleanup loop. Safe to call more than once; jobs already
// queued or running are left to finish.
func (s *JobService) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// snapshot copies a job so callers never share the mutable struct with the
// worker goroutines. Summary and timestamp pointers are set once and never
// written again, so a shallow copy is safe.
func snapshot(job *Job) *Job {
	c := *job
	return &c
}

// Submit queues a refinement of the given membership file.
func (s *JobService) Submit(clusterFile string) (*Job, error) {
	if _, err := os.Stat(clusterFile); err != nil {
		return nil, fmt.Errorf("membership file not readable: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()
	job := &Job{
		ID:          uuid.New().String(),
		ClusterFile: clusterFile,
		Status:      JobStatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.jobs[job.ID] = job

	log.Info().
		Str("job_id", job.ID).
		Str("cluster_file", clusterFile).
		Msg("Refinement job submitted")

	go s.processJob(job.ID)

	return snapshot(job), nil
}

// Get retrieves a copy of a job by id.
func (s *JobService) Get(jobID string) (*Job, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	return snapshot(job), nil
}

// GetResult retrieves the full refinement result of a completed job.
func (s *JobService) GetResult(jobID string) (*wcc.Result, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result, exists := s.results[jobID]
	if !exists {
		return nil, fmt.Errorf("result not found for job: %s", jobID)
	}
	return result, nil
}

// Cancel cancels a queued or running job.
func (s *JobService) Cancel(jobID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if job.Status == JobStatusQueued || job.Status == JobStatusRunning {
		if cancel, ok := s.cancels[jobID]; ok {
			cancel()
		}
		job.Status = JobStatusCancelled
		now := time.Now()
		job.CompletedAt = &now
		job.UpdatedAt = now

		log.Info().Str("job_id", jobID).Msg("Job cancelled")
	}
	return nil
}

func (s *JobService) processJob(jobID string) {
	s.workers <- struct{}{}
	defer func() { <-s.workers }()

	s.mutex.Lock()
	job, exists := s.jobs[jobID]
	if !exists || job.Status != JobStatusQueued {
		s.mutex.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	s.cancels[jobID] = cancel
	now := time.Now()
	job.Status = JobStatusRunning
	job.StartedAt = &now
	job.UpdatedAt = now
	clusterFile := job.ClusterFile
	s.mutex.Unlock()

	defer cancel()

	log.Info().Str("job_id", jobID).Msg("Job processing started")

	clusters, err := wcc.NewMembershipReader(s.graph).ReadFromFile(clusterFile)
	if err != nil {
		s.failJob(jobID, fmt.Errorf("failed to read membership file: %w", err))
		return
	}

	engine, err := wcc.NewEngine(s.graph, s.oracle, s.wccCfg)
	if err != nil {
		s.failJob(jobID, fmt.Errorf("failed to initialize engine: %w", err))
		return
	}

	result, err := engine.Run(ctx, clusters)
	if err != nil {
		s.failJob(jobID, fmt.Errorf("refinement failed: %w", err))
		return
	}

	s.completeJob(jobID, result)
}

func (s *JobService) completeJob(jobID string, result *wcc.Result) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists || job.Status == JobStatusCancelled {
		return
	}

	now := time.Now()
	job.Status = JobStatusCompleted
	job.CompletedAt = &now
	job.UpdatedAt = now
	job.Summary = &JobResult{
		AcceptedClusters:  result.Statistics.AcceptedClusters,
		DiscardedClusters: result.Statistics.DiscardedClusters,
		MeanSize:          result.Statistics.MeanSize,
		MedianSize:        result.Statistics.MedianSize,
		RuntimeMS:         result.Statistics.RuntimeMS,
	}
	s.results[jobID] = result
	delete(s.cancels, jobID)

	log.Info().
		Str("job_id", jobID).
		Int("accepted", result.Statistics.AcceptedClusters).
		Int64("runtime_ms", result.Statistics.RuntimeMS).
		Msg("Job completed successfully")
}

func (s *JobService) failJob(jobID string, err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists || job.Status == JobStatusCancelled {
		return
	}

	now := time.Now()
	job.Status = JobStatusFailed
	job.Error = err.Error()
	job.CompletedAt = &now
	job.UpdatedAt = now
	delete(s.cancels, jobID)

	log.Error().Str("job_id", jobID).Err(err).Msg("Job failed")
}

func (s *JobService) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stop:
			return
		}
	}
}

func (s *JobService) cleanup() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := time.Now().Add(-s.jobTTL)
	cleaned := 0

	for jobID, job := range s.jobs {
		if job.UpdatedAt.Before(cutoff) && job.Status != JobStatusQueued && job.Status != JobStatusRunning {
			delete(s.jobs, jobID)
			delete(s.results, jobID)
			cleaned++
		}
	}

	if cleaned > 0 {
		log.Info().Int("cleaned_jobs", cleaned).Msg("Job cleanup completed")
	}
}
