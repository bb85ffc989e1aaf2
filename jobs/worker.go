package jobs

import (
	"class-timetable/models"
	"class-timetable/validator"
	"context"
	"log/slog"
	"sync"
	"time"
)

// Repository is the import job storage the worker needs
type Repository interface {
	GetPendingImportJobs(limit int) ([]models.ImportJob, error)
	GetImportJobWithPayload(jobID string) (*models.ImportJob, error)
	MarkImportProcessing(jobID string) (bool, error)
	CompleteImport(jobID string, week *models.Week, lessons []models.Lesson) error
	MarkImportFailed(jobID, errorMsg string) error
	ReleaseImport(jobID string) error
	RequeueStaleImports(cutoff time.Time) (int64, error)
}

// Processor turns a raw timetable document into structured lessons
type Processor interface {
	Parse(ctx context.Context, filename, contentType string, data []byte) (*models.ParsedTimetable, error)
}

// Worker processes queued timetable imports in the background.
// See also:
// - executor.go: processing a single job
// - retry.go: filtering and stale-job recovery
type Worker struct {
	repo      Repository
	processor Processor
	validator *validator.Validator
	logger    *slog.Logger

	baseInterval    time.Duration
	maxInterval     time.Duration
	currentInterval time.Duration
	minRetryAge     time.Duration
	staleAfter      time.Duration
	jobTimeout      time.Duration
	batchSize       int

	running  bool
	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	stopChan chan struct{}
	inflight sync.WaitGroup
}

// NewWorker creates a new import worker
func NewWorker(repo Repository, processor Processor, v *validator.Validator, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		repo:            repo,
		processor:       processor,
		validator:       v,
		logger:          logger.With("component", "import_worker"),
		baseInterval:    time.Minute,
		maxInterval:     5 * time.Minute,
		currentInterval: time.Minute,
		minRetryAge:     30 * time.Second,
		staleAfter:      10 * time.Minute,
		jobTimeout:      3 * time.Minute,
		batchSize:       20,
		ctx:             ctx,
		cancel:          cancel,
		stopChan:        make(chan struct{}),
	}
}

// Start begins polling for queued imports
func (w *Worker) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("starting import worker", "interval", w.baseInterval)

	w.inflight.Add(1)
	go func() {
		defer w.inflight.Done()
		w.run()
	}()
}

// Stop halts polling, cancels in-flight imports and waits for them to return
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.running {
		w.logger.Info("stopping import worker")
		close(w.stopChan)
		w.running = false
	}
	w.mu.Unlock()

	w.cancel()
	w.inflight.Wait()
}

// run is the main loop with adaptive interval
func (w *Worker) run() {
	ticker := time.NewTicker(w.currentInterval)
	defer ticker.Stop()

	w.processPending()

	for {
		select {
		case <-ticker.C:
			hadWork := w.processPending()

			w.mu.Lock()
			if hadWork {
				if w.currentInterval != w.baseInterval {
					w.currentInterval = w.baseInterval
					ticker.Reset(w.currentInterval)
					w.logger.Debug("work found, reset interval", "interval", w.currentInterval)
				}
			} else if w.currentInterval < w.maxInterval {
				w.currentInterval = w.maxInterval
				ticker.Reset(w.currentInterval)
				w.logger.Debug("no work, increased interval", "interval", w.currentInterval)
			}
			w.mu.Unlock()
		case <-w.stopChan:
			return
		}
	}
}

// ProcessImmediate processes a freshly queued job without waiting for the next poll
func (w *Worker) ProcessImmediate(jobID string) {
	w.inflight.Add(1)
	go func() {
		defer w.inflight.Done()

		job, err := w.repo.GetImportJobWithPayload(jobID)
		if err != nil {
			w.logger.Error("failed to load import job", "job_id", jobID, "error", err)
			return
		}
		if job == nil {
			return
		}

		w.processJob(job)
	}()
}
