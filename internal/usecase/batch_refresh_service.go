package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/platform/logging"
)

const (
	batchStatusSuccess = "success"
	batchStatusFailed  = "failed"
)

type BatchRefreshInput struct {
	Targets    []game.Filter
	MaxWorkers int
}

type BatchRefreshResult struct {
	TaskCount    int                      `json:"task_count"`
	SuccessCount int                      `json:"success_count"`
	FailedCount  int                      `json:"failed_count"`
	WorkerCount  int                      `json:"worker_count"`
	Tasks        []BatchRefreshTaskResult `json:"tasks"`
}

type BatchRefreshTaskResult struct {
	Index      int    `json:"index"`
	LeagueID   int64  `json:"league_id,omitempty"`
	Season     string `json:"season,omitempty"`
	Date       string `json:"date,omitempty"`
	TeamID     int64  `json:"team_id,omitempty"`
	Status     string `json:"status"`
	Games      int    `json:"games"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// BatchRefreshService runs several independent refreshes on a worker pool.
// Each target is its own feed call and its own transaction.
type BatchRefreshService struct {
	refresher Refresher
	logger    *logging.Logger
}

func NewBatchRefreshService(refresher Refresher, logger *logging.Logger) *BatchRefreshService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BatchRefreshService{refresher: refresher, logger: logger}
}

func (s *BatchRefreshService) Run(ctx context.Context, input BatchRefreshInput) (BatchRefreshResult, error) {
	if len(input.Targets) == 0 {
		return BatchRefreshResult{}, fmt.Errorf("%w: at least one refresh target is required", ErrInvalidInput)
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = 4
	}
	if workerCount > len(input.Targets) {
		workerCount = len(input.Targets)
	}

	result := BatchRefreshResult{
		TaskCount:   len(input.Targets),
		WorkerCount: workerCount,
		Tasks:       make([]BatchRefreshTaskResult, 0, len(input.Targets)),
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return BatchRefreshResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan BatchRefreshTaskResult, len(input.Targets))
	var successCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for i, target := range input.Targets {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := taskRow(i, target)
			refreshed, err := s.refresher.Refresh(ctx, target)
			row.DurationMs = time.Since(start).Milliseconds()
			if err != nil {
				row.Status = batchStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "batch refresh target failed", "index", i, "league_id", target.LeagueID, "error", err)
			} else {
				row.Status = batchStatusSuccess
				row.Games = refreshed.Games
				successCount.Add(1)
			}
			results <- row
		}); err != nil {
			workers.Done()
			return BatchRefreshResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].Index < result.Tasks[j].Index
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	s.logger.InfoContext(ctx, "batch refresh finished",
		"tasks", result.TaskCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"workers", result.WorkerCount,
	)
	return result, nil
}

func taskRow(index int, target game.Filter) BatchRefreshTaskResult {
	row := BatchRefreshTaskResult{
		Index:    index,
		LeagueID: target.LeagueID,
		Season:   target.Season,
		TeamID:   target.TeamID,
	}
	if target.HasDate() {
		row.Date = target.Date.Format(time.DateOnly)
	}
	return row
}
