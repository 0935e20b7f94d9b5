package scheduler

import (
	"context"
	"time"
)

// Job is a unit of scheduled work
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	Name() string
	Run(ctx context.Context) error

	// Schedule is a six-field cron expression (seconds first) or a descriptor,
	// e.g. "0 0 6 * * TUE" or "@every 1h"
	Schedule() string
}

// JobResult is one execution of a job, retries included
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobStats summarises every execution of a job since registration
type JobStats struct {
	JobName      string     `json:"job_name"`
	Schedule     string     `json:"schedule"`
	TotalRuns    int        `json:"total_runs"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	SuccessRate  float64    `json:"success_rate"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastSuccess  *time.Time `json:"last_success,omitempty"`
	LastFailure  *time.Time `json:"last_failure,omitempty"`
}

const maxHistory = 100

// runLog keeps the most recent maxHistory results; counters and
// last-success/failure timestamps survive eviction.
type runLog struct {
	results     []JobResult
	total       int
	failures    int
	lastSuccess time.Time
	lastFailure time.Time
}

func (l *runLog) add(r JobResult) {
	l.total++
	if r.Success {
		l.lastSuccess = r.StartTime
	} else {
		l.failures++
		l.lastFailure = r.StartTime
	}

	l.results = append(l.results, r)
	if n := len(l.results); n > maxHistory {
		// 앞쪽 잘라낸 뒤 재할당으로 backing array 누수 방지
		l.results = append([]JobResult(nil), l.results[n-maxHistory:]...)
	}
}

// latest returns up to n results, newest last
func (l *runLog) latest(n int) []JobResult {
	if n > len(l.results) {
		n = len(l.results)
	}
	if n < 0 {
		n = 0
	}
	out := make([]JobResult, n)
	copy(out, l.results[len(l.results)-n:])
	return out
}

func (l *runLog) stats(name, schedule string) JobStats {
	st := JobStats{
		JobName:      name,
		Schedule:     schedule,
		TotalRuns:    l.total,
		SuccessCount: l.total - l.failures,
		FailureCount: l.failures,
	}
	if l.total > 0 {
		st.SuccessRate = float64(st.SuccessCount) / float64(l.total)
		last := l.results[len(l.results)-1].StartTime
		st.LastRun = &last
	}
	if !l.lastSuccess.IsZero() {
		t := l.lastSuccess
		st.LastSuccess = &t
	}
	if !l.lastFailure.IsZero() {
		t := l.lastFailure
		st.LastFailure = &t
	}
	return st
}
