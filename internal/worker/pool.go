// Package worker provides background analysis of recommendation preview
// clips. Jobs are fire-and-forget; failures are logged and never surface to
// the session.
package worker

import (
	"context"
	"log"
	"sync"

	"github.com/audiomonk-labs/audiomonk/internal/core/ports"
)

// Job asks for one preview clip to be analysed for a history entry.
type Job struct {
	EntryID    string
	PreviewURL string
}

// Pool manages background workers for preview analysis.
type Pool struct {
	repo ports.HistoryRepository
	jobs chan Job
	wg   sync.WaitGroup
}

// NewPool creates a pool with the given queue size.
func NewPool(repo ports.HistoryRepository, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{repo: repo, jobs: make(chan Job, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Enqueue queues a job without blocking; a full queue drops the job.
func (p *Pool) Enqueue(entryID, previewURL string) {
	select {
	case p.jobs <- Job{EntryID: entryID, PreviewURL: previewURL}:
	default:
		log.Printf("WARN worker: dropping analysis job for entry %s", entryID)
	}
}

func (p *Pool) processJob(job Job) {
	if job.PreviewURL == "" {
		return
	}

	energy, err := AnalyzePreviewFunc(job.PreviewURL)
	if err != nil {
		log.Printf("WARN worker: analyse preview for entry %s: %v", job.EntryID, err)
		return
	}

	if err := p.repo.SetEnergy(context.Background(), job.EntryID, energy); err != nil {
		log.Printf("WARN worker: store energy for entry %s: %v", job.EntryID, err)
		return
	}
	log.Printf("DEBUG worker: entry %s preview energy %.3f", job.EntryID, energy)
}
