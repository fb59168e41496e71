package services

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/table-reservation/utils"
)

const resyncTimeout = 30 * time.Second

// StatusMonitor menjalankan resync status meja secara berkala sehingga
// meja berpindah ke occupied/available walau tidak ada request.
type StatusMonitor struct {
	Bookings *BookingService
	StopChan chan struct{}
	Interval time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
	mu        sync.Mutex
	done      chan struct{}
}

func NewStatusMonitor(bookings *BookingService, interval time.Duration) *StatusMonitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &StatusMonitor{
		Bookings: bookings,
		StopChan: make(chan struct{}),
		Interval: interval,
		done:     make(chan struct{}),
	}
}

func (sm *StatusMonitor) Start() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	select {
	case <-sm.StopChan:
		return
	default:
	}
	sm.startOnce.Do(sm.run)
}

func (sm *StatusMonitor) run() {
	sm.started = true
	go func() {
		defer close(sm.done)
		ticker := time.NewTicker(sm.Interval)
		defer ticker.Stop()

		sm.checkStatuses()
		for {
			select {
			case <-ticker.C:
				sm.checkStatuses()
			case <-sm.StopChan:
				return
			}
		}
	}()
}

// Stop menghentikan loop dan menunggu resync yang sedang berjalan selesai.
// Aman dipanggil tanpa Start; Start setelah Stop tidak melakukan apa-apa.
func (sm *StatusMonitor) Stop() {
	sm.stopOnce.Do(func() {
		sm.mu.Lock()
		close(sm.StopChan)
		started := sm.started
		sm.mu.Unlock()
		if started {
			<-sm.done
		}
	})
}

func (sm *StatusMonitor) checkStatuses() {
	ctx, cancel := context.WithTimeout(context.Background(), resyncTimeout)
	defer cancel()

	changes, err := sm.Bookings.ResyncTables(ctx)
	if err != nil {
		utils.ErrorLogger.Printf("Error resyncing table statuses: %v", err)
		return
	}

	applied := 0
	for _, c := range changes {
		if c.Applied {
			applied++
			utils.InfoLogger.Printf("Table %s: %s -> %s", c.Table.Name, c.OldStatus, c.Table.Status)
		}
	}
	if applied > 0 {
		utils.InfoLogger.Printf("Successfully resynced %d table(s)", applied)
	}
}
