package storage

import (
	"log"
	"time"
)

// StartBackgroundWorkers starts the snapshot worker. Without an interval it
// only writes the final snapshot when stopped.
func (se *StorageEngine) StartBackgroundWorkers() {
	if se.snapshotFile == "" {
		return
	}

	se.backgroundWg.Add(1)
	go func() {
		defer se.backgroundWg.Done()
		var tick <-chan time.Time
		if se.snapshotInterval > 0 {
			ticker := time.NewTicker(se.snapshotInterval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-tick:
				se.snapshotIfDirty()
			case <-se.stopChan:
				se.snapshotIfDirty()
				return
			}
		}
	}()
}

// StopBackgroundWorkers stops background workers, letting the snapshot
// worker write a final snapshot first
func (se *StorageEngine) StopBackgroundWorkers() {
	se.stopOnce.Do(func() {
		close(se.stopChan)
	})
	se.backgroundWg.Wait()
}

// snapshotIfDirty writes a snapshot when mutations happened since the last one
func (se *StorageEngine) snapshotIfDirty() {
	dirty := false
	se.withRead(func() error {
		dirty = se.version > se.snapshotVersion
		return nil
	})
	if !dirty {
		log.Printf("DEBUG: No changes since last snapshot")
		return
	}

	start := time.Now()
	if err := se.WriteSnapshot(); err != nil {
		log.Printf("ERROR: Failed to write snapshot %s: %v", se.snapshotFile, err)
		return
	}
	log.Printf("INFO: Snapshot written to %s in %v", se.snapshotFile, time.Since(start))
}
