package track

import (
	"fmt"
	"sync"
	"testing"
)

func TestTrackForgetCount(t *testing.T) {
	tr := NewTracker()
	if tr.Count() != 0 {
		t.Fatalf("new tracker count = %d", tr.Count())
	}

	tr.Track("job-1", "a cat poster")
	tr.Track("job-2", "a dog poster")
	if tr.Count() != 2 {
		t.Fatalf("count = %d, want 2", tr.Count())
	}

	if !tr.Forget("job-1") {
		t.Fatalf("forget of tracked job reported false")
	}
	if tr.Forget("job-1") {
		t.Fatalf("second forget should report false")
	}
	if tr.Count() != 1 {
		t.Fatalf("count = %d, want 1", tr.Count())
	}

	active := tr.Active()
	if len(active) != 1 || active[0].JobID != "job-2" {
		t.Fatalf("active = %+v", active)
	}
	if active[0].StartTime.IsZero() {
		t.Fatalf("start time not recorded")
	}
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("job-%d", n)
			tr.Track(id, "prompt")
			tr.Count()
			tr.Forget(id)
		}(i)
	}
	wg.Wait()
	if tr.Count() != 0 {
		t.Fatalf("count = %d after all forgets", tr.Count())
	}
}
