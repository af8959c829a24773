package session

import (
	"sort"
	"sync"
	"time"
)

const recentRTTCount = 10

// latencyTracker smooths round trips measured by pings.
type latencyTracker struct {
	lock   sync.Mutex
	recent []int64
}

func (l *latencyTracker) record(rtt time.Duration) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.recent = append(l.recent, rtt.Milliseconds())
	if len(l.recent) > recentRTTCount {
		l.recent = l.recent[len(l.recent)-recentRTTCount:]
	}
}

// average is the mean of the recent round trips with outliers removed.
func (l *latencyTracker) average() time.Duration {
	l.lock.Lock()
	defer l.lock.Unlock()
	filtered := removeOutlierRTTs(l.recent)
	if len(filtered) == 0 {
		return 0
	}
	var sum int64
	for _, rtt := range filtered {
		sum += rtt
	}
	return time.Duration(sum/int64(len(filtered))) * time.Millisecond
}

// removeOutlierRTTs drops round trips over twice the median that are also over 20ms.
func removeOutlierRTTs(rtts []int64) []int64 {
	result := make([]int64, 0, len(rtts))
	median := medianRTT(rtts)
	for _, rtt := range rtts {
		if rtt > 2*median && rtt > 20 {
			continue
		}
		result = append(result, rtt)
	}
	return result
}

func medianRTT(rtts []int64) int64 {
	if len(rtts) == 0 {
		return 0
	}
	sorted := make([]int64, len(rtts))
	copy(sorted, rtts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	if len(sorted)%2 == 0 {
		return (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	}
	return sorted[len(sorted)/2]
}
