package heaputils

import (
	"math"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Statistics is a cheap summary of descriptor usage across one or more pages
type Statistics struct {
	PageCount        int
	AllocationCount  int
	HandleCount      int
	AllocatedHandles int
}

func (s *Statistics) Clear() {
	s.PageCount = 0
	s.AllocationCount = 0
	s.HandleCount = 0
	s.AllocatedHandles = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.PageCount += other.PageCount
	s.AllocationCount += other.AllocationCount
	s.HandleCount += other.HandleCount
	s.AllocatedHandles += other.AllocatedHandles
}

// DetailedStatistics extends Statistics with information about free and stale ranges. Stale
// ranges are freed ranges that have not yet been released back to the free list.
type DetailedStatistics struct {
	Statistics
	FreeRangeCount    int
	StaleRangeCount   int
	StaleHandles      int
	AllocationSizeMin int
	AllocationSizeMax int
	FreeRangeSizeMin  int
	FreeRangeSizeMax  int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.FreeRangeCount = 0
	s.StaleRangeCount = 0
	s.StaleHandles = 0
	s.AllocationSizeMin = math.MaxInt
	s.AllocationSizeMax = 0
	s.FreeRangeSizeMin = math.MaxInt
	s.FreeRangeSizeMax = 0
}

func (s *DetailedStatistics) AddFreeRange(size int) {
	s.FreeRangeCount++

	if size < s.FreeRangeSizeMin {
		s.FreeRangeSizeMin = size
	}

	if size > s.FreeRangeSizeMax {
		s.FreeRangeSizeMax = size
	}
}

func (s *DetailedStatistics) AddStaleRange(size int) {
	s.StaleRangeCount++
	s.StaleHandles += size
}

func (s *DetailedStatistics) AddAllocation(size int) {
	s.AllocationCount++
	s.AllocatedHandles += size

	if size < s.AllocationSizeMin {
		s.AllocationSizeMin = size
	}

	if size > s.AllocationSizeMax {
		s.AllocationSizeMax = size
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.FreeRangeCount += other.FreeRangeCount
	s.StaleRangeCount += other.StaleRangeCount
	s.StaleHandles += other.StaleHandles

	if other.FreeRangeSizeMin < s.FreeRangeSizeMin {
		s.FreeRangeSizeMin = other.FreeRangeSizeMin
	}

	if other.FreeRangeSizeMax > s.FreeRangeSizeMax {
		s.FreeRangeSizeMax = other.FreeRangeSizeMax
	}

	if other.AllocationSizeMin < s.AllocationSizeMin {
		s.AllocationSizeMin = other.AllocationSizeMin
	}

	if other.AllocationSizeMax > s.AllocationSizeMax {
		s.AllocationSizeMax = other.AllocationSizeMax
	}
}

// PrintJson populates a json object with these statistics. Size ranges are omitted when nothing
// contributed to them.
func (s *DetailedStatistics) PrintJson(json jwriter.ObjectState) {
	json.Name("PageCount").Int(s.PageCount)
	json.Name("AllocationCount").Int(s.AllocationCount)
	json.Name("HandleCount").Int(s.HandleCount)
	json.Name("AllocatedHandles").Int(s.AllocatedHandles)
	json.Name("FreeRangeCount").Int(s.FreeRangeCount)
	json.Name("StaleRangeCount").Int(s.StaleRangeCount)
	json.Name("StaleHandles").Int(s.StaleHandles)

	if s.AllocationCount > 0 {
		json.Name("AllocationSizeMin").Int(s.AllocationSizeMin)
		json.Name("AllocationSizeMax").Int(s.AllocationSizeMax)
	}

	if s.FreeRangeCount > 0 {
		json.Name("FreeRangeSizeMin").Int(s.FreeRangeSizeMin)
		json.Name("FreeRangeSizeMax").Int(s.FreeRangeSizeMax)
	}
}
