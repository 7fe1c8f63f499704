package freelist

import (
	"fmt"
	"math"

	"github.com/gallus-engine/gallus/heaputils"
	"github.com/google/btree"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
)

const btreeDegree = 8

// Block is a run of contiguous free handles within a heap
type Block struct {
	Offset int
	Size   int
}

// End returns the first offset after this block
func (b Block) End() int { return b.Offset + b.Size }

func lessByOffset(left, right Block) bool {
	return left.Offset < right.Offset
}

func lessBySize(left, right Block) bool {
	if left.Size != right.Size {
		return left.Size < right.Size
	}
	return left.Offset < right.Offset
}

// FreeList tracks the free handles of a single fixed-capacity heap. Free blocks are indexed twice:
// once by offset, which is used to find neighbors when a range is returned, and once by
// size, which is used to find a block for a new allocation.
//
// FreeList is not synchronized. Consumers are expected to guard it with their own lock.
type FreeList struct {
	capacity    int
	freeHandles int

	offsets *btree.BTreeG[Block]
	sizes   *btree.BTreeG[Block]
}

var _ heaputils.Validatable = &FreeList{}

// New creates a FreeList with a single free block that spans the full capacity
func New(capacity int) *FreeList {
	if capacity <= 0 {
		panic(fmt.Sprintf("attempted to create a free list with invalid capacity %d", capacity))
	}

	l := &FreeList{
		capacity: capacity,
		offsets:  btree.NewG[Block](btreeDegree, lessByOffset),
		sizes:    btree.NewG[Block](btreeDegree, lessBySize),
	}
	l.insertFreeBlock(Block{Offset: 0, Size: capacity})
	l.freeHandles = capacity

	return l
}

func (l *FreeList) Capacity() int       { return l.capacity }
func (l *FreeList) FreeHandles() int    { return l.freeHandles }
func (l *FreeList) FreeBlockCount() int { return l.offsets.Len() }
func (l *FreeList) IsFull() bool        { return l.freeHandles == 0 }

// HasSpace returns true if a single free block is at least size handles long
func (l *FreeList) HasSpace(size int) bool {
	_, ok := l.findFreeBlock(size)
	return ok
}

func (l *FreeList) findFreeBlock(size int) (Block, bool) {
	var found Block
	var ok bool
	l.sizes.AscendGreaterOrEqual(Block{Offset: math.MinInt, Size: size}, func(block Block) bool {
		found = block
		ok = true
		return false
	})

	return found, ok
}

// Allocate takes size handles from the first free block that can hold them, ordering blocks
// by size and then by offset. The remainder of the block, if any, stays in the free list.
// It returns false without modifying the list if no free block is large enough.
func (l *FreeList) Allocate(size int) (int, bool) {
	if size <= 0 || size > l.freeHandles {
		return -1, false
	}

	block, ok := l.findFreeBlock(size)
	if !ok {
		return -1, false
	}

	l.removeFreeBlock(block)
	if block.Size > size {
		l.insertFreeBlock(Block{Offset: block.Offset + size, Size: block.Size - size})
	}
	l.freeHandles -= size

	return block.Offset, true
}

// Free returns a range of handles to the free list, merging it with the free blocks immediately
// before and after it when they are contiguous
func (l *FreeList) Free(offset, size int) error {
	if size <= 0 {
		return errors.Errorf("attempted to free a range of size %d", size)
	}
	if offset < 0 || offset+size > l.capacity {
		return errors.Errorf("range at offset %d of size %d is outside of a free list with capacity %d", offset, size, l.capacity)
	}

	prev, hasPrev := l.previousFreeBlock(offset)
	next, hasNext := l.nextFreeBlock(offset)

	if hasPrev && prev.End() > offset {
		return errors.Errorf("range at offset %d of size %d overlaps the free block at offset %d", offset, size, prev.Offset)
	}
	if hasNext && offset+size > next.Offset {
		return errors.Errorf("range at offset %d of size %d overlaps the free block at offset %d", offset, size, next.Offset)
	}

	l.freeHandles += size

	block := Block{Offset: offset, Size: size}
	if hasPrev && prev.End() == block.Offset {
		l.removeFreeBlock(prev)
		block.Offset = prev.Offset
		block.Size += prev.Size
	}

	if hasNext && block.End() == next.Offset {
		l.removeFreeBlock(next)
		block.Size += next.Size
	}

	l.insertFreeBlock(block)
	return nil
}

func (l *FreeList) previousFreeBlock(offset int) (Block, bool) {
	var found Block
	var ok bool
	l.offsets.DescendLessOrEqual(Block{Offset: offset}, func(block Block) bool {
		found = block
		ok = true
		return false
	})

	return found, ok
}

func (l *FreeList) nextFreeBlock(offset int) (Block, bool) {
	var found Block
	var ok bool
	l.offsets.AscendGreaterOrEqual(Block{Offset: offset}, func(block Block) bool {
		found = block
		ok = true
		return false
	})

	return found, ok
}

func (l *FreeList) removeFreeBlock(block Block) {
	if _, ok := l.offsets.Delete(block); !ok {
		panic(fmt.Sprintf("free block at offset %d was not present in the offset index", block.Offset))
	}
	if _, ok := l.sizes.Delete(block); !ok {
		panic(fmt.Sprintf("free block at offset %d with size %d was not present in the size index", block.Offset, block.Size))
	}
}

func (l *FreeList) insertFreeBlock(block Block) {
	if _, replaced := l.offsets.ReplaceOrInsert(block); replaced {
		panic(fmt.Sprintf("free block at offset %d was already present in the offset index", block.Offset))
	}
	l.sizes.ReplaceOrInsert(block)
}

// VisitFreeBlocks calls visit for every free block in ascending offset order, stopping at the
// first error
func (l *FreeList) VisitFreeBlocks(visit func(block Block) error) error {
	var err error
	l.offsets.Ascend(func(block Block) bool {
		err = visit(block)
		return err == nil
	})

	return err
}

func (l *FreeList) Validate() error {
	if l.freeHandles < 0 || l.freeHandles > l.capacity {
		return errors.Errorf("free handle count %d is outside of the capacity %d", l.freeHandles, l.capacity)
	}

	if l.offsets.Len() != l.sizes.Len() {
		return errors.Errorf("the offset index holds %d blocks but the size index holds %d", l.offsets.Len(), l.sizes.Len())
	}

	calculatedFree := 0
	prevEnd := -1
	err := l.VisitFreeBlocks(func(block Block) error {
		if block.Size <= 0 {
			return errors.Errorf("free block at offset %d has invalid size %d", block.Offset, block.Size)
		}
		if block.Offset < 0 || block.End() > l.capacity {
			return errors.Errorf("free block at offset %d of size %d is outside of the capacity %d", block.Offset, block.Size, l.capacity)
		}
		if block.Offset < prevEnd {
			return errors.Errorf("free block at offset %d overlaps the previous free block", block.Offset)
		}
		if block.Offset == prevEnd {
			return errors.Errorf("free block at offset %d is adjacent to the previous free block and should have been merged", block.Offset)
		}
		if !l.sizes.Has(block) {
			return errors.Errorf("free block at offset %d with size %d is missing from the size index", block.Offset, block.Size)
		}

		calculatedFree += block.Size
		prevEnd = block.End()
		return nil
	})
	if err != nil {
		return err
	}

	if calculatedFree != l.freeHandles {
		return errors.Errorf("the free handle count is %d, but the free blocks only added up to %d", l.freeHandles, calculatedFree)
	}

	return nil
}

func (l *FreeList) AddStatistics(stats *heaputils.Statistics) {
	stats.PageCount++
	stats.HandleCount += l.capacity
	stats.AllocatedHandles += l.capacity - l.freeHandles
}

// AddDetailedStatistics adds this list's page and free ranges to stats. Allocations are not
// tracked by the free list and must be added by the owner.
func (l *FreeList) AddDetailedStatistics(stats *heaputils.DetailedStatistics) {
	stats.PageCount++
	stats.HandleCount += l.capacity

	l.offsets.Ascend(func(block Block) bool {
		stats.AddFreeRange(block.Size)
		return true
	})
}

// BlockJsonData populates a json object with information about this free list
func (l *FreeList) BlockJsonData(json jwriter.ObjectState) {
	json.Name("TotalHandles").Int(l.capacity)
	json.Name("FreeHandles").Int(l.freeHandles)
	json.Name("FreeRanges").Int(l.offsets.Len())

	arrayState := json.Name("FreeBlocks").Array()
	defer arrayState.End()

	l.offsets.Ascend(func(block Block) bool {
		obj := arrayState.Object()
		obj.Name("Offset").Int(block.Offset)
		obj.Name("Size").Int(block.Size)
		obj.End()
		return true
	})
}
