package domain

import "sort"

// SortStages returns a copy of stages ordered left to right by Sequence
func SortStages(stages []Stage) []Stage {
	result := make([]Stage, len(stages))
	copy(result, stages)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Sequence < result[j].Sequence
	})
	return result
}

// SortWorkItems returns a copy of items ordered top to bottom by Order
func SortWorkItems(items []WorkItem) []WorkItem {
	result := make([]WorkItem, len(items))
	copy(result, items)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Order < result[j].Order
	})
	return result
}

// ItemsInStage returns the items of one stage, sorted by Order
func ItemsInStage(items []WorkItem, stageID string) []WorkItem {
	var inStage []WorkItem
	for _, item := range items {
		if item.StageID() == stageID {
			inStage = append(inStage, item)
		}
	}
	return SortWorkItems(inStage)
}

// NextOrder returns the order that appends an item to the end of a stage:
// max(order)+1, or 0 for an empty stage
func NextOrder(items []WorkItem, stageID string) int {
	next, found := 0, false
	for _, item := range items {
		if item.StageID() != stageID {
			continue
		}
		if !found || item.Order+1 > next {
			next, found = item.Order+1, true
		}
	}
	return next
}

// NextSequence returns the sequence that appends a stage to the right edge
func NextSequence(stages []Stage) int {
	next := 0
	for i, s := range stages {
		if i == 0 || s.Sequence+1 > next {
			next = s.Sequence + 1
		}
	}
	return next
}

// FindStage returns the index of the stage with id, or -1
func FindStage(stages []Stage, id string) int {
	for i := range stages {
		if stages[i].ID == id {
			return i
		}
	}
	return -1
}

// FindWorkItem returns the index of the item with id, or -1
func FindWorkItem(items []WorkItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
