package inventory

import "sort"

// FaceCount is the number of items stored on one face.
type FaceCount struct {
	FaceID string
	Items  int
}

// Summary describes how a catalog is spread over faces.
type Summary struct {
	Total   int
	PerFace []FaceCount
}

// UniqueFaces is the number of faces holding at least one item.
func (s Summary) UniqueFaces() int { return len(s.PerFace) }

// AveragePerFace is zero for an empty catalog.
func (s Summary) AveragePerFace() float64 {
	if len(s.PerFace) == 0 {
		return 0
	}
	return float64(s.Total) / float64(len(s.PerFace))
}

// Summarize counts items per face, ordered by face id.
func Summarize(items []Item) Summary {
	counts := make(map[string]int)
	for _, item := range items {
		counts[item.FaceID]++
	}
	s := Summary{Total: len(items), PerFace: make([]FaceCount, 0, len(counts))}
	for face, n := range counts {
		s.PerFace = append(s.PerFace, FaceCount{FaceID: face, Items: n})
	}
	sort.Slice(s.PerFace, func(i, j int) bool { return s.PerFace[i].FaceID < s.PerFace[j].FaceID })
	return s
}
