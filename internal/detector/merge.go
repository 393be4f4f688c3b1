package detector

import "image"

// MergeOverlapping unions rectangles whose padded forms intersect, repeating
// until a full pass makes no merge. Padding makes near-touching detections of
// one logical difference count as overlapping; surviving rectangles are shrunk
// back afterwards. Quadratic per pass, but region counts stay small.
func MergeOverlapping(regions []image.Rectangle, padding int) []image.Rectangle {
	if len(regions) == 0 {
		return nil
	}

	merged := make([]image.Rectangle, len(regions))
	for i, r := range regions {
		merged[i] = r.Inset(-padding)
	}

	for changed := true; changed; {
		changed = false
		used := make([]bool, len(merged))
		var next []image.Rectangle

		for i := range merged {
			if used[i] {
				continue
			}
			cur := merged[i]
			for j := i + 1; j < len(merged); j++ {
				if used[j] {
					continue
				}
				if cur.Overlaps(merged[j]) {
					cur = cur.Union(merged[j])
					used[j] = true
					changed = true
				}
			}
			used[i] = true
			next = append(next, cur)
		}
		merged = next
	}

	out := make([]image.Rectangle, len(merged))
	for i, r := range merged {
		out[i] = r.Inset(padding)
	}
	return out
}
