package drill

import "fmt"

type FilterStats struct {
	Original   int `yaml:"original_count"`
	Horizontal int `yaml:"horizontal_count"`
	Vertical   int `yaml:"vertical_count"`
	Removed    int `yaml:"vertical_removed"`
}

type Filtered struct {
	Kept    []Point     `yaml:"-"`
	Removed []Point     `yaml:"-"`
	Stats   FilterStats `yaml:"stats"`
	Message string      `yaml:"message"`
}

// Filter removes vertical (Z+) points, which this machine profile does not
// drill. It never fails; an empty result is left for grouping to reject.
func Filter(points []Point) Filtered {
	var f Filtered
	for _, p := range points {
		if p.Direction() == DirectionZPlus {
			f.Removed = append(f.Removed, p)
			continue
		}
		f.Kept = append(f.Kept, p)
	}
	f.Stats = FilterStats{
		Original:   len(points),
		Horizontal: len(f.Kept),
		Vertical:   len(f.Removed),
		Removed:    len(f.Removed),
	}
	if len(f.Removed) > 0 {
		f.Message = fmt.Sprintf("Filtered %d vertical drilling points. Keeping %d horizontal points.",
			len(f.Removed), len(f.Kept))
	} else {
		f.Message = fmt.Sprintf("All %d points are horizontal drilling.", len(f.Kept))
	}
	return f
}
