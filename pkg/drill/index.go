package drill

import (
	"fmt"
	"math"

	"github.com/asim/quadtree"

	"edgedrill/pkg/fault"
	"edgedrill/pkg/geometry"
)

// holeIndex is a spatial index over accepted drill points, keyed by XY.
type holeIndex struct {
	quadTree *quadtree.QuadTree
	points   []Point
}

func newHoleIndex(points []Point) *holeIndex {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.Position.X)
		minY = math.Min(minY, p.Position.Y)
		maxX = math.Max(maxX, p.Position.X)
		maxY = math.Max(maxY, p.Position.Y)
	}
	midX := (maxX + minX) / 2
	midY := (maxY + minY) / 2

	// Add a margin so points on the edges stay inside the boundary
	halfWidth := maxX - midX + 10
	halfHeight := maxY - midY + 10

	aabb := quadtree.NewAABB(
		quadtree.NewPoint(midX, midY, nil),
		quadtree.NewPoint(halfWidth, halfHeight, nil))
	return &holeIndex{
		quadTree: quadtree.New(aabb, 0, nil),
		points:   points,
	}
}

func (h *holeIndex) insert(i int) {
	p := h.points[i].Position
	h.quadTree.Insert(quadtree.NewPoint(p.X, p.Y, i))
}

// near returns the indices of inserted points within radius of point i that
// drill in the same direction at the same height.
func (h *holeIndex) near(i int, radius float64) []int {
	p := h.points[i]
	box := quadtree.NewAABB(
		quadtree.NewPoint(p.Position.X, p.Position.Y, nil),
		quadtree.NewPoint(radius, radius, nil),
	)
	var found []int
	for _, qp := range h.quadTree.Search(box) {
		j := qp.Data().(int)
		other := h.points[j]
		if other.Direction() != p.Direction() {
			continue
		}
		if math.Abs(other.Position.Z-p.Position.Z) > radius {
			continue
		}
		if other.Position.XY().Distance(p.Position.XY()) <= radius {
			found = append(found, j)
		}
	}
	return found
}

// findCoincident reports holes that repeat an earlier hole. They are still
// drilled; the warning is for the operator.
func findCoincident(points []Point, radius float64) []Issue {
	if len(points) < 2 || radius <= 0 {
		return nil
	}
	idx := newHoleIndex(points)
	var issues []Issue
	for i := range points {
		if dup := idx.near(i, radius); len(dup) > 0 {
			first := dup[0]
			for _, j := range dup[1:] {
				if j < first {
					first = j
				}
			}
			p := points[i]
			issues = append(issues, Issue{
				EntityType: "CIRCLE",
				Layer:      p.Layer,
				Position:   p.Position,
				Reason: fmt.Sprintf("coincident with drill point %d at %s",
					first, formatXYZ(points[first].Position)),
				Severity: fault.SeverityWarning,
			})
		}
		idx.insert(i)
	}
	return issues
}

func formatXYZ(p geometry.Point3) string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}
