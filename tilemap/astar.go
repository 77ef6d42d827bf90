package tilemap

import (
	"math"

	"github.com/milk9111/rts/ecs/component"
)

const defaultMaxPathNodes = 4096

// FindPath returns the tiles from from (exclusive) to to (inclusive) on the
// 4-way grid, avoiding obstacles and footprints other than self. It returns
// nil when to is unreachable within the node budget.
func (m *Map) FindPath(from, to Coord, self *component.Pathfindable) []Coord {
	if from == to {
		return nil
	}
	if !m.IsFree(to, self) {
		return nil
	}
	isBlocked := func(x, y int) bool {
		return !m.IsFree(Coord{X: x, Y: y}, self)
	}
	path := astar(from.X, from.Y, to.X, to.Y, m.Width, m.Height, isBlocked, defaultMaxPathNodes)
	if len(path) < 2 {
		return nil
	}
	return path[1:]
}

// astar finds a path from start to goal on a 4-way grid.
// isBlocked should return true for cells that cannot be traversed.
// maxNodes limits the number of processed nodes to avoid runaway searches.
func astar(startX, startY, goalX, goalY, width, height int, isBlocked func(x, y int) bool, maxNodes int) []Coord {
	if width <= 0 || height <= 0 {
		return nil
	}
	if goalX < 0 || goalY < 0 || goalX >= width || goalY >= height {
		return nil
	}

	startIdx := startY*width + startX
	goalIdx := goalY*width + goalX

	open := make([]Coord, 0, 64)
	open = append(open, Coord{X: startX, Y: startY})
	openSet := map[int]bool{startIdx: true}

	cameFrom := make(map[int]int, 128)
	gScore := map[int]float64{startIdx: 0}
	fScore := map[int]float64{startIdx: heuristic(startX, startY, goalX, goalY)}

	neighbors := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for iterations := 0; len(open) > 0 && iterations < maxNodes; iterations++ {
		// lowest fScore, first found wins ties so results are stable
		bestIdx := 0
		bestScore := math.MaxFloat64
		for i, n := range open {
			if f := fScore[n.Y*width+n.X]; f < bestScore {
				bestScore = f
				bestIdx = i
			}
		}
		current := open[bestIdx]
		currentIdx := current.Y*width + current.X
		open = append(open[:bestIdx], open[bestIdx+1:]...)
		delete(openSet, currentIdx)

		if currentIdx == goalIdx {
			return reconstructPath(cameFrom, currentIdx, startIdx, width)
		}

		for _, d := range neighbors {
			nx, ny := current.X+d[0], current.Y+d[1]
			if nx < 0 || ny < 0 || nx >= width || ny >= height {
				continue
			}
			if isBlocked != nil && isBlocked(nx, ny) {
				continue
			}
			neighborIdx := ny*width + nx
			tentative := gScore[currentIdx] + 1
			if prev, seen := gScore[neighborIdx]; !seen || tentative < prev {
				cameFrom[neighborIdx] = currentIdx
				gScore[neighborIdx] = tentative
				fScore[neighborIdx] = tentative + heuristic(nx, ny, goalX, goalY)
				if !openSet[neighborIdx] {
					open = append(open, Coord{X: nx, Y: ny})
					openSet[neighborIdx] = true
				}
			}
		}
	}

	return nil
}

func reconstructPath(cameFrom map[int]int, currentIdx, startIdx, width int) []Coord {
	path := make([]Coord, 0, 32)
	for {
		path = append(path, Coord{X: currentIdx % width, Y: currentIdx / width})
		if currentIdx == startIdx {
			break
		}
		prev, ok := cameFrom[currentIdx]
		if !ok {
			return nil
		}
		currentIdx = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func heuristic(x1, y1, x2, y2 int) float64 {
	return math.Abs(float64(x1-x2)) + math.Abs(float64(y1-y2))
}
