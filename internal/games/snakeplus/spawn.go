package snakeplus

import "time"

var noFood = Food{Point: Point{X: -1, Y: -1}}

// spawnFood places food at a random cell clear of the snake, ice and the
// booster pickup. A full board leaves the food unplaced.
func (s *Sim) spawnFood(now time.Duration) {
	empty := s.freeCells()
	if len(empty) == 0 {
		s.st.Food = noFood
		return
	}
	cell := empty[s.rng.Intn(len(empty))]
	s.st.Food = Food{
		Point:     cell,
		Bonus:     s.rng.Float64() < s.cfg.Food.BonusChance,
		SpawnedAt: now,
	}
}

// freeCells collects every cell not occupied by snake, food, ice or booster,
// in row-major order.
func (s *Sim) freeCells() []Point {
	size := s.st.GridSize
	occupied := make(map[Point]bool, len(s.st.Snake)+len(s.st.Ice)+2)
	for _, p := range s.st.Snake {
		occupied[p] = true
	}
	for _, t := range s.st.Ice {
		occupied[t.Point] = true
	}
	if s.st.Food.Placed() {
		occupied[s.st.Food.Point] = true
	}
	if s.st.Booster != nil {
		occupied[s.st.Booster.Point] = true
	}

	cells := make([]Point, 0, size*size-len(occupied))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			p := Point{X: x, Y: y}
			if !occupied[p] {
				cells = append(cells, p)
			}
		}
	}
	return cells
}

func (s *Sim) inBounds(p Point) bool {
	return p.X >= 0 && p.X < s.st.GridSize && p.Y >= 0 && p.Y < s.st.GridSize
}

func (s *Sim) onSnake(p Point) bool {
	for _, seg := range s.st.Snake {
		if seg == p {
			return true
		}
	}
	return false
}

func (s *Sim) foodAt(p Point) bool {
	return s.st.Food.Placed() && s.st.Food.Point == p
}
