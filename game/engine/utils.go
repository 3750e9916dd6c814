package engine

// CountLost counts the lost robots in reports
func CountLost(reports []Report) int {
	count := 0
	for _, r := range reports {
		if r.Status == StatusLost {
			count++
		}
	}
	return count
}

// CountSuppressed counts the moves that a scent prevented
func CountSuppressed(steps []StepResult) int {
	count := 0
	for _, s := range steps {
		if s.Outcome == OutcomeSuppressed {
			count++
		}
	}
	return count
}

// RenderMap draws the grid with the top row first. Robots are drawn with
// their orientation letter (lowercase when lost), cells holding a scent with
// '*' and empty cells with '.'.
func RenderMap(bounds Bounds, reports []Report, scents []ScentKey) []string {
	if bounds.MaxWidth < 0 || bounds.MaxHeight < 0 {
		return nil
	}

	width, height := bounds.MaxWidth+1, bounds.MaxHeight+1
	grid := make([][]byte, height)
	for y := range grid {
		grid[y] = make([]byte, width)
		for x := range grid[y] {
			grid[y][x] = '.'
		}
	}

	for _, k := range scents {
		if bounds.Contains(Position{X: k.X, Y: k.Y}) {
			grid[k.Y][k.X] = '*'
		}
	}

	for _, r := range reports {
		if !bounds.Contains(r.Position) || !r.Orientation.Valid() {
			continue
		}
		c := orientationNames[r.Orientation][0]
		if r.Status == StatusLost {
			c += 'a' - 'A'
		}
		grid[r.Position.Y][r.Position.X] = c
	}

	rows := make([]string, 0, height)
	for y := height - 1; y >= 0; y-- {
		rows = append(rows, string(grid[y]))
	}
	return rows
}
