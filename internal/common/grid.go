package common

// IsValidCoordinate reports whether (x, y) lies on a width by height grid.
func IsValidCoordinate(x, y, width, height int) bool {
	return x >= 0 && x < width && y >= 0 && y < height
}

// ManhattanDistance is |x1-x2| + |y1-y2|.
func ManhattanDistance(x1, y1, x2, y2 int) int {
	return abs(x1-x2) + abs(y1-y2)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
