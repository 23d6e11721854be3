package labyrinth

// Point is a world-space position.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// Anchors map grid coordinates to world space. Base is the world position of
// cell (0,0); XEnd and ZEnd are reference points one grid width and one grid
// length away along each axis. Cells are spaced evenly between them.
type Anchors struct {
	Base Point `json:"base" bson:"base"`
	XEnd Point `json:"x_end" bson:"xEnd"`
	ZEnd Point `json:"z_end" bson:"zEnd"`
}

// WorldPosition returns the world-space position of pos on g.
func (a Anchors) WorldPosition(g *Grid, pos CellPosition) Point {
	stepX := (a.XEnd.X - a.Base.X) / float64(g.Width())
	stepZ := (a.ZEnd.Z - a.Base.Z) / float64(g.Length())
	return Point{
		X: a.Base.X + stepX*float64(pos.X),
		Y: a.Base.Y,
		Z: a.Base.Z + stepZ*float64(pos.Z),
	}
}

// WorldPositions maps every position of positions.
func (a Anchors) WorldPositions(g *Grid, positions []CellPosition) []Point {
	points := make([]Point, 0, len(positions))
	for _, pos := range positions {
		points = append(points, a.WorldPosition(g, pos))
	}
	return points
}
