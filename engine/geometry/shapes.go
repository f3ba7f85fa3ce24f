package geometry

// QuadVertices returns the four corners of a unit quad centered on the origin in the z = 0 plane,
// counter-clockwise from the top-right corner.
func QuadVertices() []TextureVertex {
	return []TextureVertex{
		{Position: [3]float32{0.5, 0.5, 0.0}, TexCoords: [2]float32{1.0, 0.0}},
		{Position: [3]float32{-0.5, 0.5, 0.0}, TexCoords: [2]float32{0.0, 0.0}},
		{Position: [3]float32{-0.5, -0.5, 0.0}, TexCoords: [2]float32{0.0, 1.0}},
		{Position: [3]float32{0.5, -0.5, 0.0}, TexCoords: [2]float32{1.0, 1.0}},
	}
}

// QuadIndices returns the two counter-clockwise triangles covering QuadVertices.
func QuadIndices() []uint16 {
	return []uint16{
		0, 1, 2,
		0, 2, 3,
	}
}

// TriangleVertices returns a counter-clockwise triangle with red, green and blue corners.
func TriangleVertices() []ColorVertex {
	return []ColorVertex{
		{Position: [3]float32{0.0, 0.5, 0.0}, Color: [3]float32{1.0, 0.0, 0.0}},
		{Position: [3]float32{-0.5, -0.5, 0.0}, Color: [3]float32{0.0, 1.0, 0.0}},
		{Position: [3]float32{0.5, -0.5, 0.0}, Color: [3]float32{0.0, 0.0, 1.0}},
	}
}
