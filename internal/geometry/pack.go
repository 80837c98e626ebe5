package geometry

import (
	"encoding/binary"
	"math"
)

// VertexStride is the byte stride per vertex in the triangle pipeline.
// Layout per vertex:
//
//	position (vec2<f32>) = 8 bytes  (location 0)
//	color    (vec4<f32>) = 16 bytes (location 1)
//
// Total = 24 bytes per vertex.
const VertexStride = 24

// ColorOffset is the byte offset of the color attribute.
const ColorOffset = 8

// ViewportUniformSize is the size of the viewport uniform block: the
// width and height as f32 followed by 8 bytes of padding.
const ViewportUniformSize = 16

// Pack encodes vertices little-endian in the pipeline's vertex layout.
func Pack(vertices []Vertex) []byte {
	buf := make([]byte, len(vertices)*VertexStride)
	for i, v := range vertices {
		writeVertex(buf[i*VertexStride:], v)
	}
	return buf
}

func writeVertex(buf []byte, v Vertex) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Position[1]))
	for c := 0; c < 4; c++ {
		off := ColorOffset + 4*c
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v.Color[c]))
	}
}

// PackViewport encodes size as the viewport uniform block.
func PackViewport(size ViewportSize) []byte {
	buf := make([]byte, ViewportUniformSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(float32(size.Width)))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(float32(size.Height)))
	// Padding bytes 8..15 remain zero.
	return buf
}
