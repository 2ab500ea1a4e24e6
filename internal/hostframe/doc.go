// Package hostframe provides frame sources and sinks in host memory for
// the vidrender command: raw planar files (optionally zstd compressed) and
// still images.
//
// Raw files hold frames back to back. Each frame stores its planes in
// order and each plane its rows without padding, so a frame of format f
// occupies FrameSize(f, w, h) bytes.
package hostframe
