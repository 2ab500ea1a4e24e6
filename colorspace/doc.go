// Package colorspace describes the color of video frames and resolves it
// per frame.
//
// A [Description] bundles the colorimetry ([ColorSpace]: primaries, transfer
// function, HDR mastering metadata) with the encoding ([Repr]: matrix,
// levels, alpha, bit depth, optional Dolby Vision reshaping) and chroma
// siting. A [Resolver] owns one source and one destination description and
// refreshes them from each frame's side-channel properties: fields pinned by
// configuration stay fixed, everything else follows the frame, and absent
// properties keep the last resolved value.
//
// Conversion between enum values and integer property codes goes through
// [props.Table]; conversion from option spellings goes through the Parse
// functions, which match names case-insensitively.
package colorspace
