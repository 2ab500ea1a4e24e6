// Package dovi parses Dolby Vision reference processing units (RPUs) and
// decodes them into the reshaping curves and color matrices a renderer
// applies to the base layer.
//
// Parse accepts the UNSPEC62 NAL unit carried in the DolbyVisionRPU frame
// property. Decode is a pure function of the parsed RPU; it never fails and
// leaves absent blocks zero. An RPU that asks to reuse the previous one
// decodes to a sentinel (see [Metadata.IsNoUpdate]) so callers keep the
// metadata they already have.
//
// Encode writes an RPU back out as an UNSPEC62 NAL unit, so a caller can
// parse, edit and re-emit metadata. It writes level 1 extension blocks only.
//
// Every coefficient is transmitted as an integer part plus a fraction of
// coefficient_log2_denom bits; [FixedPoint] recombines them.
package dovi
