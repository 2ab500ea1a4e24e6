// Package props models the per-frame side-channel properties that travel
// with decoded video frames: color tags, HDR mastering metadata, field order,
// Dolby Vision RPU payloads and timing.
//
// Values are stored as int64, float64, []float64 or []byte. The typed
// getters report absence rather than failing, so callers can keep the last
// resolved value when a frame does not carry a property.
package props

import "maps"

// Well-known property keys.
const (
	Matrix         = "_Matrix"
	Transfer       = "_Transfer"
	Primaries      = "_Primaries"
	ColorRange     = "_ColorRange"
	ChromaLocation = "_ChromaLocation"
	FieldBased     = "_FieldBased"
	DurationNum    = "_DurationNum"
	DurationDen    = "_DurationDen"

	ContentLightLevelMax         = "ContentLightLevelMax"
	ContentLightLevelAverage     = "ContentLightLevelAverage"
	MasteringDisplayMaxLuminance = "MasteringDisplayMaxLuminance"
	MasteringDisplayMinLuminance = "MasteringDisplayMinLuminance"
	MasteringDisplayPrimariesX   = "MasteringDisplayPrimariesX"
	MasteringDisplayPrimariesY   = "MasteringDisplayPrimariesY"
	MasteringDisplayWhitePointX  = "MasteringDisplayWhitePointX"
	MasteringDisplayWhitePointY  = "MasteringDisplayWhitePointY"

	DolbyVisionRPU = "DolbyVisionRPU"
)

// HDRKeys lists the static HDR metadata keys that are written or removed
// together when output metadata is synchronized.
var HDRKeys = []string{
	ContentLightLevelMax,
	ContentLightLevelAverage,
	MasteringDisplayMaxLuminance,
	MasteringDisplayMinLuminance,
	MasteringDisplayPrimariesX,
	MasteringDisplayPrimariesY,
	MasteringDisplayWhitePointX,
	MasteringDisplayWhitePointY,
}

// Map holds the properties of one frame. A nil Map is a valid empty,
// read-only property set.
type Map map[string]any

// Int returns the integer property key.
func (m Map) Int(key string) (int64, bool) {
	switch v := m[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	}
	return 0, false
}

// Float returns the float property key. Integer values are converted.
func (m Map) Float(key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

// FloatArray returns the float array property key.
func (m Map) FloatArray(key string) ([]float64, bool) {
	v, ok := m[key].([]float64)
	return v, ok
}

// Data returns the binary property key. A present but empty payload is
// reported as found.
func (m Map) Data(key string) ([]byte, bool) {
	v, ok := m[key].([]byte)
	return v, ok
}

// Has reports whether key is present regardless of its type.
func (m Map) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// SetInt stores an integer property.
func (m Map) SetInt(key string, v int64) { m[key] = v }

// SetFloat stores a float property.
func (m Map) SetFloat(key string, v float64) { m[key] = v }

// SetFloatArray stores a copy of a float array property.
func (m Map) SetFloatArray(key string, v []float64) {
	m[key] = append([]float64(nil), v...)
}

// SetData stores a copy of a binary property.
func (m Map) SetData(key string, v []byte) {
	m[key] = append([]byte(nil), v...)
}

// Delete removes key.
func (m Map) Delete(key string) { delete(m, key) }

// Clone returns a shallow copy of m. The copy is never nil.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	maps.Copy(out, m)
	return out
}
