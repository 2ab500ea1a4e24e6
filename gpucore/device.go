package gpucore

// Device is the GPU abstraction the render context drives.
//
// Every operation is synchronous: it returns once the GPU work it issued has
// completed. A Device is not required to be safe for concurrent use; the
// render context serializes access to the device it owns.
type Device interface {
	// Name returns the backend identifier (e.g., "software", "native").
	Name() string

	// CreateTexture allocates a single-component texture.
	CreateTexture(desc *TextureDesc) (TextureID, error)

	// DestroyTexture releases a texture. Unknown IDs are ignored.
	DestroyTexture(id TextureID)

	// Describe returns the descriptor a live texture was created with.
	Describe(id TextureID) (TextureDesc, bool)

	// UploadPlane copies host pixels into a texture of the same size and
	// format.
	UploadPlane(id TextureID, plane *PlaneData) error

	// DownloadPlane copies a texture into dst, writing rows stride bytes
	// apart.
	DownloadPlane(id TextureID, dst []byte, stride int) error

	// OffsetPass renders src into dst, adding offset to the first channel of
	// every texel. Values are normalized: unorm texels are scaled into
	// [0, 1] before the offset applies. Both textures must have the same
	// size; dst must be renderable.
	OffsetPass(src, dst TextureID, offset float32) error

	// Close releases the device. Textures still alive are released with it.
	Close() error
}

// Recreate makes *id name a texture matching desc. The texture is kept when
// its descriptor is already compatible, otherwise it is destroyed and a new
// one created. On failure *id is InvalidID.
func Recreate(dev Device, id *TextureID, desc *TextureDesc) error {
	if *id != InvalidID {
		if cur, ok := dev.Describe(*id); ok && cur.Compatible(*desc) {
			return nil
		}
		dev.DestroyTexture(*id)
		*id = InvalidID
	}
	nid, err := dev.CreateTexture(desc)
	if err != nil {
		return err
	}
	*id = nid
	return nil
}
