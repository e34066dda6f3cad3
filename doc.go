// Package galleria provides a private image gallery library built around a
// content-addressed image store.
//
// Uploads are validated, re-encoded into one canonical PNG form and stored
// in a flat directory under a name derived from the canonical bytes, so the
// same picture uploaded twice is stored once. The directory listing is the
// only index; pages of the gallery are computed from it on demand.
//
// # Key Components
//
//   - SessionCodec: stateless signed, expiring session tokens
//   - Validator: extension, MIME and header checks on untrusted uploads
//   - Canonicalize: decode and re-encode as metadata-free RGBA PNG
//   - Digest.ContentID: UUID-shaped id derived from canonical bytes
//   - Paginate: fixed 3x3 pages over the sorted ids
//   - GalleryService: ties the above to an ImageStorage backend
//
// # Example Usage
//
//	service, err := galleria.NewGalleryService(storage, galleria.ServiceConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store an upload
//	result, err := service.Ingest(ctx, "cat.jpg", data)
//
//	// Browse
//	page, err := service.ListPage(ctx, r.URL.Query().Get("page"))
//
// See the filesystem package for the directory backend and the http package
// for the web interface.
package galleria
