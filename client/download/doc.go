// Package download streams document artifacts to disk.
//
// [Handle] stages the response body next to the destination path and renames
// it into place once the optional checks passed. The checks are the artifact
// media type, the announced length and a checksum:
//
//	err := download.Handle(ctx, download.Source{
//		Body:        resp.Body,
//		Length:      resp.ContentLength,
//		ContentType: resp.Header.Get("Content-Type"),
//	}, destPath, logger,
//		download.WithMediaType("application/pdf"),
//		download.WithChecksum(sha256.New(), expectedHex),
//	)
//
// Most callers should use [github.com/adamwoolhether/assinafy/document.Resource.DownloadFile],
// which invokes Handle through the shared client.
package download
