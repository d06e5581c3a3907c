package gramps

import (
	"archive/tar"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/bartfeenstra/betty-sub005/errors"
)

// tarballMember is the fixed member path holding the XML document inside a
// .gpkg bundle.
const tarballMember = "data.gramps"

// containerFormat is one leg of the detection cascade: a name for error
// reporting and a handler that either produces a document or a structured
// failure.
type containerFormat struct {
	name  string
	parse func(data []byte) (*document, error)
}

// containerFormats is tried in order; the first handler to succeed wins.
var containerFormats = []containerFormat{
	{name: "xml", parse: parseDocument},
	{name: "gzip", parse: parseGzippedDocument},
	{name: "tarball", parse: parseTarballDocument},
}

// parseContainer runs the format cascade over raw archive bytes. Failures
// of individual formats fall through silently; if no format matches, the
// individual failures are aggregated behind ErrUnknownFormat.
func parseContainer(data []byte) (*document, error) {
	var failures error
	for _, format := range containerFormats {
		doc, err := format.parse(data)
		if err == nil {
			return doc, nil
		}
		failures = errors.CombineErrors(failures, errors.Wrap(err, format.name))
	}
	return nil, errors.WithSecondaryError(errors.WithStack(errors.ErrUnknownFormat), failures)
}

// parseGzippedDocument handles a gzip-compressed XML document (.gramps).
func parseGzippedDocument(data []byte) (*document, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "not a gzip stream")
	}
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "truncated gzip stream")
	}
	return parseDocument(decompressed)
}

// parseTarballDocument handles a gzip-compressed tar bundle (.gpkg)
// containing the XML document at a fixed member path.
func parseTarballDocument(data []byte) (*document, error) {
	gzipReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "not a gzip stream")
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "not a tar stream")
		}
		if header.Name == tarballMember {
			member, err := io.ReadAll(tarReader)
			if err != nil {
				return nil, errors.Wrapf(err, "truncated member %s", tarballMember)
			}
			// The member may itself be gzip-compressed XML
			if doc, err := parseDocument(member); err == nil {
				return doc, nil
			}
			return parseGzippedDocument(member)
		}
	}
	return nil, errors.Newf("no %s member in tarball", tarballMember)
}
