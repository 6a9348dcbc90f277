package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Common errors returned by attachment encoding and validation.
var (
	// ErrUnsupportedFormat is returned when a file extension or media type
	// is not recognized.
	ErrUnsupportedFormat = errors.New("content: unsupported format")

	// ErrAttachmentLimit is returned when an attachment exceeds a size or
	// count ceiling, or carries an empty payload.
	ErrAttachmentLimit = errors.New("content: attachment limit exceeded")
)

// Kind declares whether a file should be encoded as an image or a document.
type Kind string

const (
	// KindImage encodes the file as an Image block.
	KindImage Kind = "image"

	// KindDocument encodes the file as a Document block.
	KindDocument Kind = "document"
)

// imageFormats maps file extensions to image formats.
var imageFormats = map[string]ImageFormat{
	".jpg":  ImageJPEG,
	".jpeg": ImageJPEG,
	".png":  ImagePNG,
	".gif":  ImageGIF,
	".webp": ImageWebP,
}

// documentFormats maps file extensions to document formats.
var documentFormats = map[string]DocumentFormat{
	".txt":  DocumentTXT,
	".md":   DocumentMD,
	".json": DocumentJSON,
	".csv":  DocumentCSV,
	".xml":  DocumentXML,
	".yaml": DocumentYAML,
	".yml":  DocumentYAML,
	".html": DocumentHTML,
	".pdf":  DocumentPDF,
	".docx": DocumentDOCX,
}

// Encode reads the file at path and returns a content block of the declared
// kind. The media type is inferred from the file extension.
//
// I/O failures wrap the underlying error so errors.Is(err, fs.ErrNotExist)
// works; unrecognized extensions return ErrUnsupportedFormat; size-ceiling
// violations return ErrAttachmentLimit. Encoding is a pure transform of
// bytes to block with no side effect beyond the read.
func Encode(path string, kind Kind) (Block, error) {
	switch kind {
	case KindImage:
		return EncodeImage(path)
	case KindDocument:
		return EncodeDocument(path)
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrUnsupportedFormat, kind)
	}
}

// EncodeImage reads an image file and returns an Image block.
func EncodeImage(path string) (Image, error) {
	format, ok := imageFormats[ext(path)]
	if !ok {
		return Image{}, fmt.Errorf("%w: image extension %q (%s)", ErrUnsupportedFormat, ext(path), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("content: read image %s: %w", path, err)
	}

	img := Image{Format: format, Data: data}
	if err := Validate(img); err != nil {
		return Image{}, fmt.Errorf("%w (%s)", err, path)
	}
	return img, nil
}

// EncodeDocument reads a document file and returns a Document block named
// after the file's base name.
func EncodeDocument(path string) (Document, error) {
	format, ok := documentFormats[ext(path)]
	if !ok {
		return Document{}, fmt.Errorf("%w: document extension %q (%s)", ErrUnsupportedFormat, ext(path), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("content: read document %s: %w", path, err)
	}

	doc := Document{Format: format, Name: filepath.Base(path), Data: data}
	if err := Validate(doc); err != nil {
		return Document{}, fmt.Errorf("%w (%s)", err, path)
	}
	return doc, nil
}

// EncodeImages encodes multiple image files, failing on the first error.
func EncodeImages(paths []string) ([]Block, error) {
	blocks := make([]Block, 0, len(paths))
	for _, p := range paths {
		img, err := EncodeImage(p)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, img)
	}
	return blocks, nil
}

// EncodeDocuments encodes multiple document files, failing on the first
// error. At most MaxDocumentsPerMessage documents may be encoded per call.
func EncodeDocuments(paths []string) ([]Block, error) {
	if len(paths) > MaxDocumentsPerMessage {
		return nil, fmt.Errorf("%w: %d documents requested, limit is %d per message",
			ErrAttachmentLimit, len(paths), MaxDocumentsPerMessage)
	}

	blocks := make([]Block, 0, len(paths))
	for _, p := range paths {
		doc, err := EncodeDocument(p)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, doc)
	}
	return blocks, nil
}

// Classify reports whether the file at path would be encoded as an image
// or a document, based on its extension alone. It does not touch the
// filesystem.
func Classify(path string) (Kind, error) {
	e := ext(path)
	if _, ok := imageFormats[e]; ok {
		return KindImage, nil
	}
	if _, ok := documentFormats[e]; ok {
		return KindDocument, nil
	}
	return "", fmt.Errorf("%w: extension %q (%s)", ErrUnsupportedFormat, e, path)
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
