package content

import "fmt"

// Size and count ceilings for attachments. Documents follow the Bedrock
// 4.5 MB per-file limit; images follow the 5 MB protocol limit.
const (
	// MaxDocumentBytes is the maximum size of a single document payload.
	MaxDocumentBytes = 4608 * 1024 // 4.5 MB

	// MaxImageBytes is the maximum size of a single image payload.
	MaxImageBytes = 5 * 1024 * 1024 // 5 MB

	// MaxDocumentsPerMessage is the maximum number of document blocks a
	// single message may carry.
	MaxDocumentsPerMessage = 5
)

// Block is one element of a message's content. Exactly three variants
// implement it: Text, Image, and Document.
type Block interface {
	// blockVariant restricts implementations to this package.
	blockVariant()
}

// Text is a plain text block.
type Text struct {
	// Text is the text content. May be empty only when other blocks are
	// present in the same message.
	Text string
}

// Image is a binary image block.
type Image struct {
	// Format identifies the image media type.
	Format ImageFormat

	// Data is the raw image payload. Must be non-empty.
	Data []byte
}

// Document is a named binary document block.
type Document struct {
	// Format identifies the document media type.
	Format DocumentFormat

	// Name is the document's display name, typically the file base name.
	Name string

	// Data is the raw document payload. Must be non-empty.
	Data []byte
}

func (Text) blockVariant()     {}
func (Image) blockVariant()    {}
func (Document) blockVariant() {}

// ImageFormat identifies a supported image media type.
type ImageFormat string

const (
	ImageJPEG ImageFormat = "jpeg"
	ImagePNG  ImageFormat = "png"
	ImageGIF  ImageFormat = "gif"
	ImageWebP ImageFormat = "webp"
)

// IsValid checks if the format is one of the supported image formats.
func (f ImageFormat) IsValid() bool {
	switch f {
	case ImageJPEG, ImagePNG, ImageGIF, ImageWebP:
		return true
	default:
		return false
	}
}

// MediaType returns the MIME-style media type for the format
// (e.g., "image/png").
func (f ImageFormat) MediaType() string {
	return "image/" + string(f)
}

// String returns a string representation of the format.
func (f ImageFormat) String() string {
	return string(f)
}

// DocumentFormat identifies a supported document media type.
type DocumentFormat string

const (
	DocumentTXT  DocumentFormat = "txt"
	DocumentMD   DocumentFormat = "md"
	DocumentJSON DocumentFormat = "json"
	DocumentCSV  DocumentFormat = "csv"
	DocumentXML  DocumentFormat = "xml"
	DocumentYAML DocumentFormat = "yaml"
	DocumentHTML DocumentFormat = "html"
	DocumentPDF  DocumentFormat = "pdf"
	DocumentDOCX DocumentFormat = "docx"
)

// IsValid checks if the format is one of the supported document formats.
func (f DocumentFormat) IsValid() bool {
	switch f {
	case DocumentTXT, DocumentMD, DocumentJSON, DocumentCSV, DocumentXML,
		DocumentYAML, DocumentHTML, DocumentPDF, DocumentDOCX:
		return true
	default:
		return false
	}
}

// MediaType returns the MIME-style media type for the format
// (e.g., "application/pdf").
func (f DocumentFormat) MediaType() string {
	return "application/" + string(f)
}

// String returns a string representation of the format.
func (f DocumentFormat) String() string {
	return string(f)
}

// Validate checks the block's structural invariants: a valid format and a
// non-empty payload under the size ceiling for binary blocks.
func Validate(b Block) error {
	switch v := b.(type) {
	case Text:
		return nil
	case Image:
		if !v.Format.IsValid() {
			return fmt.Errorf("%w: image format %q", ErrUnsupportedFormat, v.Format)
		}
		if len(v.Data) == 0 {
			return fmt.Errorf("%w: empty image payload", ErrAttachmentLimit)
		}
		if len(v.Data) > MaxImageBytes {
			return fmt.Errorf("%w: image is %d bytes, limit is %d", ErrAttachmentLimit, len(v.Data), MaxImageBytes)
		}
		return nil
	case Document:
		if !v.Format.IsValid() {
			return fmt.Errorf("%w: document format %q", ErrUnsupportedFormat, v.Format)
		}
		if len(v.Data) == 0 {
			return fmt.Errorf("%w: empty document payload", ErrAttachmentLimit)
		}
		if len(v.Data) > MaxDocumentBytes {
			return fmt.Errorf("%w: document %q is %d bytes, limit is %d", ErrAttachmentLimit, v.Name, len(v.Data), MaxDocumentBytes)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown block variant %T", ErrUnsupportedFormat, b)
	}
}
