// Package content defines the content blocks that make up conversation
// messages, and the codec that turns local files into blocks.
//
// A message carries an ordered sequence of blocks. Three block variants
// exist:
//
//   - Text: plain text
//   - Image: a binary image payload (jpeg, png, gif, webp)
//   - Document: a named binary document payload (txt, md, json, csv, xml,
//     yaml, html, pdf, docx)
//
// Block is a closed discriminated union: only the variants in this package
// implement it, so consumers can switch exhaustively without a default
// fallback silently dropping data.
//
// # Encoding Files
//
// EncodeImage and EncodeDocument read a file, infer its format from the
// extension, and validate size ceilings before any payload leaves the
// process:
//
//	img, err := content.EncodeImage("chart.png")
//	doc, err := content.EncodeDocument("report.pdf")
//
// Documents are limited to 4.5 MB per file and 5 files per message; images
// to the 5 MB protocol ceiling. Violations return ErrAttachmentLimit, and
// unrecognized extensions return ErrUnsupportedFormat.
package content
