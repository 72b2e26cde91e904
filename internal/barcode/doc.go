// Package barcode decodes QR symbols from rasters.
//
// It is used to check that a generated symbol still reads back after an icon
// has been embedded. Decoding is backed by github.com/makiuchi-d/gozxing.
package barcode
