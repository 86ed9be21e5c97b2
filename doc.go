// Package hicolorgif converts truecolor raster images into animated GIF files
// that approximate 24-bit color by layering successive 8-bit indexed
// sub-images, each carrying its own local color table.
//
// A single conversion builds one histogram of the source colors, splits its
// distinct colors into a sequence of sub-images that together cover the
// image's color set (255 colors plus a transparent slot each, or up to 256
// for a first sub-image that initializes the background), dithers each
// sub-image against its own palette, and emits a byte-exact GIF89a stream.
// Encode does not run a quantizer: sub-image palettes come straight from the
// source's distinct colors, so Config's Quantizer, UsePCA, UseAntRefinement,
// AntIterations and NeuQuantSample do not change its output.
//
// The heavy lifting lives in internal packages (color metrics, quantizers,
// ditherers, the sub-image planner, the frame compositor, LZW, and the GIF
// writer itself); this package wires them together behind Encoder and
// Config.
package hicolorgif
