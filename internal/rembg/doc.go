// Package rembg removes image backgrounds with a U2-Net style salient object
// segmentation model run through ONNX Runtime.
//
// The model sees the image resized to its input resolution (320x320 for the
// published rembg models). Its first output is a saliency map that is min-max
// normalized, resized back to the source dimensions and applied as the alpha
// channel of the result.
package rembg
