// Package imageprocessor turns one source image into one thumbnail:
// decode, fit-within resize, encode and write under a mirrored output tree.
package imageprocessor
