//go:build !android && !ios

package ir

// NativeOrder is BGRA on desktop platforms, matching OpenCV and GDI+.
const NativeOrder = OrderBGRA
