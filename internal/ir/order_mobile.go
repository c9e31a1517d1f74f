//go:build android || ios

package ir

// NativeOrder is RGBA on mobile platforms.
const NativeOrder = OrderRGBA
