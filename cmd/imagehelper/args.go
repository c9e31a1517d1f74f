package main

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/duanzhengbing/parseProtobufFile/internal/pipeline"
)

// parseInts splits a comma-separated list of exactly n integers.
func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("%q: want %d comma-separated integers", s, n)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

// parseRect reads "top,left,right,bottom".
func parseRect(s string, roll int) (pipeline.Rect, error) {
	v, err := parseInts(s, 4)
	if err != nil {
		return pipeline.Rect{}, fmt.Errorf("rect %w", err)
	}
	return pipeline.Rect{Top: v[0], Left: v[1], Right: v[2], Bottom: v[3], Roll: roll}, nil
}

// parsePoint reads "x,y".
func parsePoint(s string) (image.Point, error) {
	v, err := parseInts(s, 2)
	if err != nil {
		return image.Point{}, fmt.Errorf("point %w", err)
	}
	return image.Pt(v[0], v[1]), nil
}
