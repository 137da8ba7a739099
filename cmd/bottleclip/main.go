// Command bottleclip generates clip-on bottle name tags.
//
// Usage:
//
//	bottleclip scad --name Ada > ada.scad
//	bottleclip export --name Ada --out out
//	bottleclip export --job names.yaml
//	bottleclip preview --name Ada -o ada.png
//	bottleclip presets
//	bottleclip serve --addr :8080
//	bottleclip watch names.yaml
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
