// Package solid evaluates shape trees natively by point membership.
//
// Compile turns a lowered tree (see the resolve package) into a Solid that
// answers whether a point lies inside the model and which material tag it
// carries there. Everything else in the package is built on sampling:
// volumes, angular spans around the axis, connected components, and colored
// PNG slices for previews.
//
// Sampling is approximate by nature. It is meant for checks and previews,
// not for producing printable meshes; use the scad or openscad packages for
// that.
package solid
