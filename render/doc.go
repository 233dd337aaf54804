// Package render rasterises efield frames into images.
//
// A frame is drawn in three layers: the charge shapes, the field arrows on
// top of them, and an optional legend. Geometry is filled with
// golang.org/x/image/vector, so every edge is anti-aliased.
//
// # Coordinate System
//
// Scene coordinates have y pointing up; pixels have y pointing down. A
// Viewport maps one onto the other. When the frame's settings lock the
// aspect ratio, the plot is letterboxed so one scene unit has the same
// length on both axes.
//
// # Usage
//
//	frame, err := scene.BuildFrame(ctx, bounds, vp.Aspect())
//	if err != nil {
//		return err
//	}
//	img, err := render.Image(frame, render.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	return render.EncodePNG(w, img)
//
// Arrow lengths are already in pixels, see efield.Arrows. Disc and annulus
// radii are in scene units and scale with the view.
package render
