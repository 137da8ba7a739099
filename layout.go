package bottleclip

// Layout constants. They were tuned by printing tags for the preset bottles
// and are kept as fixed ratios; whether they suit every bottle size is
// untested.
const (
	// Height fractions, in thirteenths of the tag height. The name is
	// centered on a band of textBand; without a logo the band starts at
	// textOffset so the name sits at mid height, with a logo it starts at
	// the bottom edge.
	textBand       = 7.0 / 13
	textOffset     = 3.0 / 13
	nameHeight     = 8.0 / 13
	logoNameHeight = 4.0 / 13

	// inscriptionPad moves the text cylinder just outside the bore.
	inscriptionPad = 0.5

	// clearance is how far text and logo stand proud of the body wall.
	// Letter bottoms print cleanly at 0.7mm.
	clearance = 0.7

	// trimMargin sizes the outer cone of the trimming shell; anything that
	// reaches it is far outside the tag.
	trimMargin = 100.0

	// wedgeRadius is the leg length of the gap wedge. It must exceed the
	// outer radius of every supported bottle.
	wedgeRadius = 50.0

	// wedgeStep bounds the arc between two wedge vertices. The chord of a
	// 30 degree step stays beyond 48mm from the axis.
	wedgeStep = 30.0

	// Logos are drawn in a 50x50 design space and scaled by ht/100, so a
	// logo is half as tall as the tag.
	logoDesignCenter = 25.0
	logoScale        = 1.0 / 100
	logoLift         = 0.1

	// bodyTwist turns the decorated body so the text, set on -Y, faces away
	// from the gap wedge centered on +45 degrees.
	bodyTwist = -45.0
)
