package livekit

// ScaleMode defines how a VideoSource resamples frames whose size differs
// from the source resolution.
type ScaleMode int

const (
	// ScaleModeNone passes frames through at their own size.
	ScaleModeNone ScaleMode = iota
	// ScaleModeFit scales to fit within the target, preserving aspect ratio (letterboxed).
	ScaleModeFit
	// ScaleModeFill scales to fill the target, preserving aspect ratio (cropped).
	ScaleModeFill
	// ScaleModeStretch scales to exactly match the target (may distort).
	ScaleModeStretch
)

func (m ScaleMode) String() string {
	switch m {
	case ScaleModeNone:
		return "None"
	case ScaleModeFit:
		return "Fit"
	case ScaleModeFill:
		return "Fill"
	case ScaleModeStretch:
		return "Stretch"
	default:
		return "Unknown"
	}
}

// frameScaler resamples I420 frames to a fixed size. The output frame is
// reused by the next call.
type frameScaler struct {
	width, height int
	mode          ScaleMode
	out           *VideoFrame
}

func newFrameScaler(width, height int, mode ScaleMode) *frameScaler {
	return &frameScaler{
		width:  width,
		height: height,
		mode:   mode,
		out:    NewI420Frame(width, height),
	}
}

// scale returns f unchanged when it already has the target size.
func (s *frameScaler) scale(f *VideoFrame) *VideoFrame {
	if f.Width == s.width && f.Height == s.height {
		return f
	}

	// Source and destination rectangles in luma pixels.
	sx, sy, sw, sh := 0, 0, f.Width, f.Height
	dx, dy, dw, dh := 0, 0, s.width, s.height

	switch s.mode {
	case ScaleModeFit:
		dw, dh = fitSize(f.Width, f.Height, s.width, s.height)
		dx = ((s.width - dw) / 2) &^ 1
		dy = ((s.height - dh) / 2) &^ 1
		fill(s.out.Data[0], 16)
		fill(s.out.Data[1], 128)
		fill(s.out.Data[2], 128)
	case ScaleModeFill:
		sx, sy, sw, sh = cropRegion(f.Width, f.Height, s.width, s.height)
	}

	w := s.width
	scalePlane(f.Data[0], f.Stride[0], sx, sy, sw, sh,
		s.out.Data[0][dy*w+dx:], w, dw, dh)
	scalePlane(f.Data[1], f.Stride[1], sx/2, sy/2, sw/2, sh/2,
		s.out.Data[1][(dy/2)*(w/2)+dx/2:], w/2, dw/2, dh/2)
	scalePlane(f.Data[2], f.Stride[2], sx/2, sy/2, sw/2, sh/2,
		s.out.Data[2][(dy/2)*(w/2)+dx/2:], w/2, dw/2, dh/2)

	s.out.Timestamp = f.Timestamp
	s.out.Rotation = f.Rotation
	return s.out
}

// fitSize returns the largest even size with the source aspect ratio that
// fits within maxW x maxH.
func fitSize(srcW, srcH, maxW, maxH int) (w, h int) {
	if srcW*maxH > srcH*maxW {
		// Source is wider, fit to width
		w = maxW
		h = maxW * srcH / srcW
	} else {
		// Source is taller, fit to height
		h = maxH
		w = maxH * srcW / srcH
	}
	return max(w&^1, 2), max(h&^1, 2)
}

// cropRegion returns the centered source region with the target aspect
// ratio.
func cropRegion(srcW, srcH, dstW, dstH int) (x, y, w, h int) {
	switch {
	case srcW*dstH > srcH*dstW:
		// Source is wider, crop horizontally
		w = (srcH * dstW / dstH) &^ 1
		return ((srcW - w) / 2) &^ 1, 0, w, srcH
	case srcW*dstH < srcH*dstW:
		// Source is taller, crop vertically
		h = (srcW * dstH / dstW) &^ 1
		return 0, ((srcH - h) / 2) &^ 1, srcW, h
	default:
		return 0, 0, srcW, srcH
	}
}

// scalePlane resamples one plane using bilinear interpolation in 16.16
// fixed point.
func scalePlane(src []byte, srcStride, srcX, srcY, srcW, srcH int,
	dst []byte, dstStride, dstW, dstH int) {

	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return
	}

	xRatio := (srcW << 16) / dstW
	yRatio := (srcH << 16) / dstH

	for y := 0; y < dstH; y++ {
		srcYFP := y * yRatio
		yFrac := srcYFP & 0xFFFF
		y0 := srcYFP>>16 + srcY
		y1 := y0 + 1
		if y1 >= srcY+srcH {
			y1 = y0
		}
		row0 := src[y0*srcStride:]
		row1 := src[y1*srcStride:]
		out := dst[y*dstStride:]

		for x := 0; x < dstW; x++ {
			srcXFP := x * xRatio
			xFrac := srcXFP & 0xFFFF
			x0 := srcXFP>>16 + srcX
			x1 := x0 + 1
			if x1 >= srcX+srcW {
				x1 = x0
			}

			top := (int(row0[x0])*(0x10000-xFrac) + int(row0[x1])*xFrac) >> 16
			bottom := (int(row1[x0])*(0x10000-xFrac) + int(row1[x1])*xFrac) >> 16
			out[x] = byte((top*(0x10000-yFrac) + bottom*yFrac) >> 16)
		}
	}
}
