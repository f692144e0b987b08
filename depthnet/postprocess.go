package depthnet

// Normalize rescales a raw depth buffer to [0,1] using the global min/max
// over the buffer. A constant buffer (max == min) normalizes to all zeros:
// the range is treated as 1 to avoid division by zero. The raw model output
// is "relative depth" and is not bounded, so this runs on every inference
// result before it is used as a displacement field.
func Normalize(raw []float32) []float32 {
	out := make([]float32, len(raw))
	if len(raw) == 0 {
		return out
	}
	minV := raw[0]
	maxV := raw[0]
	for _, v := range raw {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	den := maxV - minV
	if den == 0 {
		den = 1
	}
	for i, v := range raw {
		out[i] = (v - minV) / den
	}
	return out
}

// Smooth3x3 applies one pass of an edge-clipped 3x3 box mean over a depth
// buffer of the given dimensions. Each output cell is the mean of itself and
// its in-bounds neighbors, so the divisor is 4 at a corner, 6 on an edge and
// 9 in the interior. A single pass is enough to keep per-pixel inference
// noise from showing up as banding in the displacement field.
func Smooth3x3(depth []float32, w, h int) []float32 {
	out := make([]float32, len(depth))
	if w <= 0 || h <= 0 || len(depth) != w*h {
		copy(out, depth)
		return out
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float32
			count := 0
			for dy := -1; dy <= 1; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					sum += depth[yy*w+xx]
					count++
				}
			}
			out[y*w+x] = sum / float32(count)
		}
	}
	return out
}
