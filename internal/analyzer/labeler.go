package analyzer

// Connectivity selects which neighbours join a blob
type Connectivity int

const (
	FourConnected  Connectivity = 4
	EightConnected Connectivity = 8
)

var (
	fourNeighbours  = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	eightNeighbours = [][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}
)

// LabelOptions controls connected-component labelling
type LabelOptions struct {
	Connectivity Connectivity
	// Blobs with fewer pixels are discarded
	MinPixels int
	// A fill stops growing once it holds MaxPixels; zero means unbounded.
	// Pixels that were queued but not collected stay available as seeds.
	MaxPixels int
	// Seeds are tried at every SeedStep-th pixel in both axes
	SeedStep int
}

// Blob is one connected component. Its pixels live in the owning BlobSet.
type Blob struct {
	start, end int
	Box        BoundingBox
}

// Count returns the number of pixels in the blob
func (b Blob) Count() int {
	return b.end - b.start
}

// Density is pixels per bounding-box area
func (b Blob) Density() float64 {
	return float64(b.Count()) / float64(b.Box.Area())
}

// BlobSet stores every kept blob's pixel indices in a single flat buffer
type BlobSet struct {
	Width  int
	Blobs  []Blob
	points []int
}

// Len returns the number of kept blobs
func (s *BlobSet) Len() int {
	return len(s.Blobs)
}

// Points returns the flat pixel indices (y*Width+x) of b
func (s *BlobSet) Points(b Blob) []int {
	return s.points[b.start:b.end]
}

// LabelComponents flood-fills every set pixel of the mask reachable from a
// seed, scanning seeds in row-major order
func LabelComponents(mask Mask, opts LabelOptions) *BlobSet {
	set := &BlobSet{Width: mask.Width}
	if mask.Width == 0 || mask.Height == 0 {
		return set
	}

	step := opts.SeedStep
	if step <= 0 {
		step = 1
	}
	neighbours := eightNeighbours
	if opts.Connectivity == FourConnected {
		neighbours = fourNeighbours
	}

	w, h := mask.Width, mask.Height
	visited := make([]bool, w*h)
	set.points = make([]int, 0, mask.Count())
	stack := make([]int, 0, 256)

	for y := 0; y < h; y += step {
		for x := 0; x < w; x += step {
			seed := y*w + x
			if visited[seed] || !mask.Bits[seed] {
				continue
			}

			start := len(set.points)
			box := BoundingBox{X0: x, Y0: y, X1: x, Y1: y}
			stack = append(stack[:0], seed)

			for len(stack) > 0 {
				if opts.MaxPixels > 0 && len(set.points)-start >= opts.MaxPixels {
					break
				}
				idx := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if visited[idx] {
					continue
				}
				visited[idx] = true
				set.points = append(set.points, idx)

				px, py := idx%w, idx/w
				box.X0 = min(box.X0, px)
				box.X1 = max(box.X1, px)
				box.Y0 = min(box.Y0, py)
				box.Y1 = max(box.Y1, py)

				for _, d := range neighbours {
					nx, ny := px+d[0], py+d[1]
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					n := ny*w + nx
					if !visited[n] && mask.Bits[n] {
						stack = append(stack, n)
					}
				}
			}

			if len(set.points)-start < opts.MinPixels {
				// Rewind the arena; the pixels stay visited
				set.points = set.points[:start]
				continue
			}
			set.Blobs = append(set.Blobs, Blob{start: start, end: len(set.points), Box: box})
		}
	}

	return set
}
