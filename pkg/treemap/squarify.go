package treemap

import "math"

// phi is the aspect ratio squarify aims for.
var phi = (1 + math.Sqrt(5)) / 2

// squarify tiles parent's children into rows inside the given rectangle,
// keeping the input order. Each row grows while its worst aspect ratio
// improves, then takes a strip of the remaining space proportional to its
// weight.
func squarify(parent *Node, x0, y0, x1, y1 float64) {
	nodes := parent.Children
	n := len(nodes)
	value := parent.Value

	for i0, i1 := 0, 0; i0 < n; i0 = i1 {
		dx, dy := x1-x0, y1-y0

		// Nothing left to weigh: the rest collapse onto the current edge.
		if value <= 0 {
			for _, node := range nodes[i0:] {
				node.X0, node.Y0, node.X1, node.Y1 = x0, y0, x0, y1
			}
			return
		}

		// Skip to the next node with weight.
		var sum float64
		for {
			sum = nodes[i1].Value
			i1++
			if sum != 0 || i1 >= n {
				break
			}
		}
		minV, maxV := sum, sum
		alpha := math.Max(dy/dx, dx/dy) / (value * phi)
		beta := sum * sum * alpha
		minRatio := math.Max(maxV/beta, beta/minV)

		for ; i1 < n; i1++ {
			v := nodes[i1].Value
			sum += v
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
			beta = sum * sum * alpha
			ratio := math.Max(maxV/beta, beta/minV)
			if ratio > minRatio {
				sum -= v
				break
			}
			minRatio = ratio
		}

		row := nodes[i0:i1]
		if dx < dy {
			// Horizontal strip across the top.
			top, bottom := y0, y1
			if dy != 0 {
				y0 += dy * sum / value
				bottom = y0
			}
			dice(row, sum, x0, top, x1, bottom)
		} else {
			// Vertical strip down the left side.
			left, right := x0, x1
			if dx != 0 {
				x0 += dx * sum / value
				right = x0
			}
			slice(row, sum, left, y0, right, y1)
		}
		value -= sum
	}
}

// dice lays nodes out left to right, widths proportional to weight.
func dice(nodes []*Node, total, x0, y0, x1, y1 float64) {
	var k float64
	if total != 0 {
		k = (x1 - x0) / total
	}
	for _, node := range nodes {
		node.Y0, node.Y1 = y0, y1
		node.X0 = x0
		x0 += node.Value * k
		node.X1 = x0
	}
}

// slice lays nodes out top to bottom, heights proportional to weight.
func slice(nodes []*Node, total, x0, y0, x1, y1 float64) {
	var k float64
	if total != 0 {
		k = (y1 - y0) / total
	}
	for _, node := range nodes {
		node.X0, node.X1 = x0, x1
		node.Y0 = y0
		y0 += node.Value * k
		node.Y1 = y0
	}
}
