package field

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// Speed derives the wind speed magnitude sqrt(u²+v²+w²) cell by cell.
func Speed(u, v, w *sparse.DenseArray) (*sparse.DenseArray, error) {
	if !sameShape(u, v) || !sameShape(u, w) {
		return nil, fmt.Errorf("%w: wind components have shapes %v, %v, %v", ErrShape, u.Shape, v.Shape, w.Shape)
	}
	speed := sparse.ZerosDense(u.Shape...)
	for i := range u.Elements {
		uu, vv, ww := u.Elements[i], v.Elements[i], w.Elements[i]
		speed.Elements[i] = math.Sqrt(uu*uu + vv*vv + ww*ww)
	}
	return speed, nil
}

func sameShape(a, b *sparse.DenseArray) bool {
	if len(a.Shape) != len(b.Shape) {
		return false
	}
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] {
			return false
		}
	}
	return true
}
