package geom

import (
	"math"
	"testing"
)

func matrixNear(a, b *Matrix4, eps float32) bool {
	for i := range a {
		if Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestAxisRotationMatrix(t *testing.T) {
	const eps = 0.000001

	for i, c := range []struct {
		axis    int
		v, want Vector3
	}{
		{0, Vector3{0, 1, 0}, Vector3{0, 0, 1}},
		{1, Vector3{0, 0, 1}, Vector3{1, 0, 0}},
		{1, Vector3{1, 0, 0}, Vector3{0, 0, -1}},
		{2, Vector3{1, 0, 0}, Vector3{0, 1, 0}},
	} {
		got := NewAxisRotationMatrix4(c.axis, math.Pi/2).ApplyTo(&c.v)
		if got.Sub(&c.want).Len() > eps {
			t.Error("rotation: ", i, got, c.want)
		}
		q := NewAxisRotationQuaternion(c.axis, math.Pi/2)
		if !matrixNear(NewRotationMatrix4FromQuaternion(q), NewAxisRotationMatrix4(c.axis, math.Pi/2), eps) {
			t.Error("quaternion matrix: ", i, q)
		}
	}
}

func TestMatrixMul(t *testing.T) {
	const eps = 0.000001

	tr := NewTranslateMatrix4(1, 2, 3)
	rot := NewAxisRotationMatrix4(2, math.Pi/2)

	// rotate first, then translate
	v := tr.Mul(rot).ApplyTo(NewVector3(1, 0, 0))
	if v.Sub(NewVector3(1, 3, 3)).Len() > eps {
		t.Error("T*R: ", v)
	}
	v = rot.Mul(tr).ApplyTo(NewVector3(1, 0, 0))
	if v.Sub(NewVector3(-2, 2, 3)).Len() > eps {
		t.Error("R*T: ", v)
	}

	if *NewMatrix4().Mul(tr) != *tr {
		t.Error("identity: ", NewMatrix4().Mul(tr))
	}
	if *tr.Translation() != *NewVector3(1, 2, 3) {
		t.Error("Translation(): ", tr.Translation())
	}
}
