package geom

import (
	"math"
	"testing"
)

func TestQuaternion(t *testing.T) {
	const eps = 0.000001

	{
		q := NewQuaternion(0, 0, 0, 1)
		v1 := NewVector3(1, 2, 3)
		v2 := q.ApplyTo(v1)
		if v2.Sub(v1).Len() > eps {
			t.Error("v1 != v2: ", v1, v2)
		}
	}

	{
		q := NewAxisRotationQuaternion(0, 2*math.Pi)
		v1 := NewVector3(1, 2, 3)
		v2 := q.ApplyTo(v1)
		if v2.Sub(v1).Len() > eps {
			t.Error("v1 != v2: ", v1, v2)
		}
	}

	{
		q := NewAxisRotationQuaternion(0, math.Pi)
		q = q.Mul(q)
		v1 := NewVector3(1, 2, 3)
		v2 := q.ApplyTo(v1)
		if v2.Sub(v1).Len() > eps {
			t.Error("v1 != v2: ", v1, v2)
		}
	}

	{
		q := NewAxisRotationQuaternion(1, 2).Mul(NewAxisRotationQuaternion(2, 3))
		q = q.Mul(q.Inverse())
		v1 := NewVector3(1, 2, 3)
		v2 := q.ApplyTo(v1)
		if v2.Sub(v1).Len() > eps {
			t.Error("v1 != v2: ", v1, v2)
		}
	}
}

func TestQuaternionOrder(t *testing.T) {
	const eps = 0.00001

	qz := NewAxisRotationQuaternion(2, 0.3)
	qx := NewAxisRotationQuaternion(0, 0.5)
	qy := NewAxisRotationQuaternion(1, 0.7)
	q := qz.Mul(qx).Mul(qy)

	m := NewAxisRotationMatrix4(2, 0.3).Mul(NewAxisRotationMatrix4(0, 0.5)).Mul(NewAxisRotationMatrix4(1, 0.7))
	if !matrixNear(NewRotationMatrix4FromQuaternion(q), m, eps) {
		t.Error("q != m: ", NewRotationMatrix4FromQuaternion(q), m)
	}
	if Abs(q.Len()-1) > eps {
		t.Error("Quaternion.Len() != 1", q)
	}
}
