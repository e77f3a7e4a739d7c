package willcrypt

import (
	"github.com/holiman/uint256"
)

// Point is a point on the secp256k1 curve: either an affine (x, y) pair
// satisfying y^2 = x^3 + 7 or the point at infinity. The zero value is the
// point at infinity, so an invalid "infinity with coordinates" state is not
// representable. Points are immutable values; every operation returns a new
// point.
type Point struct {
	x, y   FieldElement
	affine bool
}

// generator is the secp256k1 base point G.
var generator = Point{
	x:      FieldElement{n: *uint256.MustFromHex("0x79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")},
	y:      FieldElement{n: *uint256.MustFromHex("0x483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8")},
	affine: true,
}

// Infinity returns the identity element.
func Infinity() Point { return Point{} }

// Generator returns the base point G.
func Generator() Point { return generator }

// NewPoint builds an affine point, rejecting coordinates that do not satisfy
// the curve equation.
func NewPoint(x, y FieldElement) (Point, error) {
	if !isOnCurve(x, y) {
		return Point{}, errDomainf("point (x, y) is not on the secp256k1 curve")
	}
	return Point{x: x, y: y, affine: true}, nil
}

// isOnCurve checks y^2 = x^3 + 7 mod p.
func isOnCurve(x, y FieldElement) bool {
	lhs := y.Square()
	rhs := x.Square().Mul(x).Add(FieldElement{n: *curveB})
	return lhs.Equal(rhs)
}

// IsInfinity reports whether the point is the identity.
func (p Point) IsInfinity() bool { return !p.affine }

// Coords returns the affine coordinates; ok is false for infinity.
func (p Point) Coords() (x, y FieldElement, ok bool) {
	return p.x, p.y, p.affine
}

// Equal reports whether two points are the same group element.
func (p Point) Equal(q Point) bool {
	if p.affine != q.affine {
		return false
	}
	if !p.affine {
		return true
	}
	return p.x.Equal(q.x) && p.y.Equal(q.y)
}

// Neg returns the point mirrored over the x axis.
func (p Point) Neg() Point {
	if !p.affine {
		return p
	}
	return Point{x: p.x, y: p.y.Neg(), affine: true}
}

// Add returns p+q using the short-Weierstrass chord rule. The identity
// cases are handled explicitly: either operand infinite, equal x with
// opposite y (vertical chord), and p == q (tangent rule via Double).
func (p Point) Add(q Point) Point {
	if !p.affine {
		return q
	}
	if !q.affine {
		return p
	}
	if p.x.Equal(q.x) {
		if p.y.Equal(q.y) {
			return p.Double()
		}
		// x1 == x2, y1 == -y2: the chord is vertical.
		return Point{}
	}

	// lambda = (y2 - y1) / (x2 - x1)
	lambda := q.y.Sub(p.y).Mul(q.x.Sub(p.x).Inv())
	x3 := lambda.Square().Sub(p.x).Sub(q.x)
	y3 := lambda.Mul(p.x.Sub(x3)).Sub(p.y)
	return Point{x: x3, y: y3, affine: true}
}

// Double returns 2p using the tangent rule.
func (p Point) Double() Point {
	if !p.affine {
		return p
	}
	if p.y.IsZero() {
		// The tangent is vertical. No secp256k1 point has y == 0, but
		// the identity case belongs to the formula.
		return Point{}
	}

	// lambda = 3*x^2 / (2*y); the curve's a coefficient is zero.
	three := feFromUint(3)
	two := feFromUint(2)
	lambda := three.Mul(p.x.Square()).Mul(two.Mul(p.y).Inv())
	x3 := lambda.Square().Sub(p.x).Sub(p.x)
	y3 := lambda.Mul(p.x.Sub(x3)).Sub(p.y)
	return Point{x: x3, y: y3, affine: true}
}

// ScalarMult returns k*p by double-and-add over the binary expansion of k,
// most significant bit first. k = 0 yields infinity.
func (p Point) ScalarMult(k Scalar) Point {
	acc := Point{}
	for i := k.d.BitLen() - 1; i >= 0; i-- {
		acc = acc.Double()
		if bit(&k.d, i) == 1 {
			acc = acc.Add(p)
		}
	}
	return acc
}

// ScalarBaseMult returns k*G.
func ScalarBaseMult(k Scalar) Point {
	return generator.ScalarMult(k)
}
