package mathutil

import (
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-9

func randomMat4(rng *rand.Rand) Mat4 {
	var m Mat4
	for i := range m {
		m[i] = rng.Float64()*4 - 2
	}
	return m
}

func TestMat4MulIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		m := randomMat4(rng)
		if got := Mat4Mul(Mat4Identity(), m); got != m {
			t.Fatalf("identity*m = %v, want %v", got, m)
		}
		if got := Mat4Mul(m, Mat4Identity()); got != m {
			t.Fatalf("m*identity = %v, want %v", got, m)
		}
	}
}

func TestMat4MulElementFormula(t *testing.T) {
	var a, b Mat4
	for i := range a {
		a[i] = float64(i + 1)
		b[i] = float64(16 - i)
	}
	got := Mat4Mul(a, b)
	// dest[1] = a11*b12 + a12*b22 + a13*b32 + a14*b42
	want1 := a[0]*b[1] + a[1]*b[5] + a[2]*b[9] + a[3]*b[13]
	if got[1] != want1 {
		t.Errorf("dest[1] = %v, want %v", got[1], want1)
	}
	want14 := a[12]*b[2] + a[13]*b[6] + a[14]*b[10] + a[15]*b[14]
	if got[14] != want14 {
		t.Errorf("dest[14] = %v, want %v", got[14], want14)
	}
}

func TestMat4MulComposesModelThenView(t *testing.T) {
	model := Mat4Translate(Vec3{1, 0, 0})
	view := Mat4RotZ(math.Pi / 2)
	p := Mat4Mul(model, view).MulPoint(Vec3{})
	want := view.MulPoint(model.MulPoint(Vec3{}))
	for k := 0; k < 3; k++ {
		if math.Abs(p[k]-want[k]) > eps {
			t.Fatalf("model-view of origin = %v, want %v", p, want)
		}
	}
}

func TestMat4InverseRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	checked := 0
	for checked < 200 {
		m := randomMat4(rng)
		if math.Abs(m.Det()) < 0.1 {
			continue
		}
		checked++
		inv := m.Inverse()
		if got := Mat4Mul(inv, m); !got.ApproxEqual(Mat4Identity(), 1e-6) {
			t.Fatalf("inverse(m)*m = %v, want identity (m=%v)", got, m)
		}
		if got := Mat4Mul(m, inv); !got.ApproxEqual(Mat4Identity(), 1e-6) {
			t.Fatalf("m*inverse(m) = %v, want identity (m=%v)", got, m)
		}
	}
}

func TestMat4InverseKnown(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		want Mat4
	}{
		{"identity", Mat4Identity(), Mat4Identity()},
		{"translate", Mat4Translate(Vec3{1, 2, 3}), Mat4Translate(Vec3{-1, -2, -3})},
		{"scale", Mat4Scale(Vec3{2, 4, 8}), Mat4Scale(Vec3{0.5, 0.25, 0.125})},
		{"rotate z", Mat4RotZ(0.3), Mat4RotZ(-0.3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Inverse(); !got.ApproxEqual(tt.want, eps) {
				t.Errorf("Inverse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMat4InverseSingular(t *testing.T) {
	m := Mat4Scale(Vec3{1, 0, 1})
	if m.Det() != 0 {
		t.Fatalf("Det() = %v, want 0", m.Det())
	}
	if m.Inverse().IsFinite() {
		t.Errorf("inverse of singular matrix is finite")
	}
}

func TestMat4Det(t *testing.T) {
	if d := Mat4Scale(Vec3{2, 3, 4}).Det(); d != 24 {
		t.Errorf("Det(scale 2,3,4) = %v, want 24", d)
	}
	if d := Mat4RotY(1.1).Det(); math.Abs(d-1) > eps {
		t.Errorf("Det(rotation) = %v, want 1", d)
	}
}

func TestMat4RotZ(t *testing.T) {
	if got := Mat4RotZ(0); got != Mat4Identity() {
		t.Errorf("RotZ(0) = %v, want identity", got)
	}
	for _, theta := range []float64{0.1, 1, math.Pi / 3, math.Pi, -2.5, 7} {
		got := Mat4Mul(Mat4RotZ(theta), Mat4RotZ(-theta))
		if !got.ApproxEqual(Mat4Identity(), eps) {
			t.Errorf("RotZ(%v)*RotZ(%v) = %v, want identity", theta, -theta, got)
		}
	}
}

func TestMat4RotationSigns(t *testing.T) {
	s := math.Sin(0.5)
	tests := []struct {
		name       string
		m          Mat4
		plus, minu int
	}{
		{"x", Mat4RotX(0.5), 6, 9},
		{"y", Mat4RotY(0.5), 8, 2},
		{"z", Mat4RotZ(0.5), 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.m[tt.plus] != s {
				t.Errorf("m[%d] = %v, want +sin %v", tt.plus, tt.m[tt.plus], s)
			}
			if tt.m[tt.minu] != -s {
				t.Errorf("m[%d] = %v, want -sin %v", tt.minu, tt.m[tt.minu], -s)
			}
		})
	}
}

func TestMat4TranslateOrigin(t *testing.T) {
	vs := []Vec3{{1, 2, 3}, {-0.5, 1e6, -7.25}, {0, 0, 0}}
	for _, v := range vs {
		if got := Mat4Translate(v).MulPoint(Vec3{}); got != v {
			t.Errorf("Translate(%v) of origin = %v", v, got)
		}
	}
}

func TestMat4Scale(t *testing.T) {
	got := Mat4Scale(Vec3{2, 3, 4}).MulPoint(Vec3{1, 1, 1})
	if got != (Vec3{2, 3, 4}) {
		t.Errorf("Scale applied to (1,1,1) = %v", got)
	}
	if m := Mat4Scale(Vec3{2, 3, 4}); m[15] != 1 {
		t.Errorf("m[15] = %v, want 1", m[15])
	}
}

func TestMat4LookAtDefaultCamera(t *testing.T) {
	got := Mat4LookAt(Vec3{0, 0, 1}, Vec3{0, 0, 0}, Vec3{0, 1, 0})
	want := Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, -1, 1,
	}
	if got != want {
		t.Errorf("LookAt = %v, want %v", got, want)
	}
}

func TestMat4LookAtScaleInvariant(t *testing.T) {
	eye := Vec3{1, 2, 3}
	forward := Vec3{0.3, -0.2, -1}
	up := Vec3{0, 1, 0}
	base := Mat4LookAt(eye, eye.Add(forward), up)
	for _, k := range []float64{0.01, 0.5, 2, 10, 1000} {
		got := Mat4LookAt(eye, eye.Add(forward.Scale(k)), up)
		if !got.ApproxEqual(base, 1e-9) {
			t.Errorf("k=%v: LookAt = %v, want %v", k, got, base)
		}
	}
}

func TestMat4LookAtDegenerate(t *testing.T) {
	tests := []struct {
		name            string
		eye, target, up Vec3
	}{
		{"eye equals target", Vec3{1, 1, 1}, Vec3{1, 1, 1}, Vec3{0, 1, 0}},
		{"up parallel to forward", Vec3{0, 0, 1}, Vec3{0, 0, 0}, Vec3{0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Mat4LookAt(tt.eye, tt.target, tt.up).IsFinite() {
				t.Errorf("LookAt(%v, %v, %v) is finite", tt.eye, tt.target, tt.up)
			}
		})
	}
}

func TestMat4Perspective(t *testing.T) {
	m := Mat4Perspective(90, 1.0, 0.1, 100)
	if m[0] != m[5] {
		t.Errorf("m[0] = %v, m[5] = %v, want equal", m[0], m[5])
	}
	if math.Abs(m[0]-1) > eps {
		t.Errorf("m[0] = %v, want 1", m[0])
	}
	if math.Abs(m[10]-(-100/99.9)) > eps {
		t.Errorf("m[10] = %v, want %v", m[10], -100/99.9)
	}
	if m[11] != -1 {
		t.Errorf("m[11] = %v, want -1", m[11])
	}
	if math.Abs(m[14]-(-10/99.9)) > eps {
		t.Errorf("m[14] = %v, want %v", m[14], -10/99.9)
	}
	if m[15] != 0 {
		t.Errorf("m[15] = %v, want 0", m[15])
	}
}

func TestMat4PerspectiveAspect(t *testing.T) {
	m := Mat4Perspective(60, 2, 1, 10)
	if math.Abs(m[0]*2-m[5]) > eps {
		t.Errorf("m[0] = %v, m[5] = %v: want m[5] = 2*m[0]", m[0], m[5])
	}
}

func TestMat4Transpose(t *testing.T) {
	m := Mat4Translate(Vec3{1, 2, 3})
	if got := m.Transpose().Transpose(); got != m {
		t.Errorf("double transpose = %v", got)
	}
	if tr := m.Transpose(); tr[3] != 1 || tr[7] != 2 || tr[11] != 3 {
		t.Errorf("transpose = %v", tr)
	}
}
