package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"quadloop/internal/mathutil"
	"quadloop/internal/viewmatrix"
)

func main() {
	eye := flag.String("eye", "0,0,1", "Camera position x,y,z")
	target := flag.String("target", "0,0,0", "Point the camera looks at x,y,z")
	top := flag.String("top", "0,1,0", "Camera up direction x,y,z")
	model := flag.String("model", "0,0,0", "Model translation x,y,z")
	rot := flag.String("rot", "0,0,0", "Model rotation about x,y,z in degrees, applied before the translation")
	fov := flag.Float64("fov", 0, "Vertical field of view in degrees (0: no projection)")
	width := flag.Int("width", 640, "Viewport width for the projection aspect")
	height := flag.Int("height", 360, "Viewport height for the projection aspect")
	near := flag.Float64("near", viewmatrix.DefaultNear, "Near plane")
	far := flag.Float64("far", viewmatrix.DefaultFar, "Far plane")
	flag.Parse()

	var cam viewmatrix.Camera
	var pos, angles mathutil.Vec3
	for _, v := range []struct {
		name string
		in   string
		out  *mathutil.Vec3
	}{
		{"eye", *eye, &cam.Position},
		{"target", *target, &cam.Target},
		{"top", *top, &cam.Top},
		{"model", *model, &pos},
		{"rot", *rot, &angles},
	} {
		vec, err := parseVec3(v.in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: -%s: %v\n", v.name, err)
			os.Exit(1)
		}
		*v.out = vec
	}

	proj := viewmatrix.Projection{Enabled: *fov > 0, FOV: *fov, Near: *near, Far: *far}

	view := cam.ViewMatrix()
	p := proj.Matrix(*width, *height)
	rotation := mathutil.Mat4Mul(mathutil.Mat4Mul(
		mathutil.Mat4RotX(mathutil.Deg2Rad(angles[0])),
		mathutil.Mat4RotY(mathutil.Deg2Rad(angles[1]))),
		mathutil.Mat4RotZ(mathutil.Deg2Rad(angles[2])))
	mv := mathutil.Mat4Mul(mathutil.Mat4Mul(rotation, mathutil.Mat4Translate(pos)), view)

	fmt.Printf("Camera: eye=%v target=%v top=%v\n", cam.Position, cam.Target, cam.Top)
	bad := 0
	bad += dump("View", view)
	if proj.Enabled {
		bad += dump(fmt.Sprintf("Projection (fov %.1f, aspect %d:%d)", *fov, *width, *height), p)
	}
	bad += dump("Model-view", mv)
	bad += dump("Inverse view", view.Inverse())
	fmt.Printf("det(view) = %g\n", view.Det())

	// Where the quad's corners land in clip space
	fmt.Println("Quad corners (clip):")
	for _, c := range [][3]float64{{-1, -1, 0}, {1, -1, 0}, {-1, 1, 0}, {1, 1, 0}} {
		clip := p.MulVec4(mv.MulVec4([4]float64{c[0], c[1], c[2], 1}))
		fmt.Printf("  (%+.0f,%+.0f) -> [%8.4f %8.4f %8.4f %8.4f]\n", c[0], c[1], clip[0], clip[1], clip[2], clip[3])
	}

	if bad > 0 {
		fmt.Printf("\n%d matrices have non-finite elements\n", bad)
		os.Exit(1)
	}
}

// dump prints m row by row in storage order and returns 1 if it is not finite.
func dump(name string, m mathutil.Mat4) int {
	mark := ""
	if !m.IsFinite() {
		mark = "  ** NON-FINITE **"
	}
	fmt.Printf("%s:%s\n", name, mark)
	for r := 0; r < 4; r++ {
		fmt.Printf("  [%10.5f %10.5f %10.5f %10.5f]\n", m[r*4], m[r*4+1], m[r*4+2], m[r*4+3])
	}
	if mark != "" {
		return 1
	}
	return 0
}

func parseVec3(s string) (mathutil.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mathutil.Vec3{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var v mathutil.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return mathutil.Vec3{}, err
		}
		v[i] = f
	}
	return v, nil
}
