package scene

import (
	"testing"

	"github.com/ripplesim/ripple/geom"
)

const (
	testW = 1024.0
	testH = 768.0
)

func TestBuildAllScenes(t *testing.T) {
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			shapes := Build(name, testW, testH)
			if len(shapes) < 4 {
				t.Fatalf("scene %q has %d shapes, want at least the 4 boundary walls", name, len(shapes))
			}
		})
	}
}

func TestBuildUnknownFallsBackToEmpty(t *testing.T) {
	shapes := Build("no-such-scene", testW, testH)
	if len(shapes) != 4 {
		t.Errorf("unknown scene has %d shapes, want 4 boundary walls", len(shapes))
	}
}

// Every scene must be fully fenced: points just outside each screen edge lie
// inside a wall, so neither particles nor grid water can escape.
func TestScenesAreFenced(t *testing.T) {
	probes := []geom.Vec{
		{X: testW / 2, Y: -10},        // above top
		{X: testW / 2, Y: testH + 10}, // below bottom
		{X: -10, Y: testH / 2},        // left
		{X: testW + 10, Y: testH / 2}, // right
	}

	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			shapes := Build(name, testW, testH)
			for _, p := range probes {
				covered := false
				for _, s := range shapes {
					if s.Contains(p) {
						covered = true
						break
					}
				}
				if !covered {
					t.Errorf("scene %q: probe %v not covered by any wall", name, p)
				}
			}
		})
	}
}

func TestBucketHasGlass(t *testing.T) {
	shapes := Build(Bucket, testW, testH)
	glass := 0
	for _, s := range shapes {
		if s.Glass() {
			glass++
		}
	}
	if glass != 3 {
		t.Errorf("bucket scene has %d glass shapes, want 3", glass)
	}
}

func TestShapesStayOnScreenInterior(t *testing.T) {
	// Interior obstacles must not cover the conventional pour point near the
	// top center of the screen, or clicking would never add water.
	pour := geom.Vec{X: testW / 2, Y: 50}
	for _, name := range Names {
		shapes := Build(name, testW, testH)
		for _, s := range shapes {
			if s.Contains(pour) {
				t.Errorf("scene %q: shape covers pour point %v", name, pour)
			}
		}
	}
}
