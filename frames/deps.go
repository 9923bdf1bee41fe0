package frames

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Dependencies reports whether the extractor can run on this host.
type Dependencies struct {
	Installed bool     `json:"installed"`
	Missing   []string `json:"missing"`
}

type dependencyCheck struct {
	display string
	name    string
	args    []string
}

var dependencyChecks = []dependencyCheck{
	{"Python", "python", []string{"--version"}},
	{"yt-dlp", "yt-dlp", []string{"--version"}},
	{"ffmpeg", "ffmpeg", []string{"-version"}},
	{"Python package: ultralytics", "python", []string{"-c", "import ultralytics"}},
	{"Python package: imagehash", "python", []string{"-c", "import imagehash"}},
	{"Python package: opencv-python", "python", []string{"-c", "import cv2"}},
	{"Python package: Pillow", "python", []string{"-c", "import PIL"}},
}

// CheckDependencies probes the interpreter, yt-dlp, ffmpeg and the python
// packages the script imports.
func (e *Extractor) CheckDependencies(ctx context.Context) Dependencies {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	failed := make([]bool, len(dependencyChecks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, c := range dependencyChecks {
		g.Go(func() error {
			failed[i] = e.runner.Check(gctx, c.name, c.args...) != nil
			return nil
		})
	}
	_ = g.Wait()

	deps := Dependencies{Missing: []string{}}
	for i, c := range dependencyChecks {
		if failed[i] {
			deps.Missing = append(deps.Missing, c.display)
		}
	}
	deps.Installed = len(deps.Missing) == 0
	return deps
}
