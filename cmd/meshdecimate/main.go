// Command meshdecimate loads an OBJ mesh, simplifies it with
// meshsimplify, and writes the result back out as OBJ.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mirstar13/meshsimplify"
	"github.com/mirstar13/meshsimplify/objio"
)

func main() {
	in := flag.String("in", "", "input OBJ path (required)")
	out := flag.String("out", "", "output OBJ path (required)")
	target := flag.Int("target", 0, "target triangle count (ignored with -lossless)")
	lossless := flag.Bool("lossless", false, "run lossless decimation instead of target-count decimation")
	aggressiveness := flag.Float64("aggressiveness", 7.0, "error-threshold growth exponent")
	preserveBorders := flag.Bool("preserve-borders", false, "never collapse a border edge")
	smartLink := flag.Bool("smart-link", true, "merge coincident border vertices before simplifying")
	verbose := flag.Bool("verbose", false, "log per-pass progress")
	flag.Parse()

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: meshdecimate -in mesh.obj -out simplified.obj [-target N | -lossless]")
		os.Exit(2)
	}

	mesh, mats, err := objio.ReadFile(*in)
	if err != nil {
		fatal("read", err)
	}

	engine := meshsimplify.New()
	opts := meshsimplify.DefaultOptions()
	opts.Aggressiveness = *aggressiveness
	opts.PreserveBorders = *preserveBorders
	opts.EnableSmartLink = *smartLink
	opts.Verbose = *verbose
	if err := engine.Configure(opts); err != nil {
		fatal("configure", err)
	}

	if *verbose {
		engine.OnProgress(func(ev meshsimplify.ProgressEvent) {
			fmt.Fprintf(os.Stderr, "pass %d: %d/%d triangles\n", ev.Iteration, ev.CurrentTriangles, ev.OriginalTriangles)
		})
	}

	if err := engine.Initialize(mesh); err != nil {
		fatal("initialize", err)
	}

	start := time.Now()
	if *lossless {
		if err := engine.DecimateLossless(); err != nil {
			fatal("decimate", err)
		}
	} else {
		if err := engine.DecimateTo(*target); err != nil {
			fatal("decimate", err)
		}
	}
	elapsed := time.Since(start)

	result := engine.Result()
	if err := objio.WriteFile(*out, result, mats); err != nil {
		fatal("write", err)
	}

	fmt.Fprintf(os.Stderr, "%s: %d -> %d triangles in %s\n", *out, mesh.TriangleCount(), result.TriangleCount(), elapsed)
}

func fatal(step string, err error) {
	fmt.Fprintf(os.Stderr, "meshdecimate: %s: %v\n", step, err)
	os.Exit(1)
}
