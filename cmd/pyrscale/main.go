// Copyright 2025 go-pyramid Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command pyrscale downsamples an image to a target resolution through a
// halving pyramid.
//
// Usage:
//
//	pyrscale -in photo.jpg -out thumb.png -width 256 -height 192
//	pyrscale -in scan.tiff -out small.png -width 100 -height 100 -policy all -kind lanczos -lobes 3
//	pyrscale -in photo.jpg -width 100 -height 100 -plan        # print the levels only
//
// The input is converted to 8-bit gray. With -float the pyramid runs on
// float32 pixels in [0, 1]. The opencv engine is available when built with
// -tags gocv.
package main

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ajroetker/go-pyramid/pyr"
	"github.com/ajroetker/go-pyramid/pyr/engine"
	"github.com/ajroetker/go-pyramid/pyr/pyramid"
)

var (
	inFile     = flag.String("in", "", "Input image: png, jpeg, gif, bmp, tiff or webp (required)")
	outFile    = flag.String("out", "", "Output image; format from the extension: .png, .jpg, .gif, .bmp, .tif")
	width      = flag.Int("width", 0, "Destination width (required)")
	height     = flag.Int("height", 0, "Destination height (required)")
	engineName = flag.String("engine", "soft", "Resize engine: soft, xdraw, or opencv when built with -tags gocv")
	policyName = flag.String("policy", "any", "Loop termination policy: any or all")
	kindName   = flag.String("kind", "linear", "Interpolation: linear, cubic or lanczos")
	cubicB     = flag.Float64("b", 0, "Cubic B parameter")
	cubicC     = flag.Float64("c", 0.5, "Cubic C parameter")
	lobes      = flag.Int("lobes", 3, "Lanczos lobes")
	borderName = flag.String("border", "replicate", "Border: replicate, wrap, mirror, mirror_repeat or constant")
	borderVal  = flag.Float64("border_value", 0, "Pixel value for -border constant")
	useFloat   = flag.Bool("float", false, "Run the pyramid on float32 pixels")
	planOnly   = flag.Bool("plan", false, "Print the pyramid levels and exit")
	verbose    = flag.Bool("v", false, "Debug logging")
	jsonLog    = flag.Bool("json", false, "JSON log output")
)

func main() {
	flag.Parse()

	logger := initLogger(*verbose, *jsonLog)
	pyr.SetLogger(logger)

	if err := run(logger); err != nil {
		logger.WithError(err).Error("pyrscale failed")
		os.Exit(1)
	}
}

// initLogger builds the command's logger. Library debug output is only
// visible with -v.
func initLogger(debug, asJSON bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	if asJSON {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return logger
}

func run(logger *logrus.Logger) error {
	if *inFile == "" || *width <= 0 || *height <= 0 {
		flag.Usage()
		return fmt.Errorf("-in, -width and -height are required")
	}
	if *outFile == "" && !*planOnly {
		return fmt.Errorf("-out is required unless -plan is set")
	}

	policy, err := pyramid.ParsePolicy(*policyName)
	if err != nil {
		return err
	}
	kind, err := parseKind(*kindName)
	if err != nil {
		return err
	}
	border, err := engine.ParseBorder(*borderName)
	if err != nil {
		return err
	}
	be, ok := backends[*engineName]
	if !ok {
		return fmt.Errorf("unknown engine %q, have %s", *engineName, strings.Join(engineNames(), ","))
	}

	src, format, err := load(*inFile)
	if err != nil {
		return err
	}
	srcSize := engine.Sz(src.Rect.Dx(), src.Rect.Dy())
	dstSize := engine.Sz(*width, *height)
	logger.WithFields(logrus.Fields{
		"in":     *inFile,
		"format": format,
		"src":    srcSize.String(),
		"dst":    dstSize.String(),
	}).Info("decoded")

	if *planOnly {
		levels, err := pyramid.Plan(srcSize, dstSize, policy)
		if err != nil {
			return err
		}
		for k, l := range levels {
			fmt.Printf("%d\t%s\n", k, l)
		}
		return nil
	}

	opts := []pyramid.Option{
		pyramid.WithPolicy(policy),
		pyramid.WithKind(kind),
		pyramid.WithBorder(border),
	}
	if border == engine.BorderConstant {
		opts = append(opts, pyramid.WithBorderValue(*borderVal))
	}

	pix := grayPix(src)
	var out []uint8
	if *useFloat {
		if be.f32 == nil {
			return fmt.Errorf("engine %q has no float32 support", *engineName)
		}
		res, err := downsample(be.f32(), srcSize, dstSize, toFloat(pix), opts)
		if err != nil {
			return err
		}
		out = fromFloat(res)
	} else {
		out, err = downsample(be.u8(), srcSize, dstSize, pix, opts)
		if err != nil {
			return err
		}
	}

	if err := save(*outFile, grayImage(out, dstSize)); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"out": *outFile, "size": dstSize.String()}).Info("written")
	return nil
}

func downsample[T pyr.Pixel](eng engine.Engine[T], src, dst engine.Size, pix []T, opts []pyramid.Option) ([]T, error) {
	p, err := pyramid.New(eng, src.Width, src.Height, dst.Width, dst.Height, opts...)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	out := make([]T, dst.Area())
	if err := p.Downsample(pix, out); err != nil {
		return nil, err
	}
	return out, nil
}

func parseKind(name string) (engine.Kind, error) {
	var k engine.Kind
	switch name {
	case "linear":
		k = engine.Linear()
	case "cubic":
		k = engine.Cubic(float32(*cubicB), float32(*cubicC))
	case "lanczos":
		k = engine.Lanczos(*lobes)
	default:
		return k, fmt.Errorf("unknown interpolation %q", name)
	}
	return k, k.Validate()
}

func engineNames() []string {
	var names []string
	for n := range backends {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
