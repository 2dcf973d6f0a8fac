// Command build-ssa builds a sparse suffix array of a DNA or protein
// sequence file and writes it, optionally bit-packed, to an output
// file.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	libsaispacked "github.com/unipept/libsais-packed"
)

func main() {
	os.Exit(run())
}

func run() int {
	sparseness := flag.Int("s", 0, "sparseness factor (required)")
	dna := flag.Bool("d", false, "input is DNA data rather than protein data")
	compressed := flag.Bool("c", false, "bit-pack the output suffix array")
	unoptimized := flag.Bool("u", false, "build the full suffix array and subsample instead of packing")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -s <sparseness> [-cdu] <input_file> <output_file>\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Sync()
	log := logger.Sugar()

	if *sparseness < 1 {
		log.Error("missing or invalid -s <sparseness>")
		flag.Usage()
		return 1
	}

	args := flag.Args()
	if len(args) != 2 {
		log.Error("expected exactly <input_file> and <output_file>")
		flag.Usage()
		return 1
	}
	inputPath, outputPath := args[0], args[1]

	mode := libsaispacked.ModeProtein
	if *dna {
		mode = libsaispacked.ModeDNA
	}

	startReading := time.Now()
	log.Infow("started reading input file", "path", inputPath)
	text, err := os.ReadFile(inputPath)
	if err != nil {
		log.Errorw("failed to read input file", "error", errors.Wrap(err, "read input"))
		return 1
	}
	log.Infow("done reading input file", "seconds", time.Since(startReading).Seconds())

	startBuild := time.Now()
	log.Info("started building suffix array")
	sa, unrecognized, err := libsaispacked.BuildSparseSuffixArray(text, libsaispacked.Options{
		Sparseness: *sparseness,
		Mode:       mode,
		Optimized:  !*unoptimized,
	})
	if err != nil {
		log.Errorw("failed to build suffix array", "error", errors.Wrap(err, "build suffix array"))
		return 1
	}
	if unrecognized > 0 {
		log.Warnw("input contained bytes outside the DNA alphabet", "count", unrecognized)
	}
	log.Infow("done building suffix array", "seconds", time.Since(startBuild).Seconds())

	startWriting := time.Now()
	log.Info("started writing results")
	out, err := os.Create(outputPath)
	if err != nil {
		log.Errorw("failed to open output file", "error", errors.Wrap(err, "create output"))
		return 1
	}
	defer out.Close()

	if err := libsaispacked.WriteSA(out, sa, uint8(*sparseness), *compressed); err != nil {
		log.Errorw("failed to write output", "error", err)
		return 1
	}
	log.Infow("done writing results", "path", outputPath, "seconds", time.Since(startWriting).Seconds())

	return 0
}
