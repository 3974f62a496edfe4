// bio-scallop assembles transcripts from spliced RNA-seq alignments or a
// GTF annotation (spec §6 inputs), writing one labeled GTF-style stream per
// configured decomposer.
//
// Grounded on cmd/bio-fusion/main.go's flag-based option parsing and
// grail.Init() entry point, and on original_source/src/src/manager.cc's
// process() dispatch on input file extension (bam/sam vs gtf).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"

	"github.com/grailbio/scallop/annotation"
	"github.com/grailbio/scallop/assembler"
	"github.com/grailbio/scallop/config"
	"github.com/grailbio/scallop/drawer"
	"github.com/grailbio/scallop/hit"
	"github.com/grailbio/scallop/scallop"
	"github.com/grailbio/scallop/sgraph"
)

var (
	minBundleGap            = flag.Int("min-bundle-gap", config.DefaultOpts.MinBundleGap, "minimum gap (bp) between hits to start a new bundle")
	minNumHitsInBundle      = flag.Int("min-num-hits-in-bundle", config.DefaultOpts.MinNumHitsInBundle, "bundles with fewer hits are discarded")
	maxNumBundles           = flag.Int("max-num-bundles", config.DefaultOpts.MaxNumBundles, "0 = unlimited, else hard cap on bundles processed")
	minSpliceBoundaryHits   = flag.Int("min-splice-boundary-hits", config.DefaultOpts.MinSpliceBoundaryHits, "junction must have at least this much support to create an edge")
	minVertexWeight         = flag.Float64("min-vertex-weight", config.DefaultOpts.MinVertexWeight, "vertices with lower weight are merged with neighbours")
	decomposerBridgeStrict  = flag.Bool("decomposer-bridge-strict", config.DefaultOpts.DecomposerBridgeStrict, "refuse to decompose a vertex where bridges forbid every pairing, instead of falling back to bridge-blind greedy")
	reconciliationTolerance = flag.Float64("reconciliation-tolerance", config.DefaultOpts.ReconciliationTolerance, "fraction of flow imbalance tolerated during weight reconciliation")
	maxCigarOps             = flag.Int("max-cigar-ops", config.DefaultOpts.MaxCigarOps, "alignments with more cigar operations than this are filtered")

	decomposersFlag = flag.String("decomposers", "scallop1,scallop2,stringtie", "comma-separated list of decomposers to run: scallop1, scallop2, stringtie")
	outPrefix       = flag.String("out", "bio-scallop", "output path prefix; one <prefix>.<decomposer>.gtf file per decomposer")
	dotDir          = flag.String("dot-dir", "", "if set and input is a GTF annotation, write one <dot-dir>/<gene>.dot file per gene's splice graph (spec §6, optional graph drawing)")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] <input.bam|input.sam|input.gtf>\n", os.Args[0])
	flag.PrintDefaults()
}

func optsFromFlags() config.Opts {
	return config.Opts{
		MinBundleGap:            *minBundleGap,
		MinNumHitsInBundle:      *minNumHitsInBundle,
		MaxNumBundles:           *maxNumBundles,
		MinSpliceBoundaryHits:   *minSpliceBoundaryHits,
		MinVertexWeight:         *minVertexWeight,
		DecomposerBridgeStrict:  *decomposerBridgeStrict,
		ReconciliationTolerance: *reconciliationTolerance,
		MaxCigarOps:             *maxCigarOps,
	}
}

func decomposersFromFlag(s string) ([]scallop.Decomposer, error) {
	var out []scallop.Decomposer
	for _, name := range strings.Split(s, ",") {
		switch strings.TrimSpace(name) {
		case "scallop1":
			out = append(out, scallop.Scallop1Decomposer{})
		case "scallop2":
			out = append(out, scallop.Scallop2Decomposer{})
		case "stringtie":
			out = append(out, scallop.StringtieDecomposer{})
		case "":
		default:
			return nil, errors.E(fmt.Sprintf("bio-scallop: unknown decomposer %q", name))
		}
	}
	if len(out) == 0 {
		return nil, errors.E("bio-scallop: no decomposers selected")
	}
	return out, nil
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("exactly one input path is required; see usage")
	}
	inputPath := flag.Arg(0)

	decomposers, err := decomposersFromFlag(*decomposersFlag)
	if err != nil {
		log.Fatalf("%v", err)
	}
	opts := optsFromFlags()

	writers, closeWriters, err := openWriters(*outPrefix, decomposers)
	if err != nil {
		log.Fatalf("bio-scallop: %v", err)
	}
	defer closeWriters()

	lower := strings.ToLower(inputPath)
	switch {
	case strings.HasSuffix(lower, ".bam"), strings.HasSuffix(lower, ".sam"):
		err = runAlignment(inputPath, opts, decomposers, writers)
	case strings.HasSuffix(lower, ".gtf"):
		err = runAnnotation(inputPath, opts, decomposers, writers)
	default:
		err = errors.E(fmt.Sprintf("bio-scallop: unrecognized input extension for %q (want .bam, .sam, or .gtf)", inputPath))
	}
	if err != nil {
		log.Fatalf("bio-scallop: %v", err)
	}
}

// runAlignment processes a BAM/SAM alignment file through the Assembler
// Driver (spec §4.5), following manager.cc's assemble_bam branch.
func runAlignment(path string, opts config.Opts, decomposers []scallop.Decomposer, writers map[string]assembler.Writer) error {
	ctx := vcontext.Background()
	f, err := file.Open(ctx, path)
	if err != nil {
		return errors.E(err, "bio-scallop: opening alignment input")
	}
	defer f.Close(ctx)

	src, err := openRecordSource(path, io.Reader(f.Reader(ctx)))
	if err != nil {
		return err
	}

	driver := assembler.NewDriver(opts, decomposers...)
	multi := &demuxWriter{byDecomposer: writers}
	if err := driver.Run(src, multi); err != nil {
		return errors.E(err, "bio-scallop: running assembler")
	}
	log.Printf("bio-scallop: %s", driver.Metrics.String())
	return nil
}

// runAnnotation processes a GTF annotation directly into one splice graph
// per gene, following manager.cc's assemble_gtf branch (SPEC_FULL §12 item
// 4; no coverage map, no bundling).
func runAnnotation(path string, opts config.Opts, decomposers []scallop.Decomposer, writers map[string]assembler.Writer) error {
	ctx := vcontext.Background()
	f, err := file.Open(ctx, path)
	if err != nil {
		return errors.E(err, "bio-scallop: opening annotation input")
	}
	defer f.Close(ctx)

	graphs, err := annotation.BuildFromExons(f.Reader(ctx))
	if err != nil {
		return errors.E(err, "bio-scallop: parsing annotation")
	}

	index := 0
	for gene, g := range graphs {
		if *dotDir != "" {
			if err := writeDot(g, gene); err != nil {
				log.Error.Printf("bio-scallop: writing dot for gene %s: %v", gene, err)
			}
		}
		for _, dec := range decomposers {
			paths, diags := dec.Decompose(g, opts)
			for _, diag := range diags {
				log.Error.Printf("bio-scallop: gene %s decomposer %s: diagnostic kind=%s vertex=%d",
					gene, dec.Name(), diag.Kind, diag.VertexID)
			}
			for _, p := range paths {
				rec := assembler.TranscriptRecord{
					BundleIndex: index,
					Decomposer:  dec.Name(),
					Exons:       p.ExonIntervals(g),
					Abundance:   p.Abundance,
					Unbridged:   p.Unbridged,
				}
				if err := writers[dec.Name()].Write(rec); err != nil {
					return errors.E(err, "bio-scallop: writing transcript record")
				}
			}
		}
		index++
	}
	return nil
}

// openRecordSource opens r as BAM or SAM depending on path's extension,
// returning an assembler.RecordSource.
func openRecordSource(path string, r io.Reader) (assembler.RecordSource, error) {
	if strings.HasSuffix(strings.ToLower(path), ".bam") {
		br, err := bam.NewReader(r, 1)
		if err != nil {
			return nil, errors.E(err, "bio-scallop: opening bam reader")
		}
		return br, nil
	}
	sr, err := sam.NewReader(r)
	if err != nil {
		return nil, errors.E(err, "bio-scallop: opening sam reader")
	}
	return sr, nil
}

// demuxWriter fans a TranscriptRecord out to the Writer registered for its
// Decomposer label, following manager.cc's per-decomposer output file
// handles (stringtie_fout/scallop1_fout/scallop2_fout).
type demuxWriter struct {
	byDecomposer map[string]assembler.Writer
}

func (d *demuxWriter) Write(r assembler.TranscriptRecord) error {
	w, ok := d.byDecomposer[r.Decomposer]
	if !ok {
		return errors.E(fmt.Sprintf("bio-scallop: no writer registered for decomposer %q", r.Decomposer))
	}
	return w.Write(r)
}

// gtfWriter renders TranscriptRecords as minimal GTF transcript/exon lines.
type gtfWriter struct {
	w    *bufio.Writer
	next int
}

func (g *gtfWriter) Write(r assembler.TranscriptRecord) error {
	g.next++
	strand := "."
	switch r.Strand {
	case hit.StrandForward:
		strand = "+"
	case hit.StrandReverse:
		strand = "-"
	}
	txID := fmt.Sprintf("%s.bundle%d.t%d", r.Decomposer, r.BundleIndex, g.next)
	unbridged := ""
	if r.Unbridged {
		unbridged = " unbridged \"true\";"
	}
	if len(r.Exons) == 0 {
		return nil
	}
	start, end := r.Exons[0][0], r.Exons[len(r.Exons)-1][1]
	if _, err := fmt.Fprintf(g.w, "bundle%d\tbio-scallop\ttranscript\t%d\t%d\t%.6f\t%s\t.\ttranscript_id \"%s\";%s\n",
		r.BundleIndex, start+1, end, r.Abundance, strand, txID, unbridged); err != nil {
		return err
	}
	for _, ex := range r.Exons {
		if _, err := fmt.Fprintf(g.w, "bundle%d\tbio-scallop\texon\t%d\t%d\t%.6f\t%s\t.\ttranscript_id \"%s\";\n",
			r.BundleIndex, ex[0]+1, ex[1], r.Abundance, strand, txID); err != nil {
			return err
		}
	}
	return nil
}

func openWriters(prefix string, decomposers []scallop.Decomposer) (map[string]assembler.Writer, func(), error) {
	writers := make(map[string]assembler.Writer, len(decomposers))
	var files []*os.File
	for _, dec := range decomposers {
		f, err := os.Create(fmt.Sprintf("%s.%s.gtf", prefix, dec.Name()))
		if err != nil {
			for _, f := range files {
				f.Close()
			}
			return nil, nil, errors.E(err, "bio-scallop: creating output file")
		}
		files = append(files, f)
		writers[dec.Name()] = &gtfWriter{w: bufio.NewWriter(f)}
	}
	closeFn := func() {
		for _, w := range writers {
			if gw, ok := w.(*gtfWriter); ok {
				gw.w.Flush()
			}
		}
		for _, f := range files {
			f.Close()
		}
	}
	return writers, closeFn, nil
}

func writeDot(g *sgraph.Graph, name string) error {
	if err := os.MkdirAll(*dotDir, 0o755); err != nil {
		return err
	}
	b, err := drawer.Marshal(g, name)
	if err != nil {
		return err
	}
	return os.WriteFile(fmt.Sprintf("%s/%s.dot", *dotDir, name), b, 0o644)
}
