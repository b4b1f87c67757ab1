// Command flfconv converts fixed-length files to Parquet and generates
// mock fixed-length files from a schema, per spec.md.
//
// Dispatch style mirrors boldkit/cmd/root.go's Execute/printUsage pair:
// a manual switch over os.Args[1], one flag.NewFlagSet per subcommand.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync/atomic"
	"text/tabwriter"

	"flfconv/internal/cliprogress"
	"flfconv/internal/convertrun"
	"flfconv/internal/flfsink"
	"flfconv/internal/mockrun"
	"flfconv/internal/recordslice"
	"flfconv/internal/schema"
	"flfconv/internal/threadpool"
	"flfconv/internal/typedparse"

	"golang.org/x/sync/errgroup"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "convert":
		err = runConvert(os.Args[2:])
	case "convert-chunked":
		err = runConvertChunked(os.Args[2:])
	case "mock":
		err = runMock(os.Args[2:])
	case "schema":
		err = runSchema(os.Args[2:])
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n", os.Args[1])
		printUsage()
		os.Exit(5)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "flfconv: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "flfconv - fixed-length file <-> Parquet converter/generator")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  flfconv <command> [options]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  convert          Convert one FLF file to Parquet")
	fmt.Fprintln(os.Stderr, "  convert-chunked  Convert one FLF file to Parquet in independent byte-range shards")
	fmt.Fprintln(os.Stderr, "  mock             Generate a mock FLF file matching a schema")
	fmt.Fprintln(os.Stderr, "  schema           Print a schema file's column table")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Run 'flfconv <command> -h' for command-specific options.")
}

// exitCode implements spec.md §7's classification: 0 ok, 1 IO, 2 schema,
// 3 parse, 4 slicer, 5 other.
func exitCode(err error) int {
	var pathErr *fs.PathError
	var schemaErr *schema.Error
	var parseErr *typedparse.Error
	var slicerErr *recordslice.Error

	switch {
	case errors.As(err, &pathErr):
		return 1
	case errors.As(err, &schemaErr):
		return 2
	case errors.As(err, &parseErr):
		return 3
	case errors.As(err, &slicerErr):
		return 4
	default:
		return 5
	}
}

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	inFile := fs.String("in-file", "", "FLF input path (required)")
	outFile := fs.String("out-file", "", "Parquet output path (required)")
	schemaPath := fs.String("schema", "", "schema JSON path (required)")
	nThreads := fs.Int("n-threads", 0, "worker threads (0 = all logical cores)")
	bufferSize := fs.Int("buffer-size", 0, "reader buffer size in bytes")
	channelCapacity := fs.Int("thread-channel-capacity", 0, "pipeline channel capacity")
	progressOn := fs.Bool("progress", true, "show a progress bar")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inFile == "" || *outFile == "" || *schemaPath == "" {
		return errors.New("convert: --in-file, --out-file, and --schema are required")
	}

	s, err := schema.Load(*schemaPath)
	if err != nil {
		return err
	}

	tracker := cliprogress.New(0, *progressOn)
	cfg := convertrun.Config{
		NThreads:              *nThreads,
		BufferSize:            *bufferSize,
		ThreadChannelCapacity: *channelCapacity,
	}

	result, err := convertrun.Run(context.Background(), s, *inFile, *outFile, cfg)
	tracker.Add(result.RowsWritten)
	tracker.Finish()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %d rows to %s\n", result.RowsWritten, *outFile)
	return nil
}

func runConvertChunked(args []string) error {
	fs := flag.NewFlagSet("convert-chunked", flag.ContinueOnError)
	inFile := fs.String("in-file", "", "FLF input path (required)")
	outFile := fs.String("out-file", "", "Parquet output path prefix (required); parts are written to <out-file>.part<N>")
	schemaPath := fs.String("schema", "", "schema JSON path (required)")
	nChunks := fs.Int("n-chunks", 0, "number of independent chunks (0 = n-threads)")
	nThreads := fs.Int("n-threads", 0, "worker threads per chunk pipeline (0 = all logical cores)")
	bufferSize := fs.Int("buffer-size", 0, "reader buffer size in bytes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inFile == "" || *outFile == "" || *schemaPath == "" {
		return errors.New("convert-chunked: --in-file, --out-file, and --schema are required")
	}

	s, err := schema.Load(*schemaPath)
	if err != nil {
		return err
	}

	in, err := os.Open(*inFile)
	if err != nil {
		return fmt.Errorf("convert-chunked: open input: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("convert-chunked: stat input: %w", err)
	}

	rowLen := s.RecordByteLength()
	if rowLen <= 0 {
		return fmt.Errorf("convert-chunked: schema %q has zero record length", s.Name)
	}
	totalRecords := int(info.Size() / int64(rowLen))

	chunks := *nChunks
	if chunks <= 0 {
		chunks = threadpool.Available(*nThreads)
	}
	shards := recordslice.Shards(totalRecords, chunks)
	if len(shards) == 0 {
		return nil
	}

	eg, egCtx := errgroup.WithContext(context.Background())
	cfg := convertrun.Config{NThreads: *nThreads, BufferSize: *bufferSize}
	var total int64

	for i, shard := range shards {
		i, shard := i, shard
		eg.Go(func() error {
			section := io.NewSectionReader(in, int64(shard.Start)*int64(rowLen), int64(shard.End-shard.Start)*int64(rowLen))
			partPath := fmt.Sprintf("%s.part%05d", *outFile, i)
			result, err := convertrun.RunReader(egCtx, s, section, partPath, cfg)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			addInt64(&total, result.RowsWritten)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %d rows across %d chunk(s) with prefix %s\n", total, len(shards), *outFile)
	return nil
}

func runMock(args []string) error {
	fs := flag.NewFlagSet("mock", flag.ContinueOnError)
	schemaPath := fs.String("schema", "", "schema JSON path (required)")
	outFile := fs.String("out-file", "", "FLF output path (required)")
	nRows := fs.Int("n-rows", 0, "number of rows to generate (required)")
	nThreads := fs.Int("n-threads", 0, "worker threads (0 = all logical cores)")
	forceNew := fs.Bool("force-new", false, "fail if out-file already exists")
	truncateExisting := fs.Bool("truncate-existing", false, "overwrite out-file if it exists")
	bufferSize := fs.Int("buffer-size", 0, "reserved for symmetry with convert; unused by mock")
	channelCapacity := fs.Int("thread-channel-capacity", 0, "pipeline channel capacity")
	gzipOut := fs.Bool("gzip", false, "gzip-compress the FLF output")
	progressOn := fs.Bool("progress", true, "show a progress bar")
	if err := fs.Parse(args); err != nil {
		return err
	}
	_ = bufferSize
	if *schemaPath == "" || *outFile == "" || *nRows <= 0 {
		return errors.New("mock: --schema, --out-file, and a positive --n-rows are required")
	}
	if *forceNew && *truncateExisting {
		return errors.New("mock: --force-new and --truncate-existing are mutually exclusive")
	}

	s, err := schema.Load(*schemaPath)
	if err != nil {
		return err
	}

	mode := flfsink.Append
	switch {
	case *forceNew:
		mode = flfsink.CreateNew
	case *truncateExisting:
		mode = flfsink.Truncate
	}

	tracker := cliprogress.New(int64(*nRows), *progressOn)
	cfg := mockrun.Config{
		NThreads:              *nThreads,
		ThreadChannelCapacity: *channelCapacity,
		OpenMode:              mode,
		Gzip:                  *gzipOut,
	}

	result, err := mockrun.Run(context.Background(), s, *outFile, *nRows, cfg)
	tracker.Add(result.RowsWritten)
	tracker.Finish()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "generated %d rows into %s\n", result.RowsWritten, *outFile)
	return nil
}

func runSchema(args []string) error {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("schema: expected exactly one schema JSON path")
	}

	s, err := schema.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Name\tOffset\tLength\tDtype\tAlignment\tPadSymbol\tNullable")
	for _, c := range s.Columns {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%q\t%v\n",
			c.Name, c.Offset, c.Length, c.Dtype, c.Alignment, string(c.PadSymbol), c.IsNullable)
	}
	_ = w.Flush()
	fmt.Printf("\nrow width: %d bytes (%d column bytes%s)\n",
		s.RecordByteLength(), s.ColumnsByteLength(), terminatorSuffix(s))
	return nil
}

func terminatorSuffix(s *schema.Schema) string {
	if s.Terminator {
		return " + 1 terminator byte"
	}
	return ""
}

func addInt64(dst *int64, delta int64) {
	atomic.AddInt64(dst, delta)
}
