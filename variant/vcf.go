package variant

import (
	"bufio"
	"compress/gzip"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Record is one data line of a VCF file.
type Record struct {
	Chrom   string
	Pos     int
	ID      string
	Ref     string
	Alt     []string
	Qual    float64 // NaN when the QUAL column is ".".
	Filter  string
	Info    map[string]string
	Format  []string
	Samples []string
}

// IsSNP reports whether the record is a single-nucleotide polymorphism, i.e.
// the reference and every alternate allele are single bases. Anything else,
// including symbolic alleles, is treated as an indel.
func (r *Record) IsSNP() bool {
	if len(r.Ref) != 1 {
		return false
	}
	for _, alt := range r.Alt {
		if len(alt) != 1 {
			return false
		}
	}
	return true
}

// MatchesType reports whether the record belongs to the given variant type.
func (r *Record) MatchesType(t Type) bool {
	if t == SNP {
		return r.IsSNP()
	}
	return !r.IsSNP()
}

// InfoFloat looks up a numeric INFO annotation on the record.
func (r *Record) InfoFloat(key string) (float64, bool) {
	raw, ok := r.Info[key]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Reader parses the data lines of a VCF file, transparently decompressing
// gzipped input. Header lines are skipped.
type Reader struct {
	scanner *bufio.Scanner
	closers []io.Closer
	line    int
	path    string
}

// Open opens a VCF file for reading. Paths ending in .gz are decompressed.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	r := &Reader{path: path, closers: []io.Closer{f}}
	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "open %s", path)
		}
		r.closers = append([]io.Closer{gz}, r.closers...)
		src = gz
	}
	r.scanner = bufio.NewScanner(src)
	// VCF data lines with many samples can run long.
	r.scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return r, nil
}

// Next returns the next data record, or io.EOF once the file is exhausted.
func (r *Reader) Next() (*Record, error) {
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Text()
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := parseRecord(line)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", r.path, r.line)
		}
		return rec, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", r.path)
	}
	return nil, io.EOF
}

// Close releases the underlying file handles.
func (r *Reader) Close() error {
	var err error
	for _, c := range r.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func parseRecord(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, errors.Errorf("malformed record: %d columns, want at least 8", len(fields))
	}
	pos, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, errors.Wrap(err, "parse POS")
	}
	qual := math.NaN()
	if fields[5] != "." {
		qual, err = strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, errors.Wrap(err, "parse QUAL")
		}
	}
	rec := &Record{
		Chrom:  fields[0],
		Pos:    pos,
		ID:     fields[2],
		Ref:    fields[3],
		Alt:    strings.Split(fields[4], ","),
		Qual:   qual,
		Filter: fields[6],
		Info:   parseInfo(fields[7]),
	}
	if len(fields) > 8 {
		rec.Format = strings.Split(fields[8], ":")
		rec.Samples = fields[9:]
	}
	return rec, nil
}

func parseInfo(raw string) map[string]string {
	info := make(map[string]string)
	if raw == "." {
		return info
	}
	for _, entry := range strings.Split(raw, ";") {
		if kv := strings.SplitN(entry, "=", 2); len(kv) == 2 {
			info[kv[0]] = kv[1]
		} else {
			info[entry] = ""
		}
	}
	return info
}
