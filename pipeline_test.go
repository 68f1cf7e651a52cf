package evf_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	evf "github.com/Ellis-Anderson/extremevariantfilter-1"
	"github.com/Ellis-Anderson/extremevariantfilter-1/extract"
	"github.com/Ellis-Anderson/extremevariantfilter-1/learning"
	"github.com/Ellis-Anderson/extremevariantfilter-1/variant"
	"github.com/pkg/errors"
)

// writeVCF writes a VCF with n SNP sites. qd shifts the QD annotation so
// true and false positives are separable.
func writeVCF(t *testing.T, path string, n int, qd float64) {
	t.Helper()
	var b strings.Builder
	b.WriteString("##fileformat=VCFv4.2\n")
	b.WriteString("#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tNA12878\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b,
			"1\t%d\t.\tA\tT\t%.1f\tPASS\tQD=%.2f;FS=1.5;SOR=0.7;MQ=60.0;MQRankSum=0.2;ReadPosRankSum=0.4;DP=%d\tGT:AD:DP\t0/1:%d,%d:30\n",
			1000+i, 50.0+float64(i), qd+float64(i%7)*0.3, 30+i%5, 15, 15+i%3)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	dir := t.TempDir()
	tp1 := filepath.Join(dir, "tp1.vcf")
	tp2 := filepath.Join(dir, "tp2.vcf")
	fp1 := filepath.Join(dir, "fp1.vcf")
	writeVCF(t, tp1, 10, 20)
	writeVCF(t, tp2, 15, 22)
	writeVCF(t, fp1, 20, 2)
	artifact := filepath.Join(dir, "snp.model.dat")

	p := evf.Pipeline{
		Type:     "SNP",
		TruePos:  tp1 + "," + tp2,
		FalsePos: fp1,
		Output:   artifact,
		Workers:  3,
	}
	if err := p.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	f, err := learning.Load(artifact)
	if err != nil {
		t.Fatal(err)
	}
	if f.NumFeatures != variant.NumFeatures() {
		t.Fatalf("artifact fitted on %d features, want %d", f.NumFeatures, variant.NumFeatures())
	}

	// The fitted model should separate the training files it was built from.
	table, err := variant.ExtractTable(fp1, variant.SNP, 0)
	if err != nil {
		t.Fatal(err)
	}
	preds, err := f.Predict(table.X)
	if err != nil {
		t.Fatal(err)
	}
	if len(preds) != 20 {
		t.Fatalf("got %d predictions for fp1, want 20", len(preds))
	}
}

func TestPipelineDefaultArtifactName(t *testing.T) {
	dir := t.TempDir()
	tp := filepath.Join(dir, "tp.vcf")
	fp := filepath.Join(dir, "fp.vcf")
	writeVCF(t, tp, 8, 20)
	writeVCF(t, fp, 8, 2)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	// SNP sites trained as type "snp": the artifact name normalises the type.
	p := evf.Pipeline{Type: "snp", TruePos: tp, FalsePos: fp, Workers: 2}
	if err := p.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "SNP.filter.pickle.dat")); err != nil {
		t.Fatalf("default artifact not written: %v", err)
	}
}

func TestPipelineExtractionFailure(t *testing.T) {
	dir := t.TempDir()
	tp := filepath.Join(dir, "tp.vcf")
	bad := filepath.Join(dir, "bad.vcf")
	writeVCF(t, tp, 10, 20)
	if err := os.WriteFile(bad, []byte("1\tnotanumber\t.\tA\tT\t50\tPASS\tQD=1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	artifact := filepath.Join(dir, "model.dat")

	p := evf.Pipeline{
		Type:     "SNP",
		TruePos:  tp,
		FalsePos: bad,
		Output:   artifact,
		Workers:  2,
	}
	if err := p.Execute(context.Background()); err == nil {
		t.Fatal("expected failure for malformed input file")
	}
	if _, err := os.Stat(artifact); !os.IsNotExist(err) {
		t.Fatal("no artifact may be written when extraction fails")
	}
}

func TestPipelineEmptyInput(t *testing.T) {
	p := evf.Pipeline{Type: "SNP", Workers: 2, Output: filepath.Join(t.TempDir(), "model.dat")}
	err := p.Execute(context.Background())
	if errors.Cause(err) != extract.ErrEmptyInput {
		t.Fatalf("got %v, want ErrEmptyInput", err)
	}
}

func TestPipelineInvalidArguments(t *testing.T) {
	dir := t.TempDir()
	tp := filepath.Join(dir, "tp.vcf")
	writeVCF(t, tp, 1, 20)

	p := evf.Pipeline{Type: "SV", TruePos: tp, FalsePos: tp, Workers: 2}
	if err := p.Execute(context.Background()); errors.Cause(err) != variant.ErrInvalidType {
		t.Fatalf("got %v, want ErrInvalidType", err)
	}

	p = evf.Pipeline{Type: "SNP", TruePos: tp, FalsePos: tp, Workers: 0}
	if err := p.Execute(context.Background()); err == nil {
		t.Fatal("expected error for non-positive worker count")
	}
}
