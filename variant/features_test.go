package variant

import (
	"testing"
)

func TestFeatures(t *testing.T) {
	records := readAll(t, writeFile(t, "test.vcf", testVCF))

	f, missing := records[0].Features()
	if missing != 0 {
		t.Fatalf("missing = %d, want 0", missing)
	}
	want := []float64{55.8, 12.5, 1.2, 0.7, 60, 0.1, 0.3, 30, 0.5}
	for i, w := range want {
		if f[i] != w {
			t.Errorf("%s = %v, want %v", FeatureNames[i], f[i], w)
		}
	}

	// The annotation-free site imputes zero everywhere.
	f, missing = records[3].Features()
	if missing != len(FeatureNames) {
		t.Fatalf("missing = %d, want %d", missing, len(FeatureNames))
	}
	for i, v := range f {
		if v != 0 {
			t.Errorf("%s = %v, want imputed 0", FeatureNames[i], v)
		}
	}
}

func TestAlleleBalance(t *testing.T) {
	r := &Record{Format: []string{"GT", "AD", "DP"}, Samples: []string{"0/1:10,30:40"}}
	ab, ok := r.alleleBalance()
	if !ok || ab != 0.75 {
		t.Errorf("alleleBalance = %v (%v), want 0.75", ab, ok)
	}

	r = &Record{Format: []string{"GT", "AD"}, Samples: []string{"0/0:0,0"}}
	if _, ok := r.alleleBalance(); ok {
		t.Error("zero-depth AD should not produce a balance")
	}

	r = &Record{Format: []string{"GT"}, Samples: []string{"0/1"}}
	if _, ok := r.alleleBalance(); ok {
		t.Error("record without AD should not produce a balance")
	}
}

func TestExtractTable(t *testing.T) {
	path := writeFile(t, "test.vcf", testVCF)

	snps, err := ExtractTable(path, SNP, 1)
	if err != nil {
		t.Fatal(err)
	}
	// Two usable SNP sites; the annotation-free one is skipped.
	if snps.Rows() != 2 {
		t.Fatalf("SNP rows = %d, want 2", snps.Rows())
	}
	if got := snps.X.At(0, 1); got != 12.5 {
		t.Errorf("QD of first SNP row = %v, want 12.5", got)
	}
	for i, y := range snps.Y {
		if y != 1 {
			t.Errorf("label %d = %v, want 1", i, y)
		}
	}

	indels, err := ExtractTable(path, INDEL, 0)
	if err != nil {
		t.Fatal(err)
	}
	if indels.Rows() != 1 {
		t.Fatalf("INDEL rows = %d, want 1", indels.Rows())
	}
	if indels.Y[0] != 0 {
		t.Errorf("INDEL label = %v, want 0", indels.Y[0])
	}
}

func TestExtractTableEmpty(t *testing.T) {
	path := writeFile(t, "empty.vcf", "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n")
	table, err := ExtractTable(path, SNP, 1)
	if err != nil {
		t.Fatal(err)
	}
	if table.Rows() != 0 {
		t.Fatalf("rows = %d, want 0 from a header-only file", table.Rows())
	}
}

func TestExtractTableMissingFile(t *testing.T) {
	if _, err := ExtractTable("nonexistent.vcf", SNP, 1); err == nil {
		t.Fatal("expected error for missing file")
	}
}
