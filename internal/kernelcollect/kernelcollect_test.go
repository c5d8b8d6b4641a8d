package kernelcollect

import "testing"

func TestCollectFindsKernelConst(t *testing.T) {
	src := `
import { Buffer } from "gpu";

const AddOne = kernel("add_one", (buf: mutref<Buffer>) => {
  return;
});

function main(): void {
  return;
}
`
	ds, err := Collect([]byte(src), "main.tsb")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(ds) != 1 {
		t.Fatalf("got %d descriptors, want 1", len(ds))
	}
	if ds[0].Name != "add_one" || ds[0].BindingVar != "AddOne" {
		t.Fatalf("descriptor = %+v", ds[0])
	}
}

func TestCollectIgnoresUnrelatedConst(t *testing.T) {
	src := `const Pi = 3;`
	ds, err := Collect([]byte(src), "main.tsb")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(ds) != 0 {
		t.Fatalf("got %d descriptors, want 0", len(ds))
	}
}

func TestMergeSortedIsDeterministic(t *testing.T) {
	perFile := map[string][]Descriptor{
		"b.tsb": {{Name: "k2", Start: 0}},
		"a.tsb": {{Name: "k1b", Start: 10}, {Name: "k1a", Start: 2}},
	}
	merged := MergeSorted(perFile)
	if len(merged) != 3 {
		t.Fatalf("got %d, want 3", len(merged))
	}
	if merged[0].Name != "k1a" || merged[1].Name != "k1b" || merged[2].Name != "k2" {
		t.Fatalf("merged = %+v", merged)
	}
}
