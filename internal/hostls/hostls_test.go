package hostls

import (
	"testing"

	"github.com/tsubalang/tsuba/internal/diagnostics"
)

func TestBootstrapClassifiesSyncUnitMain(t *testing.T) {
	b, err := Bootstrap("main.tsb", map[string]string{
		"main.tsb": "function main(): void { return; }",
	}, RuntimeNone)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if b.Main == nil || b.MainIsAsync || b.ReturnKind != ReturnUnit {
		t.Fatalf("b = %+v", b)
	}
}

func TestBootstrapClassifiesAsyncTokioMain(t *testing.T) {
	b, err := Bootstrap("main.tsb", map[string]string{
		"main.tsb": "async function main(): Promise<void> { return; }",
	}, RuntimeTokio)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if !b.MainIsAsync || b.ReturnKind != ReturnUnit || b.RuntimeKind != RuntimeTokio {
		t.Fatalf("b = %+v", b)
	}
}

func TestBootstrapClassifiesResultReturn(t *testing.T) {
	b, err := Bootstrap("main.tsb", map[string]string{
		"main.tsb": `function main(): Result<void, string> { return; }`,
	}, RuntimeNone)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if b.ReturnKind != ReturnResult {
		t.Fatalf("ReturnKind = %v, want result", b.ReturnKind)
	}
}

func TestBootstrapRejectsAsyncMainWithoutTokio(t *testing.T) {
	_, err := Bootstrap("main.tsb", map[string]string{
		"main.tsb": "async function main(): Promise<void> { return; }",
	}, RuntimeNone)
	rep, ok := diagnostics.AsReport(err)
	if !ok || rep.Code != diagnostics.TSB1004 {
		t.Fatalf("err = %v, want TSB1004", err)
	}
}

func TestBootstrapRejectsUnsupportedMainReturn(t *testing.T) {
	_, err := Bootstrap("main.tsb", map[string]string{
		"main.tsb": "function main(): i32 { return 0; }",
	}, RuntimeNone)
	rep, ok := diagnostics.AsReport(err)
	if !ok || rep.Code != diagnostics.TSB1003 {
		t.Fatalf("err = %v, want TSB1003", err)
	}
}

func TestBootstrapMissingEntryFile(t *testing.T) {
	_, err := Bootstrap("missing.tsb", map[string]string{}, RuntimeNone)
	rep, ok := diagnostics.AsReport(err)
	if !ok || rep.Code != diagnostics.TSB0001 {
		t.Fatalf("err = %v, want TSB0001", err)
	}
}

func TestBootstrapFiltersDeclarationAndCacheFiles(t *testing.T) {
	b, err := Bootstrap("main.tsb", map[string]string{
		"main.tsb":                   "function main(): void { return; }",
		"types.d.tsb":                "",
		"node_modules/pkg/index.tsb": "",
		"lib.tsb":                    "function helper(): void { return; }",
	}, RuntimeNone)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if len(b.UserFiles) != 2 || b.UserFiles[0] != "lib.tsb" || b.UserFiles[1] != "main.tsb" {
		t.Fatalf("UserFiles = %v", b.UserFiles)
	}
}
