package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunSchemaObject(t *testing.T) {
	in := strings.NewReader(`{"name":"sam","age":41,"tags":["a","b"]}`)
	var out bytes.Buffer
	if err := runSchema(in, &out); err != nil {
		t.Fatalf("runSchema: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Map", "key: String", "value: Union", "F64", "Sequence"} {
		if !strings.Contains(got, want) {
			t.Errorf("schema tree missing %q, got:\n%s", want, got)
		}
	}
}

func TestRunSchemaPrimitive(t *testing.T) {
	var out bytes.Buffer
	if err := runSchema(strings.NewReader(`42`), &out); err != nil {
		t.Fatalf("runSchema: %v", err)
	}
	if !strings.Contains(out.String(), "F64") {
		t.Errorf("got %q, want a F64 line (JSON numbers decode as float64)", out.String())
	}
}

func TestRunEmitText(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader(`{"name":"sam"}`)
	if err := runEmit(in, &out, "text"); err != nil {
		t.Fatalf("runEmit: %v", err)
	}
	if !strings.Contains(out.String(), `"sam"`) {
		t.Errorf("got %q, want it to contain the quoted string value", out.String())
	}
}

func TestRunEmitLenprefix(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader(`{"name":"sam"}`)
	if err := runEmit(in, &out, "lenprefix"); err != nil {
		t.Fatalf("runEmit: %v", err)
	}
	if out.Len() == 0 {
		t.Error("expected non-empty lenprefix output")
	}
}

func TestRunEmitUnknownFormat(t *testing.T) {
	var out bytes.Buffer
	err := runEmit(strings.NewReader(`1`), &out, "bogus")
	if err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}
