package strategy

import (
	"encoding/json"
	"testing"
)

func TestFieldValueUnmarshalScalar(t *testing.T) {
	var v FieldValue
	if err := json.Unmarshal([]byte(`"San Francisco"`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.IsList || v.Scalar != "San Francisco" {
		t.Fatalf("unexpected value: %+v", v)
	}
}

func TestFieldValueUnmarshalList(t *testing.T) {
	var v FieldValue
	if err := json.Unmarshal([]byte(`["a.pdf","b.pdf"]`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !v.IsList || len(v.List) != 2 {
		t.Fatalf("unexpected value: %+v", v)
	}
}

func TestFieldValueUnmarshalNull(t *testing.T) {
	var v FieldValue
	if err := json.Unmarshal([]byte(`null`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.IsList || v.Scalar != "" {
		t.Fatalf("expected empty scalar, got %+v", v)
	}
}

func TestFieldValueMarshalEmptyList(t *testing.T) {
	blob, err := json.Marshal(Values())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(blob) != "[]" {
		t.Fatalf("expected [], got %s", blob)
	}
}

func TestEmptyMatchesFieldType(t *testing.T) {
	if v := Empty(FieldFiles); !v.IsList || len(v.List) != 0 {
		t.Fatalf("expected empty list for files, got %+v", v)
	}
	if v := Empty(FieldText); v.IsList || v.Scalar != "" {
		t.Fatalf("expected empty scalar for text, got %+v", v)
	}
}

func TestFieldTypeValid(t *testing.T) {
	for _, ft := range []FieldType{FieldText, FieldDate, FieldFile, FieldFiles, FieldURL, FieldFilesOrURLs} {
		if !ft.Valid() {
			t.Fatalf("expected %q to be valid", ft)
		}
	}
	if FieldType("dropdown").Valid() {
		t.Fatalf("expected dropdown to be invalid")
	}
}
