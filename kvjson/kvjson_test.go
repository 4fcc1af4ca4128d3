package kvjson

import (
	"testing"

	"github.com/rowlift/rowlift/value"
)

func TestDecodeDict(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want func() *value.Dict
	}{
		{
			name: "string key int value",
			doc:  `{"s_k":7}`,
			want: func() *value.Dict {
				d := value.NewDict()
				d.Set("k", int64(7))
				return d
			},
		},
		{
			name: "all tags",
			doc:  `{"s_name":"ada","i_age":36,"f_score":2.5,"b_admin":true}`,
			want: func() *value.Dict {
				d := value.NewDict()
				d.Set("name", "ada")
				d.Set("age", int64(36))
				d.Set("score", 2.5)
				d.Set("admin", true)
				return d
			},
		},
		{
			name: "tagged literal keys",
			doc:  `{"b_True":1,"i_42":2.0,"f_1.5":3}`,
			want: func() *value.Dict {
				d := value.NewDict()
				d.Set(true, int64(1))
				d.Set(int64(42), int64(2))
				d.Set(1.5, int64(3))
				return d
			},
		},
		{
			name: "empty object",
			doc:  `{}`,
			want: value.NewDict,
		},
		{
			name: "trailing terminator",
			doc:  "{\"s_k\":\"v\"}\x00",
			want: func() *value.Dict {
				d := value.NewDict()
				d.Set("k", "v")
				return d
			},
		},
		{
			name: "empty textual key",
			doc:  `{"s_":""}`,
			want: func() *value.Dict {
				d := value.NewDict()
				d.Set("", "")
				return d
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDict([]byte(tt.doc))
			if err != nil {
				t.Fatalf("DecodeDict: %v", err)
			}
			if want := tt.want(); !value.Equal(got, want) {
				t.Errorf("DecodeDict(%s) mismatch", tt.doc)
			}
		})
	}
}

func TestDecodeDictEntryOrder(t *testing.T) {
	got, err := DecodeDict([]byte(`{"s_b":1,"s_a":2}`))
	if err != nil {
		t.Fatal(err)
	}
	k0, _ := got.Entry(0)
	k1, _ := got.Entry(1)
	if k0 != "b" || k1 != "a" {
		t.Errorf("entry order = %v, %v; want b, a", k0, k1)
	}
}

func TestDecodeDictMalformedKeys(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown tag", `{"x_k":7}`},
		{"missing underscore", `{"sk":7}`},
		{"bad boolean literal", `{"b_maybe":true}`},
		{"bad integer key", `{"i_abc":7}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDict([]byte(tt.doc))
			if err != nil {
				t.Fatalf("malformed keys must not fail the document: %v", err)
			}
			if got.Len() != 1 {
				t.Fatalf("len = %d, want 1", got.Len())
			}
			k, _ := got.Entry(0)
			if !value.IsNone(k) {
				t.Errorf("key = %v, want None", k)
			}
		})
	}
}

func TestDecodeDictValueMismatch(t *testing.T) {
	got, err := DecodeDict([]byte(`{"s_k":17,"i_n":"oops","b_flag":1}`))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < got.Len(); i++ {
		_, v := got.Entry(i)
		if !value.IsNone(v) {
			t.Errorf("entry %d value = %v, want None", i, v)
		}
	}
}

func TestDecodeDictNestedValueSkipped(t *testing.T) {
	got, err := DecodeDict([]byte(`{"s_a":{"inner":[1,2]},"s_b":"ok"}`))
	if err != nil {
		t.Fatal(err)
	}
	va, _ := got.Get("a")
	if !value.IsNone(va) {
		t.Errorf("nested value = %v, want None", va)
	}
	vb, _ := got.Get("b")
	if vb != "ok" {
		t.Errorf("following entry = %v, want ok", vb)
	}
}

func TestDecodeDictMalformedPayload(t *testing.T) {
	docs := []string{
		``,
		`not json`,
		`[1,2]`,
		`{"s_k":`,
		`"just a string"`,
	}
	for _, doc := range docs {
		if _, err := DecodeDict([]byte(doc)); err == nil {
			t.Errorf("DecodeDict(%q) should fail", doc)
		}
	}
}
